package api

import (
	"github.com/Conceptual-Machines/drumscore-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/drumscore-api/internal/api/middleware"
	"github.com/Conceptual-Machines/drumscore-api/internal/config"
	"github.com/Conceptual-Machines/drumscore-api/internal/metrics"
	"github.com/Conceptual-Machines/drumscore-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived collaborators the router wires into handlers
type Dependencies struct {
	Notation      *services.NotationService
	SentryMetrics *metrics.SentryMetrics
	CloudWatch    *metrics.Client
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.SentryMetrics, deps.CloudWatch))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, deps.Notation.Options())
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	v1.Use(apimiddleware.Identity(cfg))
	{
		notationHandler := handlers.NewNotationHandler(deps.Notation)
		v1.GET("/instruments", notationHandler.Instruments)

		notation := v1.Group("/notation")
		notation.Use(apimiddleware.BodyLimit(cfg.MaxBodyBytes))
		notation.POST("/validate", notationHandler.Validate)
		notation.POST("/render", notationHandler.Render)
		notation.POST("/midi", notationHandler.MIDI)
	}

	return router
}
