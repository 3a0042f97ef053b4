package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/drumscore-api/internal/config"
	"github.com/Conceptual-Machines/drumscore-api/internal/notation"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"environment": h.cfg.Environment,
		"notation": gin.H{
			"instruments":        len(notation.Instruments()),
			"strict_instruments": h.cfg.StrictInstruments,
		},
	})
}
