package middleware

import (
	"github.com/Conceptual-Machines/drumscore-api/internal/config"
	"github.com/gin-gonic/gin"
)

const anonymousUser = "anonymous"

// Identity picks the identity middleware for the configured auth mode.
// Identity is used for logging and metrics only; no request is rejected.
func Identity(cfg *config.Config) gin.HandlerFunc {
	if cfg.IsGatewayMode() {
		return OptionalGatewayAuth()
	}
	return NoAuth()
}

// NoAuth is a pass-through middleware for when AUTH_MODE=none.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set a placeholder user for logging purposes
		c.Set("user_id_str", anonymousUser)
		c.Next()
	}
}

// OptionalGatewayAuth reads user info from gateway headers (X-User-ID,
// X-User-Email, X-User-Role) when present. Requests without them are
// treated as anonymous.
func OptionalGatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr := c.GetHeader("X-User-ID")
		if userIDStr == "" {
			userIDStr = anonymousUser
		}

		c.Set("user_id_str", userIDStr)
		if email := c.GetHeader("X-User-Email"); email != "" {
			c.Set("user_email", email)
		}
		if role := c.GetHeader("X-User-Role"); role != "" {
			c.Set("user_role", role)
		}

		c.Next()
	}
}

// GetUserIDFromGateway retrieves the user ID set by the identity middleware
// Returns the string ID and a boolean indicating if it was found
func GetUserIDFromGateway(c *gin.Context) (string, bool) {
	userIDStr, exists := c.Get("user_id_str")
	if !exists {
		return "", false
	}
	id, ok := userIDStr.(string)
	return id, ok
}
