package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultRenderCacheSize = 256
	defaultMaxBodyBytes    = 4 << 20
)

// Config holds the application configuration
// Note: This is a stateless service - no database or auth secrets needed.
// Analyses arrive in the request body and rendered scores go back in the response.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Auth mode
	// - "none": No identity (self-hosted, local dev)
	// - "gateway": Read X-User-* headers set by the upstream gateway, for logging only
	AuthMode string

	// Notation
	StrictInstruments bool // Reject unknown instruments instead of dropping them
	RenderCacheSize   int  // Number of rendered scores kept in memory

	// HTTP
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		AuthMode:           getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
		StrictInstruments:  getEnv("NOTATION_STRICT_INSTRUMENTS", "false") == "true",
		RenderCacheSize:    getEnvInt("RENDER_CACHE_SIZE", defaultRenderCacheSize),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", defaultMaxBodyBytes)),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind the gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
