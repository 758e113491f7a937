// Package config centralises configuration parsing for the portal service.
package config

import (
	"os"
	"time"
)

// Config captures runtime configuration values, with local-dev defaults.
type Config struct {
	HTTPAddress   string
	DatabaseURL   string
	MigrationsDir string
	JWTSecret     string
	JWTIssuer     string
	// RequestTimeout bounds every request, store calls included. A store
	// call that exceeds it surfaces as STORE_UNAVAILABLE.
	RequestTimeout time.Duration
	SeedOnStartup  bool
}

// Load reads environment variables into Config.
func Load() Config {
	return Config{
		HTTPAddress:    getEnv("HTTP_ADDRESS", ":8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://pguser:pgpass@db:5432/unimonitor?sslmode=disable"),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "./migrations"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:      getEnv("JWT_ISSUER", "unimonitor.identity"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		SeedOnStartup:  getBoolEnv("SEED_ON_STARTUP", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value == "1" || value == "true"
	}
	return fallback
}
