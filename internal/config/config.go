// Package config reads the small set of environment variables that
// configure a jez-go host process: where to send telemetry, and which
// environment/release to tag it with.
package config

import "os"

// Config holds the application configuration, loaded once at startup.
type Config struct {
	Environment string
	SentryDSN   string
	Release     string
}

// Load reads Config from the environment, applying sensible defaults
// for anything unset. Call godotenv.Load before Load so a local .env
// file's values show up in os.Getenv.
func Load() *Config {
	return &Config{
		Environment: getEnv("JEZ_ENVIRONMENT", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Release:     getEnv("JEZ_RELEASE", "jez-go@dev"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
