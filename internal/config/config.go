// Package config provides configuration management functionality.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// Market data source
	QuoteBaseURL string        // Yahoo Finance chart API base URL
	QuoteTimeout time.Duration // per-request timeout, bounds worst-case refresh latency

	// Refresh contract
	RefreshInterval            time.Duration // headline metrics / positions polling
	PerformanceRefreshInterval time.Duration // performance series polling
	FreshnessWindow            time.Duration // cache reuse window
	HistoryLookbackDays        int           // historical closes per position
	SMAPeriod                  int           // moving average overlay on the performance chart
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),

		QuoteBaseURL: getEnv("QUOTE_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
		QuoteTimeout: getEnvAsDuration("QUOTE_TIMEOUT", 10*time.Second),

		RefreshInterval:            getEnvAsDuration("REFRESH_INTERVAL", 5*time.Second),
		PerformanceRefreshInterval: getEnvAsDuration("PERFORMANCE_REFRESH_INTERVAL", 5*time.Minute),
		FreshnessWindow:            getEnvAsDuration("FRESHNESS_WINDOW", 5*time.Minute),
		HistoryLookbackDays:        getEnvAsInt("HISTORY_LOOKBACK_DAYS", 30),
		SMAPeriod:                  getEnvAsInt("SMA_PERIOD", 7),
	}

	return cfg, nil
}

// getEnv retrieves an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvAsDuration retrieves an environment variable as duration with a fallback value
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
