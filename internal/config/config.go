package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// app config, loaded from environment variables
type Config struct {
	Port        string
	DatabaseURL string

	ReaperSchedule string
	ReaperEnabled  bool
	ReaperMaxIdle  time.Duration
	ReaperBatch    int
}

// LoadConfig reads the environment. Only the database URL is mandatory:
// provider credentials live per-user in the database, not in the service
// environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8084"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ReaperSchedule: getEnvOrDefault("REAPER_SCHEDULE", "*/30 * * * *"),
		ReaperEnabled:  getEnvBool("REAPER_ENABLED", true),
		ReaperBatch:    getEnvInt("REAPER_BATCH", 100),
	}

	maxIdle, err := time.ParseDuration(getEnvOrDefault("REAPER_MAX_IDLE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REAPER_MAX_IDLE: %w", err)
	}
	cfg.ReaperMaxIdle = maxIdle

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if cfg.ReaperMaxIdle <= 0 {
		return errors.New("REAPER_MAX_IDLE must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
