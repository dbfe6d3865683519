package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Gemini API (optional - AI summaries are disabled without it)
	GeminiAPIKey string

	// Data directory for the persisted endpoint settings
	DataDir string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		DataDir:      getEnv("DATA_DIR", "./data"),
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
