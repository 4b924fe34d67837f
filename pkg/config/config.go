package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Tatch-AI/harper-memory-service/pkg/errors"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Zep
	ZepAPIKey  string
	ZepAPIURL  string
	ZepTimeout time.Duration

	// Narrative (optional LLM summary of the enriched profile)
	OpenAIAPIKey   string
	NarrativeModel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		ZepAPIKey:      getEnv("ZEP_API_KEY", ""),
		ZepAPIURL:      getEnv("ZEP_API_URL", "https://api.getzep.com/api/v2"),
		ZepTimeout:     time.Duration(getEnvInt("ZEP_TIMEOUT_MS", 30000)) * time.Millisecond,
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		NarrativeModel: getEnv("NARRATIVE_MODEL", "gpt-4o-mini"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.ZepAPIKey == "" {
		return errors.NewConfigMissingRequired("ZEP_API_KEY")
	}
	if c.ZepAPIURL == "" {
		return errors.NewConfigMissingRequired("ZEP_API_URL")
	}
	// OpenAI API key is optional; narrative generation is disabled without it
	return nil
}

// NarrativeEnabled returns true if the optional profile narrative should run
func (c *Config) NarrativeEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
