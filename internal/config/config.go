package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	Port string
	// Anthropic credentials and model for the analysis and chat collaborators
	AnthropicAPIKey string
	AnthropicModel  string
	// FetchTimeout bounds every upstream fetch. The upstream sources are
	// uncontrolled third parties, so an unbounded hang is a real risk.
	FetchTimeout time.Duration
	// WorkerPoolSize bounds concurrent extractions service-wide
	WorkerPoolSize int
}

const (
	defaultModel        = "claude-sonnet-4-5-20250929"
	defaultFetchTimeout = 15 * time.Second
)

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*AppConfig, error) {
	// Attempt to load .env file. If it doesn't exist, that's fine,
	// environment variables can still be used.
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Info: Could not load .env file: %v (this is ok if using environment variables)\n", err)
	}

	config := &AppConfig{
		Port:            getEnv("PORT", "8080"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", defaultModel),
		FetchTimeout:    getDurationEnv("FETCH_TIMEOUT_SECONDS", defaultFetchTimeout),
		WorkerPoolSize:  getIntEnv("WORKER_POOL_SIZE", 8),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid
func (c *AppConfig) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port number: %s", c.Port)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}

	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("worker pool size must be positive, got %d", c.WorkerPoolSize)
	}

	if c.AnthropicAPIKey == "" {
		fmt.Println("Warning: ANTHROPIC_API_KEY not set - analysis and chat endpoints will fail")
	}

	return nil
}

// GetPort returns the port as an integer
func (c *AppConfig) GetPort() int {
	port, _ := strconv.Atoi(c.Port) // Already validated in Validate()
	return port
}

// HasAnthropicConfig returns true if the Anthropic API key is available
func (c *AppConfig) HasAnthropicConfig() bool {
	return c.AnthropicAPIKey != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDurationEnv reads a whole-seconds environment variable as a duration
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
