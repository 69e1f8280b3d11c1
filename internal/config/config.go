package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration
type Config struct {
	APIBaseURL     string
	DataDir        string
	RequestTimeout time.Duration
}

// Load reads configuration from a .env file (when present) and the
// environment, falling back to defaults
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:     getEnv("INVITER_API_URL", "http://localhost:8000"),
		DataDir:        getEnv("INVITER_DATA_DIR", defaultDataDir()),
		RequestTimeout: 30 * time.Second,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".local", "share", "inviter")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
