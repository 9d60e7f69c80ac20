package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	Port         string
	DatabaseDSN  string
	Env          string
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "oficina.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.GeminiModel = getEnv("GEMINI_MODEL", "gemini-flash-latest")
	cfg.AITimeout = parseDuration("AI_TIMEOUT", 30*time.Second)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseDuration reads an env var as a Go duration with default.
func parseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}
