package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DBDriver              string
	DBPath                string
	DatabaseURL           string
	LogLevel              string
	ContentSource         string
	ContentAPIURL         string
	JWTSecret             string
	SyncWorkerCount       int
	SyncQueueSize         int
	ImagePrefetch         bool
	ImageFetchConcurrency int
	PrefsAppName          string
	GameRulesPath         string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBDriver:              envOr("DB_DRIVER", "sqlite3"),
		DBPath:                envOr("DB_PATH", "file:plantquiz.db"),
		DatabaseURL:           envOr("DATABASE_URL", ""),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		ContentSource:         envOr("CONTENT_SOURCE", "db"),
		ContentAPIURL:         envOr("CONTENT_API_URL", ""),
		JWTSecret:             envOr("JWT_SECRET", ""),
		SyncWorkerCount:       envIntOr("SYNC_WORKER_COUNT", 2),
		SyncQueueSize:         envIntOr("SYNC_QUEUE_SIZE", 64),
		ImagePrefetch:         envBoolOr("IMAGE_PREFETCH", true),
		ImageFetchConcurrency: envIntOr("IMAGE_FETCH_CONCURRENCY", 8),
		PrefsAppName:          envOr("PREFS_APP_NAME", "plantquiz"),
		GameRulesPath:         envOr("GAME_RULES_PATH", ""),
	}
}

// Validate checks that the configuration is usable before the server starts.
// All problems are reported together.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	switch c.DBDriver {
	case "sqlite3", "sqlite":
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH cannot be empty for sqlite")
		}
	case "postgres", "mysql":
		if c.DatabaseURL == "" {
			problems = append(problems, fmt.Sprintf("DATABASE_URL is required for %s", c.DBDriver))
		}
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER must be one of sqlite3, postgres, mysql, got %q", c.DBDriver))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	switch c.ContentSource {
	case "db":
	case "remote":
		if c.ContentAPIURL == "" {
			problems = append(problems, "CONTENT_API_URL is required when CONTENT_SOURCE=remote")
		}
	default:
		problems = append(problems, fmt.Sprintf("CONTENT_SOURCE must be db or remote, got %q", c.ContentSource))
	}
	if c.SyncWorkerCount < 1 || c.SyncWorkerCount > 64 {
		problems = append(problems, fmt.Sprintf("SYNC_WORKER_COUNT must be between 1 and 64, got %d", c.SyncWorkerCount))
	}
	if c.SyncQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("SYNC_QUEUE_SIZE must be positive, got %d", c.SyncQueueSize))
	}
	if c.ImageFetchConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("IMAGE_FETCH_CONCURRENCY must be positive, got %d", c.ImageFetchConcurrency))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
