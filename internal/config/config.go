package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_TYPE.
const (
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Storage
	StorageType   string
	DatabaseURL   string
	DBMaxConns    int
	MigrationsDir string

	// Redis (message store and/or live session updates)
	RedisURL string

	// Gemini AI
	GeminiAPIKey string

	// Logging
	LogLevel  string
	LogFormat string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	storageType := getEnvOrDefault("STORAGE_TYPE", StoragePostgres)

	cfg := &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		Env:           getEnvOrDefault("ENV", "development"),
		StorageType:   storageType,
		DatabaseURL:   getEnvOrDefault("DATABASE_URL", ""),
		DBMaxConns:    getEnvAsIntOrDefault("DB_MAX_CONNS", 25),
		MigrationsDir: getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:      getEnvOrDefault("REDIS_URL", ""),
		GeminiAPIKey:  mustGetEnv("GEMINI_API_KEY"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "json"),
		FrontendURL:   getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	switch storageType {
	case StoragePostgres:
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	case StorageRedis:
		cfg.RedisURL = mustGetEnv("REDIS_URL")
	}

	return cfg
}

// Validate reports configuration combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageType {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_TYPE=%s", StoragePostgres)
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_TYPE=%s", StorageRedis)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.StorageType)
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// LiveUpdatesEnabled reports whether session events can be fanned out over Redis.
func (c *Config) LiveUpdatesEnabled() bool {
	return c.RedisURL != ""
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
