/**
 * @description
 * Configuration loader for the Predictions backend.
 * Responsible for reading environment variables, setting defaults, and performing validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Admin credentials and token default to the values the dashboard has always shipped with.
 * - Fails fast on an unknown storage driver or a postgres driver without DATABASE_URL.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port      string
	Env       string // "development" or "production"
	StaticDir string // built frontend, served in production
	BodyLimit int
}

// StorageConfig selects the record store backend
type StorageConfig struct {
	Driver     string
	DataDir    string // file driver
	SQLitePath string // sqlite driver
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// AuthConfig holds the single admin identity and its static bearer token
type AuthConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	Token         string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Missing .env is fine; containers inject env vars directly
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "5000"),
			Env:       getEnv("GO_ENV", "development"),
			StaticDir: getEnv("STATIC_DIR", "./client/build"),
			BodyLimit: getEnvAsInt("BODY_LIMIT", 1024*1024),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", DriverFile))),
			DataDir:    getEnv("DATA_DIR", "./data"),
			SQLitePath: getEnv("SQLITE_PATH", "./data/predictions.db"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Auth: AuthConfig{
			AdminEmail:    sanitizeCredential(getEnv("ADMIN_EMAIL", "admin@dhronepredicts.com")),
			AdminPassword: sanitizeCredential(getEnv("ADMIN_PASSWORD", "dhrone123")),
			AdminName:     getEnv("ADMIN_NAME", "Admin"),
			Token:         sanitizeCredential(getEnv("ADMIN_TOKEN", "admin-token")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the built frontend should be served
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// validate checks for required variables
func validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case DriverFile:
		if cfg.Storage.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file driver")
		}
	case DriverRedis:
		if cfg.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis driver")
		}
	case DriverPostgres:
		if cfg.DB.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.Auth.Token == "" {
		return fmt.Errorf("ADMIN_TOKEN must not be empty")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
