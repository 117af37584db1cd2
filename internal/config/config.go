// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Admin session signing key (HS256)
	JWTSecret string

	// Origins allowed to call the API with credentials
	CORSOrigins []string

	// Logging
	LogLevel     string // "debug", "info", "warn", "error"
	LogFile      string // optional rotating file, in addition to stdout
	LogMaxSizeMB int

	// S3-compatible storage for uploaded images
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Cron spec for the dashboard status probes
	StatusSchedule string

	// Admin account created on first start when the admins table is empty
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from a .env file (when present) and environment
// variables, applying defaults for development where appropriate. Variables
// already set in the environment win over the .env file. Returns an error
// if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	env := envOrDefault("APP_ENV", "development")
	defaultLevel := "info"
	if env == "development" {
		defaultLevel = "debug"
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  env,

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "directorio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "directorio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000")),

		LogLevel:     strings.ToLower(envOrDefault("LOG_LEVEL", defaultLevel)),
		LogFile:      os.Getenv("LOG_FILE"),
		LogMaxSizeMB: intOrDefault("LOG_MAX_SIZE_MB", 10),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "directorio-public"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		StatusSchedule: envOrDefault("STATUS_SCHEDULE", "@every 30s"),

		AdminUsername: envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", "admin"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		if os.Getenv("ADMIN_PASSWORD") == "" {
			// Production never seeds the default password.
			cfg.AdminPassword = ""
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// intOrDefault reads a positive integer variable, returning fallback if it
// is unset or not a positive number.
func intOrDefault(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
