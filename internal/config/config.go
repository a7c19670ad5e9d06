// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// Catalog
	CatalogSource   string
	CatalogDir      string
	CatalogS3Prefix string

	// AWS
	AWSRegion string
	S3Bucket  string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// SES
	SESSenderEmail string
	DashboardURL   string

	// HTTP
	Port        int
	CORSOrigins []string

	// Assistant
	AssistantTypingDelay time.Duration

	// Application
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// Catalog
		CatalogSource:   strings.ToLower(getEnv("CATALOG_SOURCE", "embedded")),
		CatalogDir:      getEnv("CATALOG_DIR", "./data"),
		CatalogS3Prefix: getEnv("CATALOG_S3_PREFIX", "catalog/"),

		// AWS
		AWSRegion: getEnv("AWS_REGION", "ca-central-1"),
		S3Bucket:  getEnv("S3_BUCKET", "auctus-catalog-dev"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnv("DB_NAME", "auctus"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),
		DashboardURL:   getEnv("DASHBOARD_URL", "http://localhost:3000"),

		// HTTP
		Port:        getEnvInt("PORT", 8080),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),

		// Assistant
		AssistantTypingDelay: time.Duration(getEnvInt("ASSISTANT_TYPING_DELAY_MS", 0)) * time.Millisecond,

		// Application
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case "embedded", "dir", "s3", "postgres":
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q: must be embedded, dir, s3 or postgres", c.CatalogSource)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	if c.AssistantTypingDelay < 0 {
		return fmt.Errorf("invalid ASSISTANT_TYPING_DELAY_MS: must not be negative")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + url.UserPassword(c.DBUser, c.DBPassword).String() + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// IsProduction reports whether the stage is a production stage.
func (c *Config) IsProduction() bool {
	return c.Stage == "prod" || c.Stage == "production"
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvList retrieves a comma separated environment variable or returns a default value.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
