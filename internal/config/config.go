package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET is required in release mode")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrInvalidTokenTTL   = errors.New("JWT_EXPIRES_IN must be a positive duration")
)

const defaultJWTSecret = "default-secret-key-change-me"

type Config struct {
	Port        string
	APIPrefix   string
	GinMode     string
	DBDriver    string
	DatabaseURL string

	JWTSecret    string
	JWTIssuer    string
	JWTExpiresIn time.Duration

	LogLevel  string
	LogFormat string

	CORSAllowOrigins []string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("JWT_EXPIRES_IN", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		APIPrefix:        getEnv("API_PREFIX", "/api/v1"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabaseURL:      getEnv("DATABASE_URL", "tasks.db"),
		JWTSecret:        getEnv("JWT_SECRET", defaultJWTSecret),
		JWTIssuer:        getEnv("JWT_ISSUER", "task-api"),
		JWTExpiresIn:     ttl,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		AdminName:        getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.DBDriver)
	}

	if c.JWTExpiresIn <= 0 {
		return ErrInvalidTokenTTL
	}

	if c.IsRelease() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return ErrMissingJWTSecret
	}

	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// HasAdminBootstrap reports whether a super user should be provisioned on startup.
func (c *Config) HasAdminBootstrap() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
