package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	JWTSecret string // Token signing secret; required outside dev
	Issuer    string // Issuer claim for tokens (default: courier)

	DatabaseFile string   // Path to SQLite database file (default: ./courier.db)
	CORSOrigins  []string // Browser origins allowed to call the API with credentials

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// ErrMissingJWTSecret means the process would mint unverifiable tokens.
var ErrMissingJWTSecret = errors.New("app: JWT_SECRET is required outside dev")

func LoadConfig() Config {
	return Config{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		Issuer:              getEnvOrDefault("TOKEN_ISSUER", "courier"),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "courier.db"),
		CORSOrigins:         splitOrigins(getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173")),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate rejects configurations that would be unsafe to run. Dev gets a
// pass on the secret; New generates an ephemeral one there, which also means
// dev sessions don't survive a restart.
func (c Config) Validate() error {
	if c.JWTSecret == "" && c.Env != "dev" {
		return ErrMissingJWTSecret
	}
	return nil
}

// SecureCookies reports whether cookies must carry the Secure flag. Only
// local dev runs without TLS; staging and prod both serve HTTPS.
func (c Config) SecureCookies() bool {
	return c.Env != "dev"
}

func splitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
