// Package config loads the server configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	Limits  LimitsConfig
	Logging LoggingConfig
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Address         string
	ShutdownTimeout time.Duration
}

// StorageConfig holds the database settings
type StorageConfig struct {
	Path string
}

// AuthConfig holds the token settings
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// LimitsConfig holds the rate limiter settings
type LimitsConfig struct {
	Rate   int
	Window time.Duration
}

// LoggingConfig holds the logging settings
type LoggingConfig struct {
	Level string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Address:         getEnv("NOTESYNC_SERVER_ADDRESS", ":8080"),
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Path: getEnv("NOTESYNC_SERVER_DB_PATH", "notesync-server.db"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("NOTESYNC_JWT_SECRET", ""),
		},
		Limits: LimitsConfig{
			Rate: getEnvAsInt("NOTESYNC_RATE_LIMIT", 300),
		},
		Logging: LoggingConfig{
			Level: getEnv("NOTESYNC_LOG_LEVEL", "info"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("NOTESYNC_JWT_SECRET is required")
	}

	ttl, err := getEnvAsDuration("NOTESYNC_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.Auth.AccessTokenTTL = ttl

	window, err := getEnvAsDuration("NOTESYNC_RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.Limits.Window = window

	shutdown, err := getEnvAsDuration("NOTESYNC_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Server.ShutdownTimeout = shutdown

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return value, nil
}
