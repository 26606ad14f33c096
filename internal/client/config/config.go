// Package config loads client configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkraev/notesync/internal/models"
)

// Config carries every knob the client reads. Values are read once at
// startup; components re-read the fields they care about at the start of
// each cycle, so a reloaded config takes effect on the next cycle.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Sync    SyncConfig
	Drafts  DraftConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type StorageConfig struct {
	Path string
}

type SyncConfig struct {
	OfflineModeEnabled   bool
	AutoSyncEnabled      bool
	ConflictStrategy     models.Strategy
	Debounce             time.Duration
	TickInterval         time.Duration
	MaxRetries           int
	MaxConcurrentUploads int
}

type DraftConfig struct {
	AutoSaveInterval time.Duration
	MaxAgeDays       int
}

type LoggingConfig struct {
	Level string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in when present; real environment variables
// win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	requestTimeout, err := time.ParseDuration(getEnv("NOTESYNC_REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTESYNC_REQUEST_TIMEOUT: %w", err)
	}
	debounce, err := time.ParseDuration(getEnv("NOTESYNC_SYNC_DEBOUNCE", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTESYNC_SYNC_DEBOUNCE: %w", err)
	}
	tick, err := time.ParseDuration(getEnv("NOTESYNC_SYNC_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTESYNC_SYNC_INTERVAL: %w", err)
	}

	strategy := models.Strategy(getEnv("NOTESYNC_CONFLICT_STRATEGY", string(models.StrategyManualMerge)))
	if !strategy.Valid() {
		return nil, fmt.Errorf("invalid NOTESYNC_CONFLICT_STRATEGY: %q", strategy)
	}

	dbPath := getEnv("NOTESYNC_DB_PATH", "")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate home directory for the default db path: %w", err)
		}
		dbPath = home + "/.notesync/notes.db"
	}

	return &Config{
		Server: ServerConfig{
			BaseURL:        getEnv("NOTESYNC_SERVER_URL", "http://localhost:8080"),
			RequestTimeout: requestTimeout,
		},
		Storage: StorageConfig{
			Path: dbPath,
		},
		Sync: SyncConfig{
			OfflineModeEnabled:   getEnvAsBool("NOTESYNC_OFFLINE_MODE_ENABLED", true),
			AutoSyncEnabled:      getEnvAsBool("NOTESYNC_AUTO_SYNC_ENABLED", true),
			ConflictStrategy:     strategy,
			Debounce:             debounce,
			TickInterval:         tick,
			MaxRetries:           getEnvAsInt("NOTESYNC_MAX_RETRIES", 3),
			MaxConcurrentUploads: getEnvAsInt("NOTESYNC_MAX_CONCURRENT_UPLOADS", 3),
		},
		Drafts: DraftConfig{
			AutoSaveInterval: time.Duration(getEnvAsInt("NOTESYNC_DRAFT_AUTOSAVE_INTERVAL_MS", 2000)) * time.Millisecond,
			MaxAgeDays:       getEnvAsInt("NOTESYNC_DRAFT_MAX_AGE_DAYS", 7),
		},
		Logging: LoggingConfig{
			Level: getEnv("NOTESYNC_LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
