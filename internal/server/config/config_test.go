package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTESYNC_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "notesync-server.db", cfg.Storage.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 300, cfg.Limits.Rate)
	assert.Equal(t, time.Minute, cfg.Limits.Window)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("NOTESYNC_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NOTESYNC_JWT_SECRET", "test-secret")
	t.Setenv("NOTESYNC_SERVER_ADDRESS", "127.0.0.1:9999")
	t.Setenv("NOTESYNC_SERVER_DB_PATH", "/tmp/notes.db")
	t.Setenv("NOTESYNC_TOKEN_TTL", "2h")
	t.Setenv("NOTESYNC_RATE_LIMIT", "10")
	t.Setenv("NOTESYNC_RATE_WINDOW", "30s")
	t.Setenv("NOTESYNC_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Address)
	assert.Equal(t, "/tmp/notes.db", cfg.Storage.Path)
	assert.Equal(t, 2*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 10, cfg.Limits.Rate)
	assert.Equal(t, 30*time.Second, cfg.Limits.Window)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("NOTESYNC_JWT_SECRET", "test-secret")
	t.Setenv("NOTESYNC_TOKEN_TTL", "yesterday")

	_, err := Load()
	assert.Error(t, err)
}
