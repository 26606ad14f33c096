package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraev/notesync/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.True(t, cfg.Sync.OfflineModeEnabled)
	assert.True(t, cfg.Sync.AutoSyncEnabled)
	assert.Equal(t, models.StrategyManualMerge, cfg.Sync.ConflictStrategy)
	assert.Equal(t, 5*time.Second, cfg.Sync.Debounce)
	assert.Equal(t, 30*time.Second, cfg.Sync.TickInterval)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.Equal(t, 3, cfg.Sync.MaxConcurrentUploads)
	assert.Equal(t, 2*time.Second, cfg.Drafts.AutoSaveInterval)
	assert.Equal(t, 7, cfg.Drafts.MaxAgeDays)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("NOTESYNC_SERVER_URL", "https://notes.example.com")
	t.Setenv("NOTESYNC_DB_PATH", "/tmp/test-notes.db")
	t.Setenv("NOTESYNC_CONFLICT_STRATEGY", "use-remote")
	t.Setenv("NOTESYNC_SYNC_DEBOUNCE", "500ms")
	t.Setenv("NOTESYNC_MAX_RETRIES", "5")
	t.Setenv("NOTESYNC_AUTO_SYNC_ENABLED", "false")
	t.Setenv("NOTESYNC_DRAFT_AUTOSAVE_INTERVAL_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://notes.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "/tmp/test-notes.db", cfg.Storage.Path)
	assert.Equal(t, models.StrategyUseRemote, cfg.Sync.ConflictStrategy)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.Debounce)
	assert.Equal(t, 5, cfg.Sync.MaxRetries)
	assert.False(t, cfg.Sync.AutoSyncEnabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Drafts.AutoSaveInterval)
}

func TestLoad_InvalidStrategy(t *testing.T) {
	t.Setenv("NOTESYNC_CONFLICT_STRATEGY", "coin-flip")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("NOTESYNC_SYNC_DEBOUNCE", "soon")

	_, err := Load()
	assert.Error(t, err)
}
