package draft

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraev/notesync/internal/client/storage/boltdb"
	"github.com/mkraev/notesync/internal/models"
)

func createTestManager(t *testing.T) *Manager {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewManager(store, logger)
}

func TestManager_SaveGetDraft(t *testing.T) {
	m := createTestManager(t)
	ctx := context.Background()

	draft := &models.Draft{
		NoteID:  "n1",
		Title:   "work in progress",
		Content: "half a sentence",
		Tags:    []string{"todo"},
	}
	require.NoError(t, m.SaveDraft(ctx, draft))

	got, err := m.GetDraft(ctx, "n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.Title, got.Title)
	assert.NotZero(t, got.SavedAt, "save stamps the draft")

	assert.True(t, m.HasDraft(ctx, "n1"))
	assert.False(t, m.HasDraft(ctx, "other"))
}

func TestManager_GetDraft_Missing(t *testing.T) {
	m := createTestManager(t)

	got, err := m.GetDraft(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_SaveDraft_RequiresNoteID(t *testing.T) {
	m := createTestManager(t)

	err := m.SaveDraft(context.Background(), &models.Draft{Title: "orphan"})
	assert.Error(t, err)
}

func TestManager_DeleteDraft_Idempotent(t *testing.T) {
	m := createTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.SaveDraft(ctx, &models.Draft{NoteID: "n1"}))
	require.NoError(t, m.DeleteDraft(ctx, "n1"))
	require.NoError(t, m.DeleteDraft(ctx, "n1"))
	assert.False(t, m.HasDraft(ctx, "n1"))
}

func TestManager_CleanupExpired(t *testing.T) {
	m := createTestManager(t)
	ctx := context.Background()

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	// 8 days old: expired. 6 days old: retained.
	stale := &models.Draft{NoteID: "stale"}
	fresh := &models.Draft{NoteID: "fresh"}

	m.now = func() time.Time { return now.Add(-8 * 24 * time.Hour) }
	require.NoError(t, m.SaveDraft(ctx, stale))
	m.now = func() time.Time { return now.Add(-6 * 24 * time.Hour) }
	require.NoError(t, m.SaveDraft(ctx, fresh))
	m.now = func() time.Time { return now }

	removed, err := m.CleanupExpired(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.False(t, m.HasDraft(ctx, "stale"))
	assert.True(t, m.HasDraft(ctx, "fresh"))
}

func TestManager_CleanupExpired_DefaultTTL(t *testing.T) {
	m := createTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.SaveDraft(ctx, &models.Draft{NoteID: "n1"}))

	removed, err := m.CleanupExpired(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed, "a fresh draft survives the default TTL")
}

func TestAutosaver_Debounce(t *testing.T) {
	m := createTestManager(t)
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	saver := NewAutosaver(m, 20*time.Millisecond, logger)

	// rapid edits: only the last buffer should land
	saver.Schedule(&models.Draft{NoteID: "n1", Content: "v1"})
	saver.Schedule(&models.Draft{NoteID: "n1", Content: "v2"})
	saver.Schedule(&models.Draft{NoteID: "n1", Content: "v3"})

	assert.Eventually(t, func() bool {
		d, err := m.GetDraft(ctx, "n1")
		return err == nil && d != nil && d.Content == "v3"
	}, time.Second, 5*time.Millisecond)
}

func TestAutosaver_Flush(t *testing.T) {
	m := createTestManager(t)
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	saver := NewAutosaver(m, time.Hour, logger)

	saver.Schedule(&models.Draft{NoteID: "n1", Content: "buffered"})
	saver.Flush(ctx)

	d, err := m.GetDraft(ctx, "n1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "buffered", d.Content)
}

func TestAutosaver_StopDisablesScheduling(t *testing.T) {
	m := createTestManager(t)
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	saver := NewAutosaver(m, time.Hour, logger)

	saver.Stop(ctx)
	saver.Schedule(&models.Draft{NoteID: "n1", Content: "late"})
	saver.Flush(ctx)

	d, err := m.GetDraft(ctx, "n1")
	require.NoError(t, err)
	assert.Nil(t, d)
}
