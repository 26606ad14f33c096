package boltdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
)

func TestStorage_SaveGetNote(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	note := createTestNote("n1", "user-1", time.Now(), models.SyncStatusPending)
	require.NoError(t, store.SaveNote(ctx, note))

	got, err := store.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, note.Title, got.Title)
	assert.Equal(t, note.Tags, got.Tags)
	assert.Equal(t, note.SyncStatus, got.SyncStatus)
}

func TestStorage_GetNote_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetNote(context.Background(), "missing")
	assert.True(t, errors.Is(err, storage.ErrNoteNotFound))
}

func TestStorage_SaveNote_FullOverwrite(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	note := createTestNote("n1", "user-1", time.Now(), models.SyncStatusPending)
	require.NoError(t, store.SaveNote(ctx, note))

	// put never partial-merges: the second record fully replaces the first
	replacement := createTestNote("n1", "user-1", time.Now(), models.SyncStatusSynced)
	replacement.Summary = ""
	replacement.Tags = nil
	require.NoError(t, store.SaveNote(ctx, replacement))

	got, err := store.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Empty(t, got.Summary)
	assert.Empty(t, got.Tags)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)
}

func TestStorage_DeleteNote_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	note := createTestNote("n1", "user-1", time.Now(), models.SyncStatusSynced)
	require.NoError(t, store.SaveNote(ctx, note))

	require.NoError(t, store.DeleteNote(ctx, "n1"))
	// deleting again is a no-op, not an error
	require.NoError(t, store.DeleteNote(ctx, "n1"))

	_, err := store.GetNote(ctx, "n1")
	assert.True(t, errors.Is(err, storage.ErrNoteNotFound))
}

func TestStorage_ListNotes(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveNote(ctx, createTestNote("n1", "user-1", base.Add(1*time.Minute), models.SyncStatusSynced)))
	require.NoError(t, store.SaveNote(ctx, createTestNote("n2", "user-1", base.Add(3*time.Minute), models.SyncStatusPending)))
	require.NoError(t, store.SaveNote(ctx, createTestNote("n3", "user-2", base.Add(2*time.Minute), models.SyncStatusPending)))

	tests := []struct {
		name    string
		filter  storage.ListFilter
		page    storage.Page
		wantIDs []string
	}{
		{
			name:    "all notes ordered by updated_at desc",
			wantIDs: []string{"n2", "n3", "n1"},
		},
		{
			name:    "filter by owner",
			filter:  storage.ListFilter{UserID: "user-1"},
			wantIDs: []string{"n2", "n1"},
		},
		{
			name:    "filter by status",
			filter:  storage.ListFilter{Status: models.SyncStatusPending},
			wantIDs: []string{"n2", "n3"},
		},
		{
			name:    "owner and status",
			filter:  storage.ListFilter{UserID: "user-1", Status: models.SyncStatusSynced},
			wantIDs: []string{"n1"},
		},
		{
			name:    "pagination",
			page:    storage.Page{Limit: 1, Offset: 1},
			wantIDs: []string{"n3"},
		},
		{
			name:    "offset past the end",
			page:    storage.Page{Offset: 10},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := store.ListNotes(ctx, tt.filter, tt.page)
			require.NoError(t, err)

			var ids []string
			for _, n := range notes {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStorage_SaveNotes_Batch(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	notes := []*models.Note{
		createTestNote("n1", "user-1", time.Now(), models.SyncStatusSynced),
		createTestNote("n2", "user-1", time.Now(), models.SyncStatusSynced),
	}
	require.NoError(t, store.SaveNotes(ctx, notes))

	got, err := store.ListNotes(ctx, storage.ListFilter{}, storage.Page{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, store.DeleteNotes(ctx, []string{"n1", "n2", "missing"}))

	got, err = store.ListNotes(ctx, storage.ListFilter{}, storage.Page{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
