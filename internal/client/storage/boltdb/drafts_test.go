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

func TestStorage_SaveGetDraft(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	draft := &models.Draft{
		NoteID:  "n1",
		Title:   "draft title",
		Content: "draft body",
		Tags:    []string{"t1"},
		SavedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, store.SaveDraft(ctx, draft))

	got, err := store.GetDraft(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, draft.Title, got.Title)
	assert.Equal(t, draft.Content, got.Content)
	assert.Equal(t, draft.SavedAt, got.SavedAt)
}

func TestStorage_SaveDraft_Overwrites(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDraft(ctx, &models.Draft{NoteID: "n1", Title: "first", SavedAt: 1}))
	require.NoError(t, store.SaveDraft(ctx, &models.Draft{NoteID: "n1", Title: "second", SavedAt: 2}))

	got, err := store.GetDraft(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)

	drafts, err := store.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 1, "one draft per note")
}

func TestStorage_DeleteDraft_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDraft(ctx, &models.Draft{NoteID: "n1", SavedAt: 1}))
	require.NoError(t, store.DeleteDraft(ctx, "n1"))
	require.NoError(t, store.DeleteDraft(ctx, "n1"))

	_, err := store.GetDraft(ctx, "n1")
	assert.True(t, errors.Is(err, storage.ErrDraftNotFound))
}
