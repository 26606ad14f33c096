package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraev/notesync/internal/server/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func testServerNote(id, userID string) *storage.Note {
	return &storage.Note{
		ID:         id,
		UserID:     userID,
		Title:      "Title " + id,
		Content:    "Content " + id,
		Summary:    "Summary",
		CategoryID: "cat-1",
		Tags:       []string{"work", "urgent"},
	}
}

func TestStorage_CreateAndGetNote(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.Version)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.GetNote(ctx, "user-1", "note-1")
	require.NoError(t, err)
	assert.Equal(t, "Title note-1", got.Title)
	assert.Equal(t, "Content note-1", got.Content)
	assert.Equal(t, []string{"work", "urgent"}, got.Tags)
}

func TestStorage_CreateNote_Duplicate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	require.NoError(t, err)

	_, err = s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	assert.ErrorIs(t, err, storage.ErrNoteAlreadyExists)

	// The id namespace is global: another user cannot claim it either
	_, err = s.CreateNote(ctx, testServerNote("note-1", "user-2"))
	assert.ErrorIs(t, err, storage.ErrNoteAlreadyExists)
}

func TestStorage_GetNote_WrongUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	require.NoError(t, err)

	_, err = s.GetNote(ctx, "user-2", "note-1")
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestStorage_UpdateNote(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	require.NoError(t, err)

	upd := created.Clone()
	upd.Title = "Edited"
	upd.Tags = []string{"home"}

	updated, err := s.UpdateNote(ctx, upd, created.Version)
	require.NoError(t, err)

	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Edited", updated.Title)
	assert.Equal(t, []string{"home"}, updated.Tags)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestStorage_UpdateNote_VersionConflict(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	require.NoError(t, err)

	_, err = s.UpdateNote(ctx, created, created.Version)
	require.NoError(t, err)

	// Second writer still holds the old stamp
	stale := created.Clone()
	stale.Title = "Stale edit"
	_, err = s.UpdateNote(ctx, stale, created.Version)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	got, err := s.GetNote(ctx, "user-1", "note-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.NotEqual(t, "Stale edit", got.Title)
}

func TestStorage_UpdateNote_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.UpdateNote(context.Background(), testServerNote("ghost", "user-1"), 1)
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestStorage_DeleteNote(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteNote(ctx, "user-1", "note-1"))

	_, err = s.GetNote(ctx, "user-1", "note-1")
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)

	err = s.DeleteNote(ctx, "user-1", "note-1")
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestStorage_ListNotesSince(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first, err := s.CreateNote(ctx, testServerNote("note-1", "user-1"))
	require.NoError(t, err)

	// Separate the update stamps by at least a millisecond
	time.Sleep(5 * time.Millisecond)

	_, err = s.CreateNote(ctx, testServerNote("note-2", "user-1"))
	require.NoError(t, err)

	_, err = s.CreateNote(ctx, testServerNote("other", "user-2"))
	require.NoError(t, err)

	all, err := s.ListNotesSince(ctx, "user-1", time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "note-1", all[0].ID)
	assert.Equal(t, "note-2", all[1].ID)

	recent, err := s.ListNotesSince(ctx, "user-1", first.UpdatedAt)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "note-2", recent[0].ID)
}
