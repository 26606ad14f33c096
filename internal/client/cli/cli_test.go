package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/mkraev/notesync/internal/client/api"
	"github.com/mkraev/notesync/internal/client/draft"
	"github.com/mkraev/notesync/internal/client/notes"
	"github.com/mkraev/notesync/internal/client/queue"
	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/client/storage/boltdb"
	"github.com/mkraev/notesync/internal/client/sync"
	"github.com/mkraev/notesync/internal/models"
	"github.com/mkraev/notesync/pkg/api"
)

func newTestCli(t *testing.T) (*Cli, *bytes.Buffer) {
	return newTestCliWith(t, &clientapi.NoteAPIMock{})
}

func newTestCliWith(t *testing.T, client *clientapi.NoteAPIMock, opts ...Option) (*Cli, *bytes.Buffer) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	q := queue.NewManager(store, logger)
	drafts := draft.NewManager(store, logger)
	noteService := notes.NewService(store, q, drafts, store)

	engine := sync.NewEngine(q, store, store, client, logger, sync.WithAutoSync(false))

	c := New(noteService, drafts, q, engine, store, store, opts...)
	out := &bytes.Buffer{}
	c.out = out
	c.in = strings.NewReader("")
	return c, out
}

func TestCli_AddAndList(t *testing.T) {
	c, out := newTestCli(t)
	ctx := context.Background()

	err := c.Run(ctx, "add", []string{"-title", "groceries", "-content", "milk, eggs", "-tags", "home, shopping"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Created note")

	out.Reset()
	require.NoError(t, c.Run(ctx, "list", nil))
	assert.Contains(t, out.String(), "groceries")
	assert.Contains(t, out.String(), "[pending]")
}

func TestCli_Add_SyncOnWrite(t *testing.T) {
	client := &clientapi.NoteAPIMock{
		CreateNoteFunc: func(ctx context.Context, accessToken string, req api.CreateNoteRequest) (*api.Note, error) {
			return &api.Note{
				ID:      req.ID,
				UserID:  "local",
				Title:   req.Title,
				Content: req.Content,
				Tags:    req.Tags,
				Version: 1,
			}, nil
		},
		ListNotesFunc: func(ctx context.Context, accessToken string, since time.Time) ([]api.Note, error) {
			return nil, nil
		},
	}
	c, out := newTestCliWith(t, client, WithSyncOnWrite(true))
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "add", []string{"-title", "pushed", "-content", "x"}))
	assert.Contains(t, out.String(), "Created note")

	// the mutation is pushed immediately, not parked in the queue
	require.Len(t, client.CreateNoteCalls(), 1)
	entries, err := c.queue.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	list, err := c.notes.ListNotes(ctx, storage.ListFilter{UserID: "local"}, storage.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.SyncStatusSynced, list[0].SyncStatus)
}

func TestCli_List_StatusFilter(t *testing.T) {
	c, out := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "add", []string{"-title", "queued note", "-content", "x"}))

	out.Reset()
	require.NoError(t, c.Run(ctx, "list", []string{"-status", "synced"}))
	assert.Contains(t, out.String(), "No notes found")

	err := c.Run(ctx, "list", []string{"-status", "bogus"})
	assert.Error(t, err)
}

func TestCli_ShowAndDelete(t *testing.T) {
	c, out := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "add", []string{"-title", "to show", "-content", "the body"}))

	list, err := c.notes.ListNotes(ctx, storage.ListFilter{UserID: "local"}, storage.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	out.Reset()
	require.NoError(t, c.Run(ctx, "show", []string{id}))
	assert.Contains(t, out.String(), "to show")
	assert.Contains(t, out.String(), "the body")

	out.Reset()
	require.NoError(t, c.Run(ctx, "delete", []string{id}))
	assert.Contains(t, out.String(), "Deleted note")

	err = c.Run(ctx, "show", []string{id})
	assert.Error(t, err)
}

func TestCli_QueueList(t *testing.T) {
	c, out := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "queue", nil))
	assert.Contains(t, out.String(), "Queue is empty")

	require.NoError(t, c.Run(ctx, "add", []string{"-title", "queued", "-content", "x"}))

	out.Reset()
	require.NoError(t, c.Run(ctx, "queue", []string{"list"}))
	assert.Contains(t, out.String(), "create")
	assert.Contains(t, out.String(), "[pending]")
}

func TestCli_Status(t *testing.T) {
	c, out := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "add", []string{"-title", "n", "-content", "x"}))

	out.Reset()
	require.NoError(t, c.Run(ctx, "status", nil))
	assert.Contains(t, out.String(), "Queue:     1 pending change(s)")
	assert.Contains(t, out.String(), "Last sync: never")
	assert.Contains(t, out.String(), "Storage:")
}

func TestCli_Conflicts_Empty(t *testing.T) {
	c, out := newTestCli(t)

	require.NoError(t, c.Run(context.Background(), "conflicts", nil))
	assert.Contains(t, out.String(), "No pending conflicts")
}

func TestCli_Session(t *testing.T) {
	c, out := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "session", nil))
	assert.Contains(t, out.String(), "No session configured")

	out.Reset()
	require.NoError(t, c.Run(ctx, "session", []string{"-user", "user-1", "-token", "tok"}))
	assert.Contains(t, out.String(), "Session saved for user-1")

	out.Reset()
	require.NoError(t, c.Run(ctx, "session", nil))
	assert.Contains(t, out.String(), "Syncing as user-1")

	out.Reset()
	require.NoError(t, c.Run(ctx, "session", []string{"-clear"}))
	assert.Contains(t, out.String(), "Session cleared")
}

func TestCli_Drafts(t *testing.T) {
	c, out := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "drafts", nil))
	assert.Contains(t, out.String(), "No drafts")

	require.NoError(t, c.drafts.SaveDraft(ctx, &models.Draft{NoteID: "n1", Title: "wip"}))

	out.Reset()
	require.NoError(t, c.Run(ctx, "drafts", []string{"list"}))
	assert.Contains(t, out.String(), "wip")

	out.Reset()
	require.NoError(t, c.Run(ctx, "drafts", []string{"discard", "n1"}))
	assert.Contains(t, out.String(), "discarded")

	out.Reset()
	require.NoError(t, c.Run(ctx, "drafts", []string{"cleanup"}))
	assert.Contains(t, out.String(), "Removed 0 expired draft(s)")
}

func TestCli_UnknownCommand(t *testing.T) {
	c, _ := newTestCli(t)

	err := c.Run(context.Background(), "frobnicate", nil)
	assert.Error(t, err)
}
