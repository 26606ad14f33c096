package storage

import (
	"context"

	"github.com/mkraev/notesync/internal/models"
)

// QueueStorage defines the interface for the persisted sync queue.
// Ordering guarantees live in the queue manager; this layer only keeps
// durable entries keyed by ID.
type QueueStorage interface {
	// SaveEntry stores or replaces a queue entry
	SaveEntry(ctx context.Context, entry *models.QueueEntry) error

	// GetEntry retrieves a queue entry by ID
	// Returns ErrEntryNotFound if the entry doesn't exist
	GetEntry(ctx context.Context, id string) (*models.QueueEntry, error)

	// DeleteEntry removes a queue entry. Deleting a missing ID is not an
	// error.
	DeleteEntry(ctx context.Context, id string) error

	// DeleteEntries removes a batch of entries in a single transaction,
	// all-or-nothing
	DeleteEntries(ctx context.Context, ids []string) error

	// ListEntries returns all entries ordered by EnqueuedAt ascending
	// (FIFO traversal order)
	ListEntries(ctx context.Context) ([]*models.QueueEntry, error)

	// ListEntriesByNote returns all entries for one note, ordered by
	// EnqueuedAt ascending
	ListEntriesByNote(ctx context.Context, noteID string) ([]*models.QueueEntry, error)

	// ClearEntries removes every entry. Used only for an explicit,
	// user-confirmed wipe.
	ClearEntries(ctx context.Context) error
}
