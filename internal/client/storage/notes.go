package storage

import (
	"context"

	"github.com/mkraev/notesync/internal/models"
)

// ListFilter narrows a note listing. Zero values mean "any".
type ListFilter struct {
	UserID string
	Status models.SyncStatus
}

// Page bounds a note listing. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// NoteStorage defines the interface for the local note store.
// Writes are full-record upserts: the caller supplies the complete note,
// nothing is partially merged.
type NoteStorage interface {
	// SaveNote stores or replaces a note
	SaveNote(ctx context.Context, note *models.Note) error

	// GetNote retrieves a note by ID
	// Returns ErrNoteNotFound if the note doesn't exist
	GetNote(ctx context.Context, id string) (*models.Note, error)

	// DeleteNote removes a note. Deleting a missing ID is not an error.
	DeleteNote(ctx context.Context, id string) error

	// ListNotes returns notes matching the filter, ordered by UpdatedAt
	// descending
	ListNotes(ctx context.Context, filter ListFilter, page Page) ([]*models.Note, error)

	// SaveNotes stores a batch of notes in a single transaction,
	// all-or-nothing
	SaveNotes(ctx context.Context, notes []*models.Note) error

	// DeleteNotes removes a batch of notes in a single transaction,
	// all-or-nothing
	DeleteNotes(ctx context.Context, ids []string) error
}
