package storage

import (
	"context"

	"github.com/mkraev/notesync/internal/models"
)

// DraftStorage defines the interface for the ephemeral draft store.
// Drafts are keyed by note ID, one draft per note.
type DraftStorage interface {
	// SaveDraft stores or replaces the draft for a note
	SaveDraft(ctx context.Context, draft *models.Draft) error

	// GetDraft retrieves the draft for a note
	// Returns ErrDraftNotFound if no draft exists
	GetDraft(ctx context.Context, noteID string) (*models.Draft, error)

	// DeleteDraft removes the draft for a note. Deleting a missing draft is
	// not an error.
	DeleteDraft(ctx context.Context, noteID string) error

	// ListDrafts returns all stored drafts
	// Used by the expiry sweep
	ListDrafts(ctx context.Context) ([]*models.Draft, error)
}
