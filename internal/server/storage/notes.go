// Package storage defines the server-side persistence interfaces.
package storage

import (
	"context"
	"time"
)

// Note is the server's record of a note. Version is assigned by storage:
// 1 on create, incremented on every successful update.
type Note struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ID         string
	UserID     string
	Title      string
	Content    string
	Summary    string
	CategoryID string
	Tags       []string
	Version    int64
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	if n.Tags != nil {
		c.Tags = make([]string, len(n.Tags))
		copy(c.Tags, n.Tags)
	}
	return &c
}

// NoteStorage defines operations over note records. All reads and writes
// are scoped to a single user; a note owned by someone else behaves as
// absent.
type NoteStorage interface {
	// CreateNote inserts a new note and returns the stored record with
	// version 1 and storage-assigned timestamps.
	// Returns ErrNoteAlreadyExists when the id is taken.
	CreateNote(ctx context.Context, note *Note) (*Note, error)

	// GetNote returns the user's note or ErrNoteNotFound.
	GetNote(ctx context.Context, userID, noteID string) (*Note, error)

	// UpdateNote replaces the note's content if the stored version still
	// equals expectedVersion, incrementing the version stamp. Returns
	// ErrVersionConflict when the stamp moved, ErrNoteNotFound when the
	// note is absent.
	UpdateNote(ctx context.Context, note *Note, expectedVersion int64) (*Note, error)

	// DeleteNote removes the user's note. Returns ErrNoteNotFound when it
	// is already absent.
	DeleteNote(ctx context.Context, userID, noteID string) error

	// ListNotesSince returns the user's notes updated strictly after the
	// given time, oldest first. A zero time returns everything.
	ListNotesSince(ctx context.Context, userID string, since time.Time) ([]*Note, error)
}
