package storage

import "errors"

// Common storage errors
var (
	// ErrNoteNotFound indicates that the note does not exist for this user
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoteAlreadyExists indicates that a note with this id already exists
	ErrNoteAlreadyExists = errors.New("note already exists")

	// ErrVersionConflict indicates that the expected version stamp no longer
	// matches the stored one
	ErrVersionConflict = errors.New("version conflict")
)
