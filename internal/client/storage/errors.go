package storage

import "errors"

// Common client storage errors
var (
	// ErrNoteNotFound indicates that the note is not in the local store
	ErrNoteNotFound = errors.New("note not found")

	// ErrEntryNotFound indicates that the queue entry was not found
	ErrEntryNotFound = errors.New("queue entry not found")

	// ErrDraftNotFound indicates that no draft exists for the note
	ErrDraftNotFound = errors.New("draft not found")

	// ErrSessionNotFound indicates that no session is stored
	ErrSessionNotFound = errors.New("session not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrStorageUnavailable indicates that local persistence is not
	// accessible (engine failure, quota exceeded). Fatal to offline mode,
	// not to the application: callers degrade instead of crashing.
	ErrStorageUnavailable = errors.New("local storage unavailable")
)
