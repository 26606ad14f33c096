// Package api defines the wire types shared by the note sync client and
// the reference server.
package api

import "time"

// Note is the canonical server representation of a note.
type Note struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	Tags       []string  `json:"tags"`
	Version    int64     `json:"version"` // server-assigned, increases on every write
}

// CreateNoteRequest creates a note. The ID is the client's optimistic ID;
// the server keeps it so offline-created notes keep their identity.
type CreateNoteRequest struct {
	ID         string   `json:"id"                    validate:"required,max=64"`
	Title      string   `json:"title"                 validate:"max=512"`
	Content    string   `json:"content"               validate:"max=1048576"`
	Summary    string   `json:"summary,omitempty"     validate:"max=2048"`
	CategoryID string   `json:"category_id,omitempty" validate:"max=64"`
	Tags       []string `json:"tags"                  validate:"max=64,dive,max=128"`
}

// UpdateNoteRequest replaces a note's content. ExpectedVersion is the
// version stamp the client last observed; the server rejects the update
// with a version conflict when its current stamp differs.
type UpdateNoteRequest struct {
	Title           string   `json:"title"                 validate:"max=512"`
	Content         string   `json:"content"               validate:"max=1048576"`
	Summary         string   `json:"summary,omitempty"     validate:"max=2048"`
	CategoryID      string   `json:"category_id,omitempty" validate:"max=64"`
	Tags            []string `json:"tags"                  validate:"max=64,dive,max=128"`
	ExpectedVersion int64    `json:"expected_version"      validate:"min=0"`
}

// ListNotesResponse is the response to a note listing.
type ListNotesResponse struct {
	Notes []Note `json:"notes"`
}

// ConflictResponse is the 409 body on a version mismatch. CurrentNote is
// the server's record at the moment of rejection, so the client can resolve
// without an extra round trip.
type ConflictResponse struct {
	Error       string `json:"error"`
	CurrentNote Note   `json:"current_note"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
