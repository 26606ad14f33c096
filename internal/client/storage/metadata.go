package storage

import (
	"context"
	"time"
)

// Session holds the identity the client syncs as. Obtaining the token is
// out of scope here; the sync engine only attaches it to requests.
type Session struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds, 0 means unknown
}

// Usage reports how much of the shared storage quota is consumed.
type Usage struct {
	FileSizeBytes int64
	Notes         int
	QueueEntries  int
	Drafts        int
}

// MetadataStorage defines the interface for small client metadata entries.
type MetadataStorage interface {
	// SaveLastSyncAt saves the time of the last successful sync cycle
	SaveLastSyncAt(ctx context.Context, t time.Time) error

	// GetLastSyncAt retrieves the time of the last successful sync cycle
	// Returns the zero time if no sync has completed yet
	GetLastSyncAt(ctx context.Context) (time.Time, error)

	// SaveSession stores the sync identity
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored sync identity
	// Returns ErrSessionNotFound if none is stored
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored sync identity
	DeleteSession(ctx context.Context) error
}

// UsageReporter exposes consumed storage space. Implemented by the bolt
// storage; surfaced so the UI can warn before the quota is hit.
type UsageReporter interface {
	Usage(ctx context.Context) (*Usage, error)
}
