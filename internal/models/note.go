package models

import "time"

// SyncStatus describes where a local note stands relative to the server copy.
type SyncStatus string

const (
	SyncStatusSynced   SyncStatus = "synced"   // confirmed identical to the server copy
	SyncStatusPending  SyncStatus = "pending"  // local changes queued, not yet uploaded
	SyncStatusSyncing  SyncStatus = "syncing"  // an upload for this note is in flight
	SyncStatusFailed   SyncStatus = "failed"   // upload exhausted retries or hit a permanent error
	SyncStatusConflict SyncStatus = "conflict" // blocked on a conflict awaiting resolution
)

// Valid reports whether the status is one of the known values.
// Statuses come from persisted records, so unknown values must be rejected
// rather than carried along.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusSynced, SyncStatusPending, SyncStatusSyncing,
		SyncStatusFailed, SyncStatusConflict:
		return true
	}
	return false
}

// Note is the client's cached copy of a note.
type Note struct {
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`       // client-perceived last modification
	LastAccessedAt time.Time  `json:"last_accessed_at"` // cache eviction only, never sync
	LastSyncedAt   time.Time  `json:"last_synced_at"`   // last confirmed round-trip with the server
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"` // serialized document
	Summary        string     `json:"summary"`
	CategoryID     string     `json:"category_id,omitempty"`
	Tags           []string   `json:"tags"`
	SyncStatus     SyncStatus `json:"sync_status"`
	Version        int64      `json:"version"` // server-assigned version stamp, 0 for never-synced
}

// Touch stamps a new UpdatedAt, keeping it monotonically non-decreasing
// even when the wall clock steps backwards.
func (n *Note) Touch(now time.Time) {
	if now.After(n.UpdatedAt) {
		n.UpdatedAt = now
		return
	}
	n.UpdatedAt = n.UpdatedAt.Add(time.Millisecond)
}

// Clone creates a deep copy of the note.
func (n *Note) Clone() *Note {
	tags := make([]string, len(n.Tags))
	copy(tags, n.Tags)

	c := *n
	c.Tags = tags
	return &c
}
