package models

import "time"

// OperationType is the kind of mutation a queue entry carries.
type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
)

// Valid reports whether the operation type is one of the known values.
func (o OperationType) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// EntryStatus describes the lifecycle state of a queue entry.
type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"  // waiting for the next drain
	EntryStatusSyncing  EntryStatus = "syncing"  // upload in flight
	EntryStatusFailed   EntryStatus = "failed"   // terminal, needs explicit retry
	EntryStatusConflict EntryStatus = "conflict" // lane suspended pending user decision
)

// Valid reports whether the entry status is one of the known values.
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryStatusPending, EntryStatusSyncing, EntryStatusFailed, EntryStatusConflict:
		return true
	}
	return false
}

// QueueEntry is one pending mutation awaiting propagation to the server.
type QueueEntry struct {
	EnqueuedAt    time.Time     `json:"enqueued_at"`
	NextRetryAt   time.Time     `json:"next_retry_at"` // zero means no backoff delay
	Payload       *Note         `json:"payload"`       // note state at enqueue time, nil for delete
	ID            string        `json:"id"`            // entry identity, distinct from the note id
	NoteID        string        `json:"note_id"`
	LastError     string        `json:"last_error,omitempty"`
	Operation     OperationType `json:"operation"`
	Status        EntryStatus   `json:"status"`
	AttemptCount  int           `json:"attempt_count"`
	BaseVersion   int64         `json:"base_version"` // server version stamp the mutation was made against
}

// Clone creates a deep copy of the queue entry.
func (e *QueueEntry) Clone() *QueueEntry {
	c := *e
	if e.Payload != nil {
		c.Payload = e.Payload.Clone()
	}
	return &c
}

// Ready reports whether the entry may be picked up at the given time:
// it must be pending and past its backoff delay.
func (e *QueueEntry) Ready(now time.Time) bool {
	if e.Status != EntryStatusPending {
		return false
	}
	return e.NextRetryAt.IsZero() || !now.Before(e.NextRetryAt)
}
