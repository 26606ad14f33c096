// Package queue keeps the ordered, durable record of pending note
// mutations. Entries form one FIFO lane per note and a global enqueue-time
// order across notes for fairness; all mutation goes through the coalescing
// rules so the queue stays the single source of truth.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
)

// DefaultMaxRetries is how many transient failures an entry survives before
// it turns terminally failed.
const DefaultMaxRetries = 3

// Manager is the sync queue manager.
type Manager struct {
	store      storage.QueueStorage
	logger     *slog.Logger
	now        func() time.Time
	maxRetries int
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxRetries overrides the retry ceiling.
func WithMaxRetries(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRetries = n
		}
	}
}

// WithNow overrides the clock. Used in tests.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new queue manager
func NewManager(store storage.QueueStorage, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		logger:     logger,
		now:        time.Now,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enqueue records a mutation for later upload, applying the coalescing
// rules:
//   - a new update folds into an existing pending create or update for the
//     same note (payload replaced, original EnqueuedAt preserved so the
//     lane keeps its place in the global order)
//   - a new delete cancels every pending entry for the note and leaves a
//     single delete entry
//   - a delete that cancels a never-synced create leaves no entry at all
//
// Returns the entry now representing the mutation, or nil when the
// operations annihilated each other.
func (m *Manager) Enqueue(ctx context.Context, noteID string, op models.OperationType, payload *models.Note) (*models.QueueEntry, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unknown operation type: %s", op)
	}
	if op != models.OperationDelete && payload == nil {
		return nil, fmt.Errorf("operation %s requires a payload", op)
	}

	existing, err := m.store.ListEntriesByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue lane: %w", err)
	}

	switch op {
	case models.OperationUpdate:
		if merged, err := m.coalesceUpdate(ctx, existing, payload); err != nil || merged != nil {
			return merged, err
		}
	case models.OperationDelete:
		return m.coalesceDelete(ctx, noteID, existing, payload)
	}

	entry := &models.QueueEntry{
		ID:         uuid.NewString(),
		NoteID:     noteID,
		Operation:  op,
		Status:     models.EntryStatusPending,
		EnqueuedAt: m.now(),
	}
	if payload != nil {
		entry.Payload = payload.Clone()
		entry.BaseVersion = payload.Version
	}

	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to enqueue entry: %w", err)
	}

	m.logger.Debug("enqueued mutation", "entry_id", entry.ID, "note_id", noteID, "operation", op)
	return entry, nil
}

// coalesceUpdate folds an update into an existing pending create or update
// for the same note. Returns nil when no coalescing target exists.
func (m *Manager) coalesceUpdate(ctx context.Context, existing []*models.QueueEntry, payload *models.Note) (*models.QueueEntry, error) {
	for _, e := range existing {
		if e.Status != models.EntryStatusPending {
			continue
		}
		if e.Operation != models.OperationCreate && e.Operation != models.OperationUpdate {
			continue
		}

		// replace the payload in place; EnqueuedAt stays so the lane keeps
		// its fairness position
		e.Payload = payload.Clone()
		if err := m.store.SaveEntry(ctx, e); err != nil {
			return nil, fmt.Errorf("failed to coalesce update: %w", err)
		}

		m.logger.Debug("coalesced update into pending entry",
			"entry_id", e.ID, "note_id", e.NoteID, "operation", e.Operation)
		return e, nil
	}
	return nil, nil
}

// coalesceDelete cancels all pending entries for the note. When one of them
// is a create the note never existed remotely, so the delete annihilates
// the whole lane and no entry is enqueued.
func (m *Manager) coalesceDelete(ctx context.Context, noteID string, existing []*models.QueueEntry, payload *models.Note) (*models.QueueEntry, error) {
	neverSynced := false
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		// only pending entries are superseded; an in-flight upload keeps
		// running and settles on its own
		if e.Status == models.EntryStatusSyncing {
			continue
		}
		ids = append(ids, e.ID)
		if e.Operation == models.OperationCreate {
			neverSynced = true
		}
	}

	if err := m.store.DeleteEntries(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to cancel superseded entries: %w", err)
	}

	if neverSynced {
		m.logger.Debug("create/delete pair annihilated", "note_id", noteID)
		return nil, nil
	}

	entry := &models.QueueEntry{
		ID:         uuid.NewString(),
		NoteID:     noteID,
		Operation:  models.OperationDelete,
		Status:     models.EntryStatusPending,
		EnqueuedAt: m.now(),
	}
	if payload != nil {
		entry.BaseVersion = payload.Version
	}

	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to enqueue delete: %w", err)
	}

	m.logger.Debug("enqueued delete", "entry_id", entry.ID, "note_id", noteID, "cancelled", len(ids))
	return entry, nil
}

// DequeueNext returns the oldest ready entry across all notes, or nil when
// none is ready. Per-note FIFO is preserved: an entry is never returned
// while an earlier entry for the same note is still in the queue.
func (m *Manager) DequeueNext(ctx context.Context) (*models.QueueEntry, error) {
	return m.DequeueNextSkipping(ctx, nil)
}

// DequeueNextSkipping behaves like DequeueNext but ignores the given note
// lanes. The engine uses it to keep lanes with an in-flight upload out of
// the selection.
func (m *Manager) DequeueNextSkipping(ctx context.Context, skipNotes map[string]bool) (*models.QueueEntry, error) {
	entries, err := m.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}

	now := m.now()
	seen := make(map[string]bool)

	for _, e := range entries {
		if seen[e.NoteID] {
			// an earlier entry for this note was not returnable; the lane
			// stays blocked to preserve FIFO
			continue
		}
		seen[e.NoteID] = true

		if skipNotes[e.NoteID] {
			continue
		}
		if !e.Ready(now) {
			continue
		}
		return e.Clone(), nil
	}

	return nil, nil
}

// MarkSyncing flags an entry as having an upload in flight.
func (m *Manager) MarkSyncing(ctx context.Context, entryID string) error {
	entry, err := m.store.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}

	entry.Status = models.EntryStatusSyncing
	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to mark entry syncing: %w", err)
	}
	return nil
}

// MarkSynced removes a confirmed entry from the queue. This is the only
// path on which a queued local edit disappears without user action.
func (m *Manager) MarkSynced(ctx context.Context, entryID string) error {
	if err := m.store.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to remove synced entry: %w", err)
	}
	return nil
}

// MarkFailed records a failure. Transient failures send the entry back to
// pending with a backoff delay until the retry ceiling is hit; at the
// ceiling (or when terminal is true) the entry parks in the terminal failed
// state awaiting an explicit retry.
func (m *Manager) MarkFailed(ctx context.Context, entryID string, cause error, terminal bool) (*models.QueueEntry, error) {
	entry, err := m.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	entry.AttemptCount++
	if cause != nil {
		entry.LastError = cause.Error()
	}

	if terminal || entry.AttemptCount >= m.maxRetries {
		entry.Status = models.EntryStatusFailed
		entry.NextRetryAt = time.Time{}
		m.logger.Warn("queue entry failed terminally",
			"entry_id", entry.ID, "note_id", entry.NoteID,
			"attempts", entry.AttemptCount, "error", entry.LastError)
	} else {
		entry.Status = models.EntryStatusPending
		entry.NextRetryAt = m.now().Add(NextDelay(entry.AttemptCount))
		m.logger.Debug("queue entry scheduled for retry",
			"entry_id", entry.ID, "note_id", entry.NoteID,
			"attempts", entry.AttemptCount, "next_retry_at", entry.NextRetryAt)
	}

	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to mark entry failed: %w", err)
	}
	return entry, nil
}

// MarkConflict parks an entry in the conflict state, suspending its note's
// lane until the user resolves it.
func (m *Manager) MarkConflict(ctx context.Context, entryID string) error {
	entry, err := m.store.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}

	entry.Status = models.EntryStatusConflict
	entry.NextRetryAt = time.Time{}
	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to mark entry conflicted: %w", err)
	}
	return nil
}

// Rearm re-activates an entry with a fresh payload and base version. Used
// after a use-local resolution: the local payload goes back out as an
// update against the server version that won the race.
func (m *Manager) Rearm(ctx context.Context, entryID string, payload *models.Note, baseVersion int64) error {
	entry, err := m.store.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}

	entry.Operation = models.OperationUpdate
	entry.Payload = payload.Clone()
	entry.BaseVersion = baseVersion
	entry.Status = models.EntryStatusPending
	entry.AttemptCount = 0
	entry.LastError = ""
	entry.NextRetryAt = time.Time{}

	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to rearm entry: %w", err)
	}
	return nil
}

// RetryEntry resets a terminally failed or conflicted entry back to
// pending. Explicit user action, never invoked automatically.
func (m *Manager) RetryEntry(ctx context.Context, entryID string) error {
	entry, err := m.store.GetEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}

	if entry.Status != models.EntryStatusFailed && entry.Status != models.EntryStatusConflict {
		return fmt.Errorf("entry %s is %s, only failed or conflicted entries can be retried", entryID, entry.Status)
	}

	entry.Status = models.EntryStatusPending
	entry.AttemptCount = 0
	entry.LastError = ""
	entry.NextRetryAt = time.Time{}

	if err := m.store.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to retry entry: %w", err)
	}
	return nil
}

// RetryAll resets every terminally failed entry back to pending.
// Returns how many entries were reset.
func (m *Manager) RetryAll(ctx context.Context) (int, error) {
	entries, err := m.store.ListEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list queue: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.Status != models.EntryStatusFailed {
			continue
		}
		if err := m.RetryEntry(ctx, e.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// DiscardNote drops every queue entry for a note. Used when a use-remote
// resolution makes the local mutations moot.
func (m *Manager) DiscardNote(ctx context.Context, noteID string) error {
	entries, err := m.store.ListEntriesByNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("failed to list note lane: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if err := m.store.DeleteEntries(ctx, ids); err != nil {
		return fmt.Errorf("failed to discard note lane: %w", err)
	}
	return nil
}

// Entries returns the whole queue in FIFO order, for "N pending changes"
// style indicators.
func (m *Manager) Entries(ctx context.Context) ([]*models.QueueEntry, error) {
	return m.store.ListEntries(ctx)
}

// ResetInFlight reclassifies entries left in syncing back to pending. Run
// at engine startup: an entry found syncing was mid-flight when the
// previous run stopped and its outcome is unknown; re-sending is safe
// because uploads are idempotent by note id and payload.
func (m *Manager) ResetInFlight(ctx context.Context) (int, error) {
	entries, err := m.store.ListEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list queue: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.Status != models.EntryStatusSyncing {
			continue
		}
		e.Status = models.EntryStatusPending
		if err := m.store.SaveEntry(ctx, e); err != nil {
			return count, fmt.Errorf("failed to reset in-flight entry: %w", err)
		}
		count++
	}
	return count, nil
}

// Clear wipes the queue. Only called after an explicit, user-confirmed
// data wipe.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.ClearEntries(ctx)
}
