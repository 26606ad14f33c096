// Package draft buffers in-progress edits independently of the synced note
// record. Drafts are best-effort: they are never queued, never retried and
// never conflict-resolved, and a persistence failure only costs the
// restore-on-reopen convenience.
package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
)

// DefaultMaxAgeDays is how long an untouched draft survives before the
// expiry sweep removes it.
const DefaultMaxAgeDays = 7

// Manager handles draft persistence.
type Manager struct {
	store  storage.DraftStorage
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a new draft manager
func NewManager(store storage.DraftStorage, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SaveDraft stores the draft for a note, overwriting any previous one and
// stamping the save time.
func (m *Manager) SaveDraft(ctx context.Context, draft *models.Draft) error {
	if draft.NoteID == "" {
		return fmt.Errorf("draft requires a note id")
	}

	d := draft.Clone()
	d.SavedAt = m.now().UnixMilli()

	if err := m.store.SaveDraft(ctx, d); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// GetDraft retrieves the draft for a note, or nil when none exists.
// Read once when an editor opens, to offer "restore draft".
func (m *Manager) GetDraft(ctx context.Context, noteID string) (*models.Draft, error) {
	draft, err := m.store.GetDraft(ctx, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// HasDraft reports whether a draft exists for the note. Storage errors
// count as "no draft": the editor must keep working either way.
func (m *Manager) HasDraft(ctx context.Context, noteID string) bool {
	draft, err := m.GetDraft(ctx, noteID)
	if err != nil {
		m.logger.Warn("failed to check for draft", "note_id", noteID, "error", err)
		return false
	}
	return draft != nil
}

// DeleteDraft removes the draft for a note. Idempotent.
func (m *Manager) DeleteDraft(ctx context.Context, noteID string) error {
	if err := m.store.DeleteDraft(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// ListDrafts returns every stored draft.
func (m *Manager) ListDrafts(ctx context.Context) ([]*models.Draft, error) {
	drafts, err := m.store.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// CleanupExpired removes drafts whose save time is older than maxAgeDays.
// Returns how many were removed. Run opportunistically (app start); it
// never sits on the edit path.
func (m *Manager) CleanupExpired(ctx context.Context, maxAgeDays int) (int, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxAgeDays
	}

	drafts, err := m.store.ListDrafts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list drafts: %w", err)
	}

	now := m.now()
	maxAge := time.Duration(maxAgeDays) * 24 * time.Hour

	removed := 0
	for _, d := range drafts {
		if !d.ExpiredAt(now, maxAge) {
			continue
		}
		if err := m.store.DeleteDraft(ctx, d.NoteID); err != nil {
			return removed, fmt.Errorf("failed to remove expired draft: %w", err)
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info("removed expired drafts", "count", removed, "max_age_days", maxAgeDays)
	}
	return removed, nil
}
