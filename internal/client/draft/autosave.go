package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mkraev/notesync/internal/models"
)

// Autosaver persists the latest edit buffer on a debounced timer: each
// Schedule call replaces the pending draft and restarts the countdown, so
// a continuously typing user produces one write per quiet interval instead
// of one per keystroke. Failures are logged and swallowed; the user keeps
// typing regardless.
type Autosaver struct {
	manager  *Manager
	logger   *slog.Logger
	timer    *time.Timer
	pending  *models.Draft
	interval time.Duration
	mu       sync.Mutex
	stopped  bool
}

// NewAutosaver creates an autosaver flushing through the given manager.
func NewAutosaver(manager *Manager, interval time.Duration, logger *slog.Logger) *Autosaver {
	return &Autosaver{
		manager:  manager,
		interval: interval,
		logger:   logger,
	}
}

// Schedule buffers the draft and (re)starts the debounce timer.
func (a *Autosaver) Schedule(draft *models.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	a.pending = draft.Clone()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.interval, a.fire)
}

// Flush writes any buffered draft immediately and cancels the timer.
func (a *Autosaver) Flush(ctx context.Context) {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	a.save(ctx, pending)
}

// Stop flushes the buffer and disables further scheduling.
func (a *Autosaver) Stop(ctx context.Context) {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()

	a.Flush(ctx)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.timer = nil
	a.mu.Unlock()

	a.save(context.Background(), pending)
}

func (a *Autosaver) save(ctx context.Context, draft *models.Draft) {
	if draft == nil {
		return
	}
	if err := a.manager.SaveDraft(ctx, draft); err != nil {
		// best-effort only: losing the draft must not interrupt editing
		a.logger.Warn("draft autosave failed", "note_id", draft.NoteID, "error", err)
	}
}
