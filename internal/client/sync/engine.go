// Package sync orchestrates queue draining against the remote note API.
// The engine is the only component that talks to the network and the only
// one aware of connectivity; everything else reads and writes local state.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	httpapi "github.com/mkraev/notesync/internal/client/api"
	"github.com/mkraev/notesync/internal/client/conflict"
	"github.com/mkraev/notesync/internal/client/queue"
	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
	"github.com/mkraev/notesync/pkg/api"
)

const (
	// DefaultDebounce is how long a fresh online transition must hold
	// before an automatic sync starts, so a flapping connection does not
	// thrash the queue.
	DefaultDebounce = 5 * time.Second

	// DefaultTickInterval is the background safety-net cadence while online
	// with a non-empty queue.
	DefaultTickInterval = 30 * time.Second

	// DefaultMaxConcurrent bounds simultaneous uploads across note lanes.
	DefaultMaxConcurrent = 3
)

var (
	// ErrOffline is returned when a sync is requested without connectivity.
	ErrOffline = errors.New("sync requires a network connection")

	// ErrSyncInProgress is returned when a drain is already running.
	ErrSyncInProgress = errors.New("a sync cycle is already running")

	// ErrNoConflict is returned when resolving a note with no pending
	// conflict.
	ErrNoConflict = errors.New("note has no pending conflict")
)

// SyncResult summarizes one drain cycle.
type SyncResult struct {
	Synced    int // entries confirmed by the server and removed
	Failed    int // entries that failed (scheduled for retry or terminal)
	Conflicts int // version conflicts encountered
	Pulled    int // remote notes merged into the local store
}

// Engine drives the per-cycle state machine: idle, draining, and per entry
// uploading until success, conflict or failure, then back to idle.
type Engine struct {
	queue  *queue.Manager
	notes  storage.NoteStorage
	meta   storage.MetadataStorage
	client httpapi.NoteAPI
	logger *slog.Logger
	now    func() time.Time

	obs  *observers
	kick chan struct{}

	debounce      time.Duration
	tick          time.Duration
	maxConcurrent int
	autoSync      bool

	mu            gosync.Mutex
	strategy      models.Strategy
	state         State
	online        bool
	lastError     string
	conflicts     map[string]*models.ConflictRecord
	debounceTimer *time.Timer
	cancel        context.CancelFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy sets the conflict resolution strategy applied when the
// server rejects an upload. Defaults to manual merge.
func WithStrategy(s models.Strategy) Option {
	return func(e *Engine) {
		if s.Valid() {
			e.strategy = s
		}
	}
}

// WithDebounce overrides the online-transition debounce.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.debounce = d
		}
	}
}

// WithTickInterval overrides the background tick cadence.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tick = d
		}
	}
}

// WithMaxConcurrent overrides the upload concurrency bound.
func WithMaxConcurrent(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrent = n
		}
	}
}

// WithAutoSync enables or disables automatic triggers. SyncNow always
// works regardless.
func WithAutoSync(enabled bool) Option {
	return func(e *Engine) { e.autoSync = enabled }
}

// WithNow overrides the clock. Used in tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a sync engine draining the given queue through the
// remote API.
func NewEngine(q *queue.Manager, notes storage.NoteStorage, meta storage.MetadataStorage, client httpapi.NoteAPI, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		queue:         q,
		notes:         notes,
		meta:          meta,
		client:        client,
		logger:        logger,
		now:           time.Now,
		obs:           newObservers(),
		kick:          make(chan struct{}, 1),
		debounce:      DefaultDebounce,
		tick:          DefaultTickInterval,
		maxConcurrent: DefaultMaxConcurrent,
		autoSync:      true,
		strategy:      models.StrategyManualMerge,
		state:         StateIdle,
		conflicts:     make(map[string]*models.ConflictRecord),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start recovers queue state left over from a previous run and launches
// the background trigger loop. Entries found syncing are reclassified to
// pending: their in-flight outcome is unknown and re-sending is safe.
func (e *Engine) Start(ctx context.Context) error {
	reset, err := e.queue.ResetInFlight(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover in-flight entries: %w", err)
	}
	if reset > 0 {
		e.logger.Info("recovered interrupted uploads", "count", reset)
	}

	e.recoverConflicts(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	go e.run(runCtx)
	return nil
}

// Stop halts the background loop. A drain in progress finishes its
// current entries; nothing new is dispatched.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
		e.debounceTimer = nil
	}
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SetOnline feeds the connectivity signal. An offline-to-online transition
// arms the debounced automatic sync; going offline disarms it.
func (e *Engine) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	was := e.online
	e.online = online

	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
		e.debounceTimer = nil
	}
	if online && !was && e.autoSync {
		e.debounceTimer = time.AfterFunc(e.debounce, e.trigger)
	}
	e.mu.Unlock()

	if was != online {
		e.logger.Info("connectivity changed", "online", online)
		e.publishStatus(ctx)
	}
}

// Online reports the last known connectivity state.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// SetStrategy changes the conflict strategy. Takes effect on the next
// conflict, not retroactively on suspended lanes.
func (e *Engine) SetStrategy(s models.Strategy) {
	if !s.Valid() {
		return
	}
	e.mu.Lock()
	e.strategy = s
	e.mu.Unlock()
}

// Subscribe registers a status callback and returns its unsubscribe
// handle.
func (e *Engine) Subscribe(fn func(Status)) func() {
	return e.obs.subscribe(fn)
}

// Status returns a point-in-time snapshot of the engine's state.
func (e *Engine) Status(ctx context.Context) Status {
	return e.snapshot(ctx)
}

// PendingConflicts lists the conflicts awaiting a user decision. Lanes
// left suspended by a previous run are recovered first, so conflicts stay
// visible across restarts.
func (e *Engine) PendingConflicts(ctx context.Context) []*models.ConflictRecord {
	e.recoverConflicts(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	records := make([]*models.ConflictRecord, 0, len(e.conflicts))
	for _, rec := range e.conflicts {
		records = append(records, rec)
	}
	return records
}

// SyncNow drains the queue immediately. Returns ErrOffline without
// connectivity and ErrSyncInProgress when a cycle is already running.
func (e *Engine) SyncNow(ctx context.Context) (*SyncResult, error) {
	return e.syncCycle(ctx)
}

// ResolveConflict applies the user's decision to a suspended lane. For
// manual-merge the caller supplies the merged note; for use-local and
// use-remote merged is ignored.
func (e *Engine) ResolveConflict(ctx context.Context, noteID string, strategy models.Strategy, merged *models.Note) error {
	e.recoverConflicts(ctx)

	e.mu.Lock()
	rec := e.conflicts[noteID]
	e.mu.Unlock()
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrNoConflict, noteID)
	}

	entry, err := e.conflictEntry(ctx, noteID)
	if err != nil {
		return err
	}

	switch strategy {
	case models.StrategyUseLocal:
		if err := e.rearmAgainst(ctx, entry, rec.Local, rec.Remote.Version); err != nil {
			return err
		}

	case models.StrategyUseRemote:
		if err := e.adoptRemote(ctx, rec.Remote); err != nil {
			return err
		}
		if err := e.queue.DiscardNote(ctx, noteID); err != nil {
			return fmt.Errorf("failed to discard note lane: %w", err)
		}

	case models.StrategyManualMerge:
		if merged == nil {
			return fmt.Errorf("manual merge for note %s requires the merged note", noteID)
		}
		if err := e.rearmAgainst(ctx, entry, merged, rec.Remote.Version); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown conflict resolution strategy: %s", strategy)
	}

	e.mu.Lock()
	delete(e.conflicts, noteID)
	e.mu.Unlock()

	e.logger.Info("conflict resolved", "note_id", noteID, "strategy", strategy)
	e.publishStatus(ctx)
	return nil
}

// trigger requests a drain from the background loop without blocking.
func (e *Engine) trigger() {
	select {
	case e.kick <- struct{}{}:
	default:
	}
}

func (e *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-e.kick:
			e.autoCycle(ctx)

		case <-ticker.C:
			if !e.Online() || !e.autoSync {
				continue
			}
			entries, err := e.queue.Entries(ctx)
			if err != nil || len(entries) == 0 {
				continue
			}
			e.autoCycle(ctx)
		}
	}
}

func (e *Engine) autoCycle(ctx context.Context) {
	if _, err := e.syncCycle(ctx); err != nil &&
		!errors.Is(err, ErrOffline) && !errors.Is(err, ErrSyncInProgress) {
		e.logger.Error("automatic sync failed", "error", err)
	}
}

func (e *Engine) syncCycle(ctx context.Context) (*SyncResult, error) {
	e.mu.Lock()
	if !e.online {
		e.mu.Unlock()
		return nil, ErrOffline
	}
	if e.state == StateDraining {
		e.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	e.state = StateDraining
	e.lastError = ""
	e.mu.Unlock()

	e.publishStatus(ctx)

	defer func() {
		e.mu.Lock()
		e.state = StateIdle
		e.mu.Unlock()
		e.publishStatus(ctx)
	}()

	token, err := e.accessToken(ctx)
	if err != nil {
		e.recordError(err)
		return nil, err
	}

	e.recoverConflicts(ctx)

	result := e.drain(ctx, token)

	if ctx.Err() == nil {
		if pulled, err := e.pull(ctx, token); err != nil {
			e.logger.Warn("pull failed", "error", err)
		} else {
			result.Pulled = pulled
		}
	}

	if err := e.meta.SaveLastSyncAt(ctx, e.now()); err != nil {
		e.logger.Warn("failed to record sync time", "error", err)
	}

	e.logger.Info("sync cycle finished",
		"synced", result.Synced,
		"failed", result.Failed,
		"conflicts", result.Conflicts,
		"pulled", result.Pulled)

	return result, nil
}

// drain processes the queue in waves: each wave picks at most one ready
// entry per note lane, up to the concurrency bound, and waits for the
// whole wave before scanning again. Per-note FIFO holds because a lane
// contributes one entry per wave.
func (e *Engine) drain(ctx context.Context, token string) *SyncResult {
	result := &SyncResult{}
	var mu gosync.Mutex

	for {
		// abort is checked between entries, not mid-request
		if ctx.Err() != nil {
			break
		}

		batch := e.nextBatch(ctx)
		if len(batch) == 0 {
			break
		}

		var wg gosync.WaitGroup
		for _, entry := range batch {
			wg.Add(1)
			go func(en *models.QueueEntry) {
				defer wg.Done()
				out := e.processEntry(ctx, en, token)
				mu.Lock()
				switch out {
				case outcomeSynced:
					result.Synced++
				case outcomeFailed:
					result.Failed++
				case outcomeConflict:
					result.Conflicts++
				}
				mu.Unlock()
			}(entry)
		}
		wg.Wait()
	}

	return result
}

// nextBatch selects up to maxConcurrent ready entries from distinct note
// lanes.
func (e *Engine) nextBatch(ctx context.Context) []*models.QueueEntry {
	skip := make(map[string]bool)
	batch := make([]*models.QueueEntry, 0, e.maxConcurrent)

	for len(batch) < e.maxConcurrent {
		entry, err := e.queue.DequeueNextSkipping(ctx, skip)
		if err != nil {
			e.recordError(err)
			e.logger.Error("failed to scan queue", "error", err)
			break
		}
		if entry == nil {
			break
		}
		skip[entry.NoteID] = true
		batch = append(batch, entry)
	}
	return batch
}

type outcome int

const (
	outcomeSynced outcome = iota
	outcomeFailed
	outcomeConflict
)

func (e *Engine) processEntry(ctx context.Context, entry *models.QueueEntry, token string) outcome {
	if entry.Operation != models.OperationDelete && entry.Payload == nil {
		// corrupt entry: nothing uploadable references it, drop it rather
		// than retry forever
		e.logger.Error("dropping corrupt queue entry",
			"entry_id", entry.ID, "note_id", entry.NoteID, "operation", entry.Operation)
		if err := e.queue.MarkSynced(ctx, entry.ID); err != nil {
			e.logger.Error("failed to drop corrupt entry", "entry_id", entry.ID, "error", err)
		}
		return outcomeFailed
	}

	if err := e.queue.MarkSyncing(ctx, entry.ID); err != nil {
		e.recordError(err)
		e.logger.Error("failed to mark entry syncing", "entry_id", entry.ID, "error", err)
		return outcomeFailed
	}
	if entry.Operation != models.OperationDelete {
		e.setNoteStatus(ctx, entry.NoteID, models.SyncStatusSyncing)
	}

	switch entry.Operation {
	case models.OperationCreate:
		note, err := e.client.CreateNote(ctx, token, toCreateRequest(entry.Payload))
		return e.settle(ctx, entry, note, err, token)

	case models.OperationUpdate:
		note, err := e.client.UpdateNote(ctx, token, entry.NoteID, toUpdateRequest(entry.Payload, entry.BaseVersion))
		return e.settle(ctx, entry, note, err, token)

	case models.OperationDelete:
		err := e.client.DeleteNote(ctx, token, entry.NoteID)
		if err != nil {
			var conflictErr *httpapi.VersionConflictError
			if errors.As(err, &conflictErr) {
				return e.handleConflict(ctx, entry, conflictNote(conflictErr), token)
			}
			return e.fail(ctx, entry, err)
		}
		if err := e.queue.MarkSynced(ctx, entry.ID); err != nil {
			e.logger.Error("failed to confirm delete", "entry_id", entry.ID, "error", err)
		}
		if err := e.notes.DeleteNote(ctx, entry.NoteID); err != nil {
			e.logger.Error("failed to remove deleted note", "note_id", entry.NoteID, "error", err)
		}
		return outcomeSynced

	default:
		e.logger.Error("unknown operation in queue", "entry_id", entry.ID, "operation", entry.Operation)
		return e.fail(ctx, entry, fmt.Errorf("unknown operation %s", entry.Operation))
	}
}

// settle classifies the outcome of a create or update call.
func (e *Engine) settle(ctx context.Context, entry *models.QueueEntry, canonical *api.Note, err error, token string) outcome {
	if err == nil {
		if err := e.queue.MarkSynced(ctx, entry.ID); err != nil {
			e.logger.Error("failed to confirm entry", "entry_id", entry.ID, "error", err)
		}
		if canonical != nil {
			if err := e.adoptRemote(ctx, fromAPINote(canonical)); err != nil {
				e.logger.Error("failed to store canonical note", "note_id", entry.NoteID, "error", err)
			}
		}
		return outcomeSynced
	}

	var conflictErr *httpapi.VersionConflictError
	if errors.As(err, &conflictErr) {
		return e.handleConflict(ctx, entry, conflictNote(conflictErr), token)
	}
	return e.fail(ctx, entry, err)
}

// conflictNote extracts the server's record from a 409, when it carried
// one.
func conflictNote(err *httpapi.VersionConflictError) *models.Note {
	if err.Current == nil {
		return nil
	}
	return fromAPINote(err.Current)
}

// fail records a failure, classifying it as transient (retried with
// backoff) or permanent (terminal, awaiting explicit retry).
func (e *Engine) fail(ctx context.Context, entry *models.QueueEntry, cause error) outcome {
	terminal := false
	var reqErr *httpapi.RequestError
	if errors.As(cause, &reqErr) {
		terminal = !reqErr.Temporary()
	}

	updated, err := e.queue.MarkFailed(ctx, entry.ID, cause, terminal)
	if err != nil {
		e.recordError(err)
		e.logger.Error("failed to record entry failure", "entry_id", entry.ID, "error", err)
		return outcomeFailed
	}

	if updated.Status == models.EntryStatusFailed {
		e.setNoteStatus(ctx, entry.NoteID, models.SyncStatusFailed)
	}
	e.recordError(cause)
	return outcomeFailed
}

// handleConflict routes a version mismatch through the resolver. The
// remote record comes from the 409 body; when absent it is fetched with
// the given token.
func (e *Engine) handleConflict(ctx context.Context, entry *models.QueueEntry, remote *models.Note, token string) outcome {
	if remote == nil {
		fetched, err := e.client.GetNote(ctx, token, entry.NoteID)
		if err != nil {
			return e.fail(ctx, entry, fmt.Errorf("failed to fetch conflicting note: %w", err))
		}
		remote = fromAPINote(fetched)
	}

	local, err := e.notes.GetNote(ctx, entry.NoteID)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			// the local side of the conflict is gone; adopt the server's
			// record and drop the stale entry
			e.logger.Warn("conflicting note missing locally, adopting remote", "note_id", entry.NoteID)
			if err := e.adoptRemote(ctx, remote); err != nil {
				e.logger.Error("failed to adopt remote note", "note_id", entry.NoteID, "error", err)
			}
			if err := e.queue.MarkSynced(ctx, entry.ID); err != nil {
				e.logger.Error("failed to drop stale entry", "entry_id", entry.ID, "error", err)
			}
			return outcomeConflict
		}
		return e.fail(ctx, entry, fmt.Errorf("failed to load local note: %w", err))
	}

	e.mu.Lock()
	strategy := e.strategy
	e.mu.Unlock()

	res, err := conflict.Resolve(local, remote, strategy)
	if err != nil {
		return e.fail(ctx, entry, err)
	}

	e.logger.Info("version conflict",
		"note_id", entry.NoteID,
		"strategy", strategy,
		"local_version", local.Version,
		"remote_version", remote.Version)

	switch {
	case res.Pending:
		if err := e.queue.MarkConflict(ctx, entry.ID); err != nil {
			e.logger.Error("failed to suspend lane", "entry_id", entry.ID, "error", err)
		}
		e.setNoteStatus(ctx, entry.NoteID, models.SyncStatusConflict)
		e.mu.Lock()
		e.conflicts[entry.NoteID] = res.Record
		e.mu.Unlock()

	case strategy == models.StrategyUseLocal:
		if err := e.rearmAgainst(ctx, entry, res.Note, remote.Version); err != nil {
			e.logger.Error("failed to re-enqueue local version", "entry_id", entry.ID, "error", err)
		}

	case strategy == models.StrategyUseRemote:
		if err := e.adoptRemote(ctx, res.Note); err != nil {
			e.logger.Error("failed to adopt remote note", "note_id", entry.NoteID, "error", err)
		}
		if err := e.queue.DiscardNote(ctx, entry.NoteID); err != nil {
			e.logger.Error("failed to discard note lane", "note_id", entry.NoteID, "error", err)
		}
	}

	return outcomeConflict
}

// rearmAgainst sends a payload back out as an update against the given
// remote version stamp.
func (e *Engine) rearmAgainst(ctx context.Context, entry *models.QueueEntry, payload *models.Note, baseVersion int64) error {
	if err := e.queue.Rearm(ctx, entry.ID, payload, baseVersion); err != nil {
		return fmt.Errorf("failed to rearm entry: %w", err)
	}
	e.setNoteStatus(ctx, entry.NoteID, models.SyncStatusPending)
	return nil
}

// adoptRemote overwrites the local record with a server-confirmed note.
func (e *Engine) adoptRemote(ctx context.Context, remote *models.Note) error {
	note := remote.Clone()
	note.SyncStatus = models.SyncStatusSynced
	note.LastSyncedAt = e.now()

	// keep the local access time, it is client-only state
	if existing, err := e.notes.GetNote(ctx, note.ID); err == nil {
		note.LastAccessedAt = existing.LastAccessedAt
		if note.CreatedAt.IsZero() {
			note.CreatedAt = existing.CreatedAt
		}
	}

	if err := e.notes.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

// pull fetches remote changes since the last sync and merges the ones
// with no local claim: a note with queued mutations or a pending conflict
// keeps its local state until its lane settles.
func (e *Engine) pull(ctx context.Context, token string) (int, error) {
	since, err := e.meta.GetLastSyncAt(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read last sync time: %w", err)
	}

	remotes, err := e.client.ListNotes(ctx, token, since)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote notes: %w", err)
	}
	if len(remotes) == 0 {
		return 0, nil
	}

	entries, err := e.queue.Entries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list queue: %w", err)
	}
	claimed := make(map[string]bool, len(entries))
	for _, en := range entries {
		claimed[en.NoteID] = true
	}
	e.mu.Lock()
	for id := range e.conflicts {
		claimed[id] = true
	}
	e.mu.Unlock()

	pulled := 0
	for i := range remotes {
		remote := fromAPINote(&remotes[i])
		if claimed[remote.ID] {
			continue
		}
		if err := e.adoptRemote(ctx, remote); err != nil {
			e.logger.Warn("failed to merge pulled note", "note_id", remote.ID, "error", err)
			continue
		}
		pulled++
	}
	return pulled, nil
}

// recoverConflicts rebuilds the in-memory conflict records for lanes left
// suspended by a previous run. Runs before every conflict read, every
// resolution and every sync cycle, so a suspended lane stays visible and
// resolvable after a restart. Refetching the remote side needs
// connectivity; while offline the records are rebuilt on the first online
// access instead.
func (e *Engine) recoverConflicts(ctx context.Context) {
	if !e.Online() {
		return
	}

	entries, err := e.queue.Entries(ctx)
	if err != nil {
		e.logger.Warn("failed to scan queue for suspended conflicts", "error", err)
		return
	}

	token, err := e.accessToken(ctx)
	if err != nil {
		e.logger.Warn("failed to read session for conflict recovery", "error", err)
		return
	}

	for _, en := range entries {
		if en.Status != models.EntryStatusConflict {
			continue
		}
		e.mu.Lock()
		_, known := e.conflicts[en.NoteID]
		e.mu.Unlock()
		if known {
			continue
		}

		local, err := e.notes.GetNote(ctx, en.NoteID)
		if err != nil {
			// the queued payload is the local pending change
			if en.Payload == nil {
				e.logger.Warn("suspended conflict has no local note", "note_id", en.NoteID, "error", err)
				continue
			}
			local = en.Payload
		}
		fetched, err := e.client.GetNote(ctx, token, en.NoteID)
		if err != nil {
			e.logger.Warn("failed to refetch conflicting note", "note_id", en.NoteID, "error", err)
			continue
		}

		e.mu.Lock()
		e.conflicts[en.NoteID] = conflict.Info(local, fromAPINote(fetched))
		e.mu.Unlock()
	}
}

// conflictEntry finds the suspended entry for a note's lane.
func (e *Engine) conflictEntry(ctx context.Context, noteID string) (*models.QueueEntry, error) {
	entries, err := e.queue.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	for _, en := range entries {
		if en.NoteID == noteID && en.Status == models.EntryStatusConflict {
			return en, nil
		}
	}
	return nil, fmt.Errorf("%w: no suspended entry for %s", ErrNoConflict, noteID)
}

func (e *Engine) setNoteStatus(ctx context.Context, noteID string, status models.SyncStatus) {
	note, err := e.notes.GetNote(ctx, noteID)
	if err != nil {
		if !errors.Is(err, storage.ErrNoteNotFound) {
			e.logger.Warn("failed to load note for status update", "note_id", noteID, "error", err)
		}
		return
	}
	note.SyncStatus = status
	if err := e.notes.SaveNote(ctx, note); err != nil {
		e.logger.Warn("failed to update note status", "note_id", noteID, "error", err)
	}
}

func (e *Engine) accessToken(ctx context.Context) (string, error) {
	session, err := e.meta.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return session.AccessToken, nil
}

func (e *Engine) recordError(err error) {
	e.mu.Lock()
	e.lastError = err.Error()
	e.mu.Unlock()
}

func (e *Engine) snapshot(ctx context.Context) Status {
	queueSize := 0
	if entries, err := e.queue.Entries(ctx); err == nil {
		queueSize = len(entries)
	}
	lastSync, _ := e.meta.GetLastSyncAt(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		State:      e.state,
		Online:     e.online,
		QueueSize:  queueSize,
		Conflicts:  len(e.conflicts),
		LastSyncAt: lastSync,
		LastError:  e.lastError,
	}
}

func (e *Engine) publishStatus(ctx context.Context) {
	e.obs.publish(e.snapshot(ctx))
}

func toCreateRequest(n *models.Note) api.CreateNoteRequest {
	return api.CreateNoteRequest{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Summary:    n.Summary,
		CategoryID: n.CategoryID,
		Tags:       n.Tags,
	}
}

func toUpdateRequest(n *models.Note, baseVersion int64) api.UpdateNoteRequest {
	return api.UpdateNoteRequest{
		Title:           n.Title,
		Content:         n.Content,
		Summary:         n.Summary,
		CategoryID:      n.CategoryID,
		Tags:            n.Tags,
		ExpectedVersion: baseVersion,
	}
}

func fromAPINote(n *api.Note) *models.Note {
	return &models.Note{
		ID:         n.ID,
		UserID:     n.UserID,
		Title:      n.Title,
		Content:    n.Content,
		Summary:    n.Summary,
		CategoryID: n.CategoryID,
		Tags:       append([]string(nil), n.Tags...),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
		Version:    n.Version,
	}
}
