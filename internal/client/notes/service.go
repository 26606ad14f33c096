// Package notes is the client-side note service: every mutation lands in
// the local store first and is queued for upload, so the UI never waits on
// the network.
package notes

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkraev/notesync/internal/client/draft"
	"github.com/mkraev/notesync/internal/client/queue"
	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
)

// Input carries the user-editable fields of a note.
type Input struct {
	Title      string
	Content    string
	Summary    string
	CategoryID string
	Tags       []string
}

// StatusCounts aggregates notes by sync status for badge rendering.
type StatusCounts struct {
	Total    int
	Synced   int
	Pending  int
	Syncing  int
	Failed   int
	Conflict int
}

// Service defines the interface for the client note service.
type Service interface {
	// CreateNote stores a new note locally and queues its upload
	CreateNote(ctx context.Context, userID string, in Input) (*models.Note, error)

	// UpdateNote applies the input to an existing note and queues the
	// change
	UpdateNote(ctx context.Context, id string, in Input) (*models.Note, error)

	// DeleteNote removes a note locally and queues the remote delete.
	// Deleting a missing note is a no-op.
	DeleteNote(ctx context.Context, id string) error

	// GetNote returns a note and touches its access time
	GetNote(ctx context.Context, id string) (*models.Note, error)

	// ListNotes returns notes matching the filter, newest first
	ListNotes(ctx context.Context, filter storage.ListFilter, page storage.Page) ([]*models.Note, error)

	// Counts aggregates the user's notes by sync status
	Counts(ctx context.Context, userID string) (*StatusCounts, error)
}

// generationSource reports a counter that moves on every storage write.
// Satisfied by the bolt storage; used to invalidate the counts cache.
type generationSource interface {
	Generation() int64
}

type service struct {
	notes  storage.NoteStorage
	queue  *queue.Manager
	drafts *draft.Manager
	gen    generationSource
	now    func() time.Time

	cacheMu     gosync.Mutex
	cache       map[string]*StatusCounts // keyed by user id
	cacheGen    int64
	cacheFilled bool
}

// NewService creates a new note service. drafts may be nil when draft
// cleanup on save is not wanted; gen may be nil to disable count caching.
func NewService(notes storage.NoteStorage, q *queue.Manager, drafts *draft.Manager, gen generationSource) Service {
	return &service{
		notes:  notes,
		queue:  q,
		drafts: drafts,
		gen:    gen,
		now:    time.Now,
		cache:  make(map[string]*StatusCounts),
	}
}

// CreateNote stores a new note locally and queues its upload. The note is
// immediately visible with a pending badge; the server-confirmed record
// replaces it after sync.
func (s *service) CreateNote(ctx context.Context, userID string, in Input) (*models.Note, error) {
	now := s.now()
	note := &models.Note{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      in.Title,
		Content:    in.Content,
		Summary:    in.Summary,
		CategoryID: in.CategoryID,
		Tags:       append([]string(nil), in.Tags...),
		SyncStatus: models.SyncStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.notes.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	if _, err := s.queue.Enqueue(ctx, note.ID, models.OperationCreate, note); err != nil {
		return nil, fmt.Errorf("failed to queue note creation: %w", err)
	}

	s.dropDraft(ctx, note.ID)
	return note, nil
}

// UpdateNote applies the input to an existing note and queues the change.
// Consecutive edits coalesce into a single queued upload.
func (s *service) UpdateNote(ctx context.Context, id string, in Input) (*models.Note, error) {
	note, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}

	note.Title = in.Title
	note.Content = in.Content
	note.Summary = in.Summary
	note.CategoryID = in.CategoryID
	note.Tags = append([]string(nil), in.Tags...)
	note.Touch(s.now())
	if note.SyncStatus != models.SyncStatusConflict {
		note.SyncStatus = models.SyncStatusPending
	}

	if err := s.notes.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	if _, err := s.queue.Enqueue(ctx, note.ID, models.OperationUpdate, note); err != nil {
		return nil, fmt.Errorf("failed to queue note update: %w", err)
	}

	s.dropDraft(ctx, note.ID)
	return note, nil
}

// DeleteNote removes a note locally and queues the remote delete. When the
// note was never uploaded the queued create and the delete annihilate and
// the server is never contacted.
func (s *service) DeleteNote(ctx context.Context, id string) error {
	note, err := s.notes.GetNote(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load note: %w", err)
	}

	if err := s.notes.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if _, err := s.queue.Enqueue(ctx, id, models.OperationDelete, note); err != nil {
		return fmt.Errorf("failed to queue note deletion: %w", err)
	}

	s.dropDraft(ctx, id)
	return nil
}

// GetNote returns a note and records the access time. The access stamp is
// client-only state and does not queue an upload.
func (s *service) GetNote(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}

	note.LastAccessedAt = s.now()
	if err := s.notes.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to record note access: %w", err)
	}
	return note, nil
}

// ListNotes returns notes matching the filter, newest first.
func (s *service) ListNotes(ctx context.Context, filter storage.ListFilter, page storage.Page) ([]*models.Note, error) {
	notes, err := s.notes.ListNotes(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Counts aggregates the user's notes by sync status. The result is cached
// against the storage generation, so repeated badge refreshes between
// writes cost one storage scan total.
func (s *service) Counts(ctx context.Context, userID string) (*StatusCounts, error) {
	var gen int64
	if s.gen != nil {
		gen = s.gen.Generation()
		s.cacheMu.Lock()
		if s.cacheFilled && s.cacheGen == gen {
			if cached, ok := s.cache[userID]; ok {
				out := *cached
				s.cacheMu.Unlock()
				return &out, nil
			}
		}
		s.cacheMu.Unlock()
	}

	notes, err := s.notes.ListNotes(ctx, storage.ListFilter{UserID: userID}, storage.Page{})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	counts := &StatusCounts{Total: len(notes)}
	for _, n := range notes {
		switch n.SyncStatus {
		case models.SyncStatusSynced:
			counts.Synced++
		case models.SyncStatusPending:
			counts.Pending++
		case models.SyncStatusSyncing:
			counts.Syncing++
		case models.SyncStatusFailed:
			counts.Failed++
		case models.SyncStatusConflict:
			counts.Conflict++
		}
	}

	// only cache a scan no write raced with
	if s.gen != nil && s.gen.Generation() == gen {
		s.cacheMu.Lock()
		if !s.cacheFilled || s.cacheGen != gen {
			s.cache = make(map[string]*StatusCounts)
		}
		s.cacheGen = gen
		s.cacheFilled = true
		out := *counts
		s.cache[userID] = &out
		s.cacheMu.Unlock()
	}

	return counts, nil
}

// dropDraft removes the note's draft after an explicit save or delete.
// Best effort: a surviving draft only costs a stale restore prompt.
func (s *service) dropDraft(ctx context.Context, noteID string) {
	if s.drafts == nil {
		return
	}
	_ = s.drafts.DeleteDraft(ctx, noteID)
}
