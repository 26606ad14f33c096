package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
)

// SaveNote stores or replaces a note. The caller supplies the full record;
// nothing is partially merged.
func (s *Storage) SaveNote(ctx context.Context, note *models.Note) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return storage.ErrStorageUnavailable
		}

		if err := bucket.Put([]byte(note.ID), data); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save note transaction failed: %w", err)
	}

	return nil
}

// GetNote retrieves a note by ID
func (s *Storage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var note *models.Note

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return storage.ErrNoteNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrNoteNotFound
		}

		note = &models.Note{}
		if err := json.Unmarshal(data, note); err != nil {
			return fmt.Errorf("failed to unmarshal note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return note, nil
}

// DeleteNote removes a note. Deleting a missing ID is a no-op.
func (s *Storage) DeleteNote(ctx context.Context, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete note transaction failed: %w", err)
	}

	return nil
}

// ListNotes returns notes matching the filter, ordered by UpdatedAt
// descending, with optional pagination.
func (s *Storage) ListNotes(ctx context.Context, filter storage.ListFilter, page storage.Page) ([]*models.Note, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var notes []*models.Note

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var note models.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return fmt.Errorf("failed to unmarshal note: %w", err)
			}

			if filter.UserID != "" && note.UserID != filter.UserID {
				return nil
			}
			if filter.Status != "" && note.SyncStatus != filter.Status {
				return nil
			}

			notes = append(notes, &note)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})

	return paginate(notes, page), nil
}

// SaveNotes stores a batch of notes inside one transaction, all-or-nothing.
func (s *Storage) SaveNotes(ctx context.Context, notes []*models.Note) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if len(notes) == 0 {
		return nil
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return storage.ErrStorageUnavailable
		}

		for _, note := range notes {
			data, err := json.Marshal(note)
			if err != nil {
				return fmt.Errorf("failed to marshal note %s: %w", note.ID, err)
			}
			if err := bucket.Put([]byte(note.ID), data); err != nil {
				return fmt.Errorf("failed to save note %s: %w", note.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch save transaction failed: %w", err)
	}

	return nil
}

// DeleteNotes removes a batch of notes inside one transaction,
// all-or-nothing. Missing IDs are skipped.
func (s *Storage) DeleteNotes(ctx context.Context, ids []string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if len(ids) == 0 {
		return nil
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketNotes)
		if bucket == nil {
			return nil
		}

		for _, id := range ids {
			if err := bucket.Delete([]byte(id)); err != nil {
				return fmt.Errorf("failed to delete note %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch delete transaction failed: %w", err)
	}

	return nil
}

// paginate applies offset/limit to an already ordered slice.
func paginate(notes []*models.Note, page storage.Page) []*models.Note {
	if page.Offset > 0 {
		if page.Offset >= len(notes) {
			return nil
		}
		notes = notes[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(notes) {
		notes = notes[:page.Limit]
	}
	return notes
}
