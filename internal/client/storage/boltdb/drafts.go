package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
)

// SaveDraft stores or replaces the draft for a note
func (s *Storage) SaveDraft(ctx context.Context, draft *models.Draft) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDrafts)
		if bucket == nil {
			return storage.ErrStorageUnavailable
		}

		if err := bucket.Put([]byte(draft.NoteID), data); err != nil {
			return fmt.Errorf("failed to save draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save draft transaction failed: %w", err)
	}

	return nil
}

// GetDraft retrieves the draft for a note
func (s *Storage) GetDraft(ctx context.Context, noteID string) (*models.Draft, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var draft *models.Draft

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDrafts)
		if bucket == nil {
			return storage.ErrDraftNotFound
		}

		data := bucket.Get([]byte(noteID))
		if data == nil {
			return storage.ErrDraftNotFound
		}

		draft = &models.Draft{}
		if err := json.Unmarshal(data, draft); err != nil {
			return fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// DeleteDraft removes the draft for a note. Deleting a missing draft is a
// no-op.
func (s *Storage) DeleteDraft(ctx context.Context, noteID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDrafts)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(noteID))
	})
	if err != nil {
		return fmt.Errorf("delete draft transaction failed: %w", err)
	}

	return nil
}

// ListDrafts returns all stored drafts
func (s *Storage) ListDrafts(ctx context.Context) ([]*models.Draft, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var drafts []*models.Draft

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDrafts)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var draft models.Draft
			if err := json.Unmarshal(v, &draft); err != nil {
				return fmt.Errorf("failed to unmarshal draft: %w", err)
			}
			drafts = append(drafts, &draft)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	return drafts, nil
}
