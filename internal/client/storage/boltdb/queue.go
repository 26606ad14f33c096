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

// SaveEntry stores or replaces a sync queue entry
func (s *Storage) SaveEntry(ctx context.Context, entry *models.QueueEntry) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal queue entry: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return storage.ErrStorageUnavailable
		}

		if err := bucket.Put([]byte(entry.ID), data); err != nil {
			return fmt.Errorf("failed to save queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save entry transaction failed: %w", err)
	}

	return nil
}

// GetEntry retrieves a queue entry by ID
func (s *Storage) GetEntry(ctx context.Context, id string) (*models.QueueEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entry *models.QueueEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return storage.ErrEntryNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrEntryNotFound
		}

		entry = &models.QueueEntry{}
		if err := json.Unmarshal(data, entry); err != nil {
			return fmt.Errorf("failed to unmarshal queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// DeleteEntry removes a queue entry. Deleting a missing ID is a no-op.
func (s *Storage) DeleteEntry(ctx context.Context, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete entry transaction failed: %w", err)
	}

	return nil
}

// DeleteEntries removes a batch of entries inside one transaction,
// all-or-nothing. Used when coalescing cancels several entries at once.
func (s *Storage) DeleteEntries(ctx context.Context, ids []string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if len(ids) == 0 {
		return nil
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}

		for _, id := range ids {
			if err := bucket.Delete([]byte(id)); err != nil {
				return fmt.Errorf("failed to delete entry %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch delete transaction failed: %w", err)
	}

	return nil
}

// ListEntries returns all queue entries ordered by EnqueuedAt ascending
func (s *Storage) ListEntries(ctx context.Context) ([]*models.QueueEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entries []*models.QueueEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal queue entry: %w", err)
			}
			entries = append(entries, &entry)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries: %w", err)
	}

	sortEntries(entries)
	return entries, nil
}

// ListEntriesByNote returns all entries for one note, ordered by EnqueuedAt
// ascending
func (s *Storage) ListEntriesByNote(ctx context.Context, noteID string) ([]*models.QueueEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entries []*models.QueueEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal queue entry: %w", err)
			}
			if entry.NoteID == noteID {
				entries = append(entries, &entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries for note: %w", err)
	}

	sortEntries(entries)
	return entries, nil
}

// ClearEntries removes every queue entry
func (s *Storage) ClearEntries(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketQueue); err != nil && err != bbolt.ErrBucketNotFound {
			return fmt.Errorf("failed to delete queue bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketQueue); err != nil {
			return fmt.Errorf("failed to recreate queue bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear transaction failed: %w", err)
	}

	return nil
}

// sortEntries orders entries by EnqueuedAt ascending with the entry ID as a
// deterministic tie-break.
func sortEntries(entries []*models.QueueEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EnqueuedAt.Equal(entries[j].EnqueuedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].EnqueuedAt.Before(entries[j].EnqueuedAt)
	})
}
