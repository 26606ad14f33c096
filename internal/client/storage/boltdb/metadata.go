package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/mkraev/notesync/internal/client/storage"
)

const (
	keyLastSyncAt = "last_sync_at"
	keySession    = "session"
)

// SaveLastSyncAt saves the time of the last successful sync cycle
func (s *Storage) SaveLastSyncAt(ctx context.Context, t time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return storage.ErrStorageUnavailable
		}

		// store as big-endian unix millis
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(t.UnixMilli()))

		if err := bucket.Put([]byte(keyLastSyncAt), buf); err != nil {
			return fmt.Errorf("failed to save last sync time: %w", err)
		}
		return nil
	})
}

// GetLastSyncAt retrieves the time of the last successful sync cycle
// Returns the zero time if no sync has completed yet
func (s *Storage) GetLastSyncAt(ctx context.Context) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var t time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return nil
		}

		buf := bucket.Get([]byte(keyLastSyncAt))
		if buf == nil {
			// first sync has not happened yet
			return nil
		}

		t = time.UnixMilli(int64(binary.BigEndian.Uint64(buf)))
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return t, nil
}

// SaveSession stores the sync identity
func (s *Storage) SaveSession(ctx context.Context, session *storage.Session) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return storage.ErrStorageUnavailable
		}

		if err := bucket.Put([]byte(keySession), data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
}

// GetSession retrieves the stored sync identity
func (s *Storage) GetSession(ctx context.Context) (*storage.Session, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var session *storage.Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return storage.ErrSessionNotFound
		}

		data := bucket.Get([]byte(keySession))
		if data == nil {
			return storage.ErrSessionNotFound
		}

		session = &storage.Session{}
		if err := json.Unmarshal(data, session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession removes the stored sync identity
func (s *Storage) DeleteSession(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(keySession))
	})
}
