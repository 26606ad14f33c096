package boltdb

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.etcd.io/bbolt"

	"github.com/mkraev/notesync/internal/client/storage"
)

var (
	// BoltDB bucket names, one logical store per bucket
	bucketNotes    = []byte("notes")
	bucketQueue    = []byte("sync_queue")
	bucketDrafts   = []byte("drafts")
	bucketMetadata = []byte("metadata")
)

// Storage is the BoltDB-backed local store. It owns all persisted client
// state: notes, the sync queue, drafts and metadata.
type Storage struct {
	db *bbolt.DB

	// generation is bumped on every successful write so readers holding
	// cached aggregates (counts, listings) know to recompute.
	generation atomic.Int64
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open boltdb: %v", storage.ErrStorageUnavailable, err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize buckets: %v", storage.ErrStorageUnavailable, err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Generation returns the current cache invalidation token. It changes after
// every successful write to any of the stores.
func (s *Storage) Generation() int64 {
	return s.generation.Load()
}

// Usage reports consumed space and per-store record counts.
func (s *Storage) Usage(ctx context.Context) (*storage.Usage, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	usage := &storage.Usage{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		usage.FileSizeBytes = tx.Size()

		if b := tx.Bucket(bucketNotes); b != nil {
			usage.Notes = b.Stats().KeyN
		}
		if b := tx.Bucket(bucketQueue); b != nil {
			usage.QueueEntries = b.Stats().KeyN
		}
		if b := tx.Bucket(bucketDrafts); b != nil {
			usage.Drafts = b.Stats().KeyN
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read storage usage: %w", err)
	}

	return usage, nil
}

// initBuckets creates the required buckets if they don't exist
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketNotes, bucketQueue, bucketDrafts, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// update runs a write transaction and bumps the generation counter on
// success. All mutating operations go through it.
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if err := s.db.Update(fn); err != nil {
		return err
	}

	s.generation.Add(1)
	return nil
}
