package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mkraev/notesync/internal/server/storage"
)

// CreateNote inserts a new note with version 1 and storage-assigned
// timestamps. Returns storage.ErrNoteAlreadyExists when the id is taken.
func (s *Storage) CreateNote(ctx context.Context, note *storage.Note) (*storage.Note, error) {
	_, err := s.GetNote(ctx, note.UserID, note.ID)
	if err == nil {
		return nil, storage.ErrNoteAlreadyExists
	}
	if !errors.Is(err, storage.ErrNoteNotFound) {
		return nil, fmt.Errorf("failed to check existing note: %w", err)
	}

	// A different user may hold the id: the id namespace is global
	var taken int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE id = ?`, note.ID)
	if err := row.Scan(&taken); err != nil {
		return nil, fmt.Errorf("failed to check note id: %w", err)
	}
	if taken > 0 {
		return nil, storage.ErrNoteAlreadyExists
	}

	tags, err := marshalTags(note.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO notes (
			id, user_id, title, content, summary, category_id, tags,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.Summary,
		note.CategoryID,
		tags,
		now.UnixMilli(),
		now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	return s.GetNote(ctx, note.UserID, note.ID)
}

// GetNote returns the user's note or storage.ErrNoteNotFound
func (s *Storage) GetNote(ctx context.Context, userID, noteID string) (*storage.Note, error) {
	query := `
		SELECT id, user_id, title, content, summary, category_id, tags,
		       version, created_at, updated_at
		FROM notes
		WHERE id = ? AND user_id = ?
	`

	row := s.db.QueryRowContext(ctx, query, noteID, userID)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// UpdateNote replaces the note's content guarded by the expected version
// stamp. The stamp is incremented in the same statement as the guard, so
// concurrent writers cannot both pass.
func (s *Storage) UpdateNote(ctx context.Context, note *storage.Note, expectedVersion int64) (*storage.Note, error) {
	tags, err := marshalTags(note.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE notes
		SET title = ?, content = ?, summary = ?, category_id = ?, tags = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND user_id = ? AND version = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		note.Title,
		note.Content,
		note.Summary,
		note.CategoryID,
		tags,
		time.Now().UTC().UnixMilli(),
		note.ID,
		note.UserID,
		expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		// The guard failed: either the note is gone or the stamp moved
		if _, err := s.GetNote(ctx, note.UserID, note.ID); err != nil {
			return nil, err
		}
		return nil, storage.ErrVersionConflict
	}

	return s.GetNote(ctx, note.UserID, note.ID)
}

// DeleteNote removes the user's note. Returns storage.ErrNoteNotFound when
// it is already absent.
func (s *Storage) DeleteNote(ctx context.Context, userID, noteID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNoteNotFound
	}

	return nil
}

// ListNotesSince returns the user's notes updated strictly after the given
// time, oldest first. A zero time returns everything.
func (s *Storage) ListNotesSince(ctx context.Context, userID string, since time.Time) ([]*storage.Note, error) {
	query := `
		SELECT id, user_id, title, content, summary, category_id, tags,
		       version, created_at, updated_at
		FROM notes
		WHERE user_id = ? AND updated_at > ?
		ORDER BY updated_at ASC
	`

	var sinceMilli int64
	if !since.IsZero() {
		sinceMilli = since.UnixMilli()
	}

	rows, err := s.db.QueryContext(ctx, query, userID, sinceMilli)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*storage.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*storage.Note, error) {
	var (
		note      storage.Note
		tags      string
		createdAt int64
		updatedAt int64
	)

	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.Summary,
		&note.CategoryID,
		&tags,
		&note.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &note.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	note.CreatedAt = time.UnixMilli(createdAt).UTC()
	note.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &note, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}
