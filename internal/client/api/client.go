// Package api is the HTTP client for the remote note API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mkraev/notesync/pkg/api"
)

//go:generate moq -out noteapi_mock.go . NoteAPI

// NoteAPI defines the remote note API surface the sync engine drains
// through.
type NoteAPI interface {
	// CreateNote uploads a new note and returns the canonical record
	CreateNote(ctx context.Context, accessToken string, req api.CreateNoteRequest) (*api.Note, error)

	// UpdateNote replaces a note, guarded by the expected version stamp.
	// Returns *VersionConflictError when the server's stamp differs.
	UpdateNote(ctx context.Context, accessToken, noteID string, req api.UpdateNoteRequest) (*api.Note, error)

	// DeleteNote removes a note. Deleting an already absent note succeeds.
	DeleteNote(ctx context.Context, accessToken, noteID string) error

	// GetNote fetches the server's current record for a note
	GetNote(ctx context.Context, accessToken, noteID string) (*api.Note, error)

	// ListNotes returns the caller's notes changed since the given time.
	// A zero time returns everything.
	ListNotes(ctx context.Context, accessToken string, since time.Time) ([]api.Note, error)
}

// RequestError is a non-conflict API failure carrying the HTTP status so
// callers can classify it as transient or permanent.
type RequestError struct {
	Message    string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Temporary reports whether the failure is worth retrying.
func (e *RequestError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// VersionConflictError signals that the server's version stamp moved past
// the one the client sent. Current is the server's record at rejection
// time.
type VersionConflictError struct {
	Current *api.Note
}

func (e *VersionConflictError) Error() string {
	if e.Current == nil {
		return "version conflict"
	}
	return fmt.Sprintf("version conflict: server is at version %d", e.Current.Version)
}

// Client is the HTTP implementation of NoteAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client. The timeout bounds every call; a
// request running past it is treated as a retryable failure by the engine.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateNote uploads a new note
func (c *Client) CreateNote(ctx context.Context, accessToken string, req api.CreateNoteRequest) (*api.Note, error) {
	var note api.Note
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/notes", accessToken, req, &note); err != nil {
		return nil, fmt.Errorf("create note request failed: %w", err)
	}
	return &note, nil
}

// UpdateNote replaces a note guarded by the expected version stamp
func (c *Client) UpdateNote(ctx context.Context, accessToken, noteID string, req api.UpdateNoteRequest) (*api.Note, error) {
	var note api.Note
	path := "/api/v1/notes/" + url.PathEscape(noteID)
	if err := c.doRequest(ctx, http.MethodPut, path, accessToken, req, &note); err != nil {
		// keep the conflict error unwrapped so callers can type-assert it
		var conflict *VersionConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, fmt.Errorf("update note request failed: %w", err)
	}
	return &note, nil
}

// DeleteNote removes a note. A 404 counts as success: the note is gone
// either way and the operation stays idempotent.
func (c *Client) DeleteNote(ctx context.Context, accessToken, noteID string) error {
	path := "/api/v1/notes/" + url.PathEscape(noteID)
	err := c.doRequest(ctx, http.MethodDelete, path, accessToken, nil, nil)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete note request failed: %w", err)
	}
	return nil
}

// GetNote fetches the server's current record for a note
func (c *Client) GetNote(ctx context.Context, accessToken, noteID string) (*api.Note, error) {
	var note api.Note
	path := "/api/v1/notes/" + url.PathEscape(noteID)
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &note); err != nil {
		return nil, fmt.Errorf("get note request failed: %w", err)
	}
	return &note, nil
}

// ListNotes returns the caller's notes changed since the given time
func (c *Client) ListNotes(ctx context.Context, accessToken string, since time.Time) ([]api.Note, error) {
	path := "/api/v1/notes"
	if !since.IsZero() {
		path += "?since=" + strconv.FormatInt(since.UnixMilli(), 10)
	}

	var resp api.ListNotesResponse
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("list notes request failed: %w", err)
	}
	return resp.Notes, nil
}

// doRequest performs an HTTP request and decodes the response
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result interface{}) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusConflict {
		var conflict api.ConflictResponse
		if err := json.Unmarshal(respBody, &conflict); err == nil && conflict.CurrentNote.ID != "" {
			return &VersionConflictError{Current: &conflict.CurrentNote}
		}
		return &VersionConflictError{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			msg := errResp.Error
			if errResp.Message != "" {
				msg += ": " + errResp.Message
			}
			return &RequestError{StatusCode: resp.StatusCode, Message: msg}
		}
		return &RequestError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
