package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraev/notesync/pkg/api"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080", 0)

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	require.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout, "zero timeout falls back to the default")

	client = NewClient("http://localhost:8080", 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestClient_CreateNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/notes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		var req api.CreateNoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "note-1", req.ID)
		assert.Equal(t, "groceries", req.Title)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.Note{
			ID:      req.ID,
			Title:   req.Title,
			Content: req.Content,
			Version: 1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	note, err := client.CreateNote(context.Background(), "token-123", api.CreateNoteRequest{
		ID:      "note-1",
		Title:   "groceries",
		Content: "milk, eggs",
	})
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "note-1", note.ID)
	assert.Equal(t, int64(1), note.Version, "server assigns the initial version stamp")
}

func TestClient_UpdateNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/notes/note-1", r.URL.Path)

		var req api.UpdateNoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(3), req.ExpectedVersion)

		_ = json.NewEncoder(w).Encode(api.Note{ID: "note-1", Title: req.Title, Version: 4})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	note, err := client.UpdateNote(context.Background(), "token-123", "note-1", api.UpdateNoteRequest{
		Title:           "groceries v2",
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, int64(4), note.Version)
}

func TestClient_UpdateNote_VersionConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(api.ConflictResponse{
			Error: "version conflict",
			CurrentNote: api.Note{
				ID:      "note-1",
				Title:   "edited elsewhere",
				Version: 7,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	note, err := client.UpdateNote(context.Background(), "token-123", "note-1", api.UpdateNoteRequest{
		ExpectedVersion: 3,
	})
	assert.Nil(t, note)
	require.Error(t, err)

	var conflict *VersionConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.Current, "the 409 body carries the server's record")
	assert.Equal(t, "edited elsewhere", conflict.Current.Title)
	assert.Equal(t, int64(7), conflict.Current.Version)
}

func TestClient_DeleteNote(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{name: "deleted", statusCode: http.StatusNoContent},
		{name: "already gone", statusCode: http.StatusNotFound},
		{name: "server error", statusCode: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/api/v1/notes/note-1", r.URL.Path)
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := NewClient(server.URL, 0)

			err := client.DeleteNote(context.Background(), "token-123", "note-1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_GetNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/notes/note-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.Note{ID: "note-1", Title: "groceries", Version: 2})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	note, err := client.GetNote(context.Background(), "token-123", "note-1")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "groceries", note.Title)
}

func TestClient_ListNotes(t *testing.T) {
	since := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/notes", r.URL.Path)
		assert.Equal(t, "1772359200000", r.URL.Query().Get("since"))

		_ = json.NewEncoder(w).Encode(api.ListNotesResponse{
			Notes: []api.Note{
				{ID: "note-1", Version: 2},
				{ID: "note-2", Version: 5},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	notes, err := client.ListNotes(context.Background(), "token-123", since)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "note-2", notes[1].ID)
}

func TestClient_ListNotes_ZeroSince(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("since"), "a zero time requests the full set")
		_ = json.NewEncoder(w).Encode(api.ListNotesResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	notes, err := client.ListNotes(context.Background(), "token-123", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestRequestError_Temporary(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		temporary  bool
	}{
		{name: "bad request", statusCode: http.StatusBadRequest, temporary: false},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, temporary: false},
		{name: "too many requests", statusCode: http.StatusTooManyRequests, temporary: true},
		{name: "internal error", statusCode: http.StatusInternalServerError, temporary: true},
		{name: "bad gateway", statusCode: http.StatusBadGateway, temporary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &RequestError{StatusCode: tt.statusCode, Message: "boom"}
			assert.Equal(t, tt.temporary, err.Temporary())
		})
	}
}

func TestClient_RequestError_Classification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "overloaded", Message: "try later"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)

	_, err := client.GetNote(context.Background(), "token-123", "note-1")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
	assert.True(t, reqErr.Temporary())
	assert.Contains(t, reqErr.Error(), "overloaded")
}
