package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mkraev/notesync/internal/server/storage"
	"github.com/mkraev/notesync/pkg/api"
)

// NoteStorage defines the storage operations the notes handler needs
type NoteStorage interface {
	CreateNote(ctx context.Context, note *storage.Note) (*storage.Note, error)
	GetNote(ctx context.Context, userID, noteID string) (*storage.Note, error)
	UpdateNote(ctx context.Context, note *storage.Note, expectedVersion int64) (*storage.Note, error)
	DeleteNote(ctx context.Context, userID, noteID string) error
	ListNotesSince(ctx context.Context, userID string, since time.Time) ([]*storage.Note, error)
}

// NotesHandler serves the /api/v1/notes endpoints
type NotesHandler struct {
	logger   *slog.Logger
	storage  NoteStorage
	validate *validator.Validate
}

// NewNotesHandler creates a new notes handler
func NewNotesHandler(logger *slog.Logger, store NoteStorage) *NotesHandler {
	return &NotesHandler{
		logger:   logger,
		storage:  store,
		validate: validator.New(),
	}
}

// HandleCollection serves /api/v1/notes: POST creates a note, GET lists
// the caller's notes changed since the given timestamp.
func (h *NotesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r, userID)
	case http.MethodGet:
		h.handleList(w, r, userID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

// HandleItem serves /api/v1/notes/{id}: GET fetches, PUT replaces guarded
// by the expected version stamp, DELETE removes.
func (h *NotesHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	noteID := strings.TrimPrefix(r.URL.Path, "/api/v1/notes/")
	if noteID == "" || strings.Contains(noteID, "/") {
		writeError(w, http.StatusNotFound, "not found", "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, userID, noteID)
	case http.MethodPut:
		h.handleUpdate(w, r, userID, noteID)
	case http.MethodDelete:
		h.handleDelete(w, r, userID, noteID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

func (h *NotesHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req api.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode create request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn("Create request failed validation", "error", err)
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	note := &storage.Note{
		ID:         req.ID,
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	}

	created, err := h.storage.CreateNote(r.Context(), note)
	if err != nil {
		if errors.Is(err, storage.ErrNoteAlreadyExists) {
			h.writeConflict(w, r, userID, req.ID)
			return
		}
		h.logger.Error("Failed to create note", "error", err, "note_id", req.ID)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	h.logger.Info("Note created", "user_id", userID, "note_id", created.ID)
	writeJSON(w, http.StatusCreated, toAPINote(created))
}

func (h *NotesHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	var since time.Time
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		millis, err := strconv.ParseInt(sinceStr, 10, 64)
		if err != nil {
			h.logger.Warn("Invalid since parameter", "since", sinceStr, "error", err)
			writeError(w, http.StatusBadRequest, "invalid since parameter", "")
			return
		}
		since = time.UnixMilli(millis).UTC()
	}

	notes, err := h.storage.ListNotesSince(r.Context(), userID, since)
	if err != nil {
		h.logger.Error("Failed to list notes", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	resp := api.ListNotesResponse{Notes: make([]api.Note, 0, len(notes))}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toAPINote(n))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *NotesHandler) handleGet(w http.ResponseWriter, r *http.Request, userID, noteID string) {
	note, err := h.storage.GetNote(r.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "note not found", "")
			return
		}
		h.logger.Error("Failed to get note", "error", err, "note_id", noteID)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	writeJSON(w, http.StatusOK, toAPINote(note))
}

func (h *NotesHandler) handleUpdate(w http.ResponseWriter, r *http.Request, userID, noteID string) {
	var req api.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode update request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn("Update request failed validation", "error", err)
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	note := &storage.Note{
		ID:         noteID,
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	}

	updated, err := h.storage.UpdateNote(r.Context(), note, req.ExpectedVersion)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrVersionConflict):
			h.logger.Info("Version conflict on update",
				"user_id", userID,
				"note_id", noteID,
				"expected_version", req.ExpectedVersion)
			h.writeConflict(w, r, userID, noteID)
		case errors.Is(err, storage.ErrNoteNotFound):
			writeError(w, http.StatusNotFound, "note not found", "")
		default:
			h.logger.Error("Failed to update note", "error", err, "note_id", noteID)
			writeError(w, http.StatusInternalServerError, "internal server error", "")
		}
		return
	}

	h.logger.Info("Note updated", "user_id", userID, "note_id", noteID, "version", updated.Version)
	writeJSON(w, http.StatusOK, toAPINote(updated))
}

func (h *NotesHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID, noteID string) {
	err := h.storage.DeleteNote(r.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "note not found", "")
			return
		}
		h.logger.Error("Failed to delete note", "error", err, "note_id", noteID)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	h.logger.Info("Note deleted", "user_id", userID, "note_id", noteID)
	w.WriteHeader(http.StatusNoContent)
}

// writeConflict responds with 409 and the server's current record, so the
// client can resolve without another round trip.
func (h *NotesHandler) writeConflict(w http.ResponseWriter, r *http.Request, userID, noteID string) {
	current, err := h.storage.GetNote(r.Context(), userID, noteID)
	if err != nil {
		h.logger.Error("Failed to load current record for conflict response",
			"error", err, "note_id", noteID)
		writeError(w, http.StatusConflict, "version conflict", "")
		return
	}

	writeJSON(w, http.StatusConflict, api.ConflictResponse{
		Error:       "version conflict",
		CurrentNote: toAPINote(current),
	})
}

func toAPINote(n *storage.Note) api.Note {
	return api.Note{
		ID:         n.ID,
		UserID:     n.UserID,
		Title:      n.Title,
		Content:    n.Content,
		Summary:    n.Summary,
		CategoryID: n.CategoryID,
		Tags:       n.Tags,
		Version:    n.Version,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, errMsg, detail string) {
	writeJSON(w, status, api.ErrorResponse{Error: errMsg, Message: detail})
}
