package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studylog/studylog/internal/auth"
	"github.com/studylog/studylog/internal/handler/dto"
	"github.com/studylog/studylog/internal/service"
)

// NoteHandler handles the flat note endpoints.
type NoteHandler struct {
	svc    *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, logger: logger}
}

// List handles GET /notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	notes, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// Search handles GET /notes/search?query=.
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	query := r.URL.Query().Get("query")

	notes, err := h.svc.Search(r.Context(), ownerID, query)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// Get handles GET /notes/{noteID}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "noteID")

	note, err := h.svc.Get(r.Context(), ownerID, noteID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// Update handles PUT /notes/{noteID}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "noteID")

	var req dto.UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.svc.Update(r.Context(), ownerID, noteID, service.UpdateNoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("note_updated", "note_id", note.ID)

	writeJSON(w, http.StatusOK, note)
}

// Delete handles DELETE /notes/{noteID}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	noteID := chi.URLParam(r, "noteID")

	if err := h.svc.Delete(r.Context(), ownerID, noteID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("note_deleted", "note_id", noteID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "note deleted successfully"})
}
