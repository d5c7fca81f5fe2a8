package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studylog/studylog/internal/auth"
	"github.com/studylog/studylog/internal/handler/dto"
	"github.com/studylog/studylog/internal/service"
)

// SubjectHandler handles subject endpoints and the note routes nested
// under a subject.
type SubjectHandler struct {
	subjects *service.SubjectService
	notes    *service.NoteService
	logger   *slog.Logger
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService, notes *service.NoteService, logger *slog.Logger) *SubjectHandler {
	return &SubjectHandler{
		subjects: subjects,
		notes:    notes,
		logger:   logger,
	}
}

// Create handles POST /subjects.
func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	var req dto.CreateSubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subject, err := h.subjects.Create(r.Context(), ownerID, service.CreateSubjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("subject_created", "subject_id", subject.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusCreated, subject)
}

// List handles GET /subjects.
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	subjects, err := h.subjects.List(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subjects)
}

// Get handles GET /subjects/{subjectID}.
func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	subjectID := chi.URLParam(r, "subjectID")

	subject, err := h.subjects.Get(r.Context(), ownerID, subjectID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subject)
}

// Update handles PUT /subjects/{subjectID}.
func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	subjectID := chi.URLParam(r, "subjectID")

	var req dto.UpdateSubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subject, err := h.subjects.Update(r.Context(), ownerID, subjectID, service.UpdateSubjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("subject_updated", "subject_id", subject.ID)

	writeJSON(w, http.StatusOK, subject)
}

// Delete handles DELETE /subjects/{subjectID}.
// The subject's notes go with it in the same transaction.
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	subjectID := chi.URLParam(r, "subjectID")

	subject, err := h.subjects.Delete(r.Context(), ownerID, subjectID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("subject_deleted", "subject_id", subject.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusOK, dto.DeletedSubjectResponse{
		Message: "subject and associated notes deleted successfully",
		Subject: subject,
	})
}

// CreateNote handles POST /subjects/{subjectID}/notes.
func (h *SubjectHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	subjectID := chi.URLParam(r, "subjectID")

	var req dto.CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Create(r.Context(), ownerID, subjectID, service.CreateNoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("note_created", "note_id", note.ID, "subject_id", subjectID)

	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /subjects/{subjectID}/notes/{noteID}.
func (h *SubjectHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	subjectID := chi.URLParam(r, "subjectID")
	noteID := chi.URLParam(r, "noteID")

	var req dto.UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.UpdateInSubject(r.Context(), ownerID, subjectID, noteID, service.UpdateNoteInput{
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

// DeleteNote handles DELETE /subjects/{subjectID}/notes/{noteID}.
func (h *SubjectHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	subjectID := chi.URLParam(r, "subjectID")
	noteID := chi.URLParam(r, "noteID")

	if err := h.notes.DeleteInSubject(r.Context(), ownerID, subjectID, noteID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("note_deleted", "note_id", noteID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "note deleted successfully"})
}
