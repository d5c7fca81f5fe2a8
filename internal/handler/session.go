package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studylog/studylog/internal/auth"
	"github.com/studylog/studylog/internal/handler/dto"
	"github.com/studylog/studylog/internal/service"
)

// SessionHandler handles study session endpoints.
type SessionHandler struct {
	svc    *service.SessionService
	logger *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

// List handles GET /sessions with optional from/to/subjectId filters.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	query := r.URL.Query()

	input := service.ListSessionsInput{
		SubjectID: query.Get("subjectId"),
	}

	if from := query.Get("from"); from != "" {
		t, err := dto.ParseTime(from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'from' date")
			return
		}
		input.From = &t
	}
	if to := query.Get("to"); to != "" {
		t, err := dto.ParseTime(to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'to' date")
			return
		}
		input.To = &t
	}

	sessions, err := h.svc.List(r.Context(), ownerID, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	var req dto.CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var startAt, endAt time.Time
	if req.StartAt != "" {
		t, err := dto.ParseTime(req.StartAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid start_at")
			return
		}
		startAt = t
	}
	if req.EndAt != "" {
		t, err := dto.ParseTime(req.EndAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid end_at")
			return
		}
		endAt = t
	}

	session, err := h.svc.Create(r.Context(), ownerID, service.CreateSessionInput{
		SubjectID: req.SubjectID,
		StartAt:   startAt,
		EndAt:     endAt,
		Title:     req.Title,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("session_created",
		"session_id", session.ID,
		"subject_id", session.SubjectID,
		"owner_id", ownerID,
	)

	writeJSON(w, http.StatusCreated, session)
}

// Update handles PUT /sessions/{sessionID}.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	var req dto.UpdateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := service.UpdateSessionInput{
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Notes:     req.Notes,
		Status:    req.Status,
	}

	if req.StartAt != nil {
		t, err := dto.ParseTime(*req.StartAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid start_at")
			return
		}
		input.StartAt = &t
	}
	if req.EndAt != nil {
		t, err := dto.ParseTime(*req.EndAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid end_at")
			return
		}
		input.EndAt = &t
	}

	session, err := h.svc.Update(r.Context(), ownerID, sessionID, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("session_updated", "session_id", session.ID)

	writeJSON(w, http.StatusOK, session)
}

// Delete handles DELETE /sessions/{sessionID}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.svc.Delete(r.Context(), ownerID, sessionID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("session_deleted", "session_id", sessionID)

	w.WriteHeader(http.StatusNoContent)
}
