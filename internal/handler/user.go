package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studylog/studylog/internal/auth"
	"github.com/studylog/studylog/internal/service"
)

// UserHandler handles the user directory endpoints.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// List handles GET /users: every user's id and username.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	type entry struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	out := make([]entry, 0, len(users))
	for _, u := range users {
		out = append(out, entry{ID: u.ID, Username: u.Username})
	}

	writeJSON(w, http.StatusOK, out)
}

// ListWithSubjects handles GET /users/subjects: every user with their
// subjects and notes.
func (h *UserHandler) ListWithSubjects(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListWithSubjects(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{userID}. Only the caller's own record is served.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserIDFromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	user, err := h.svc.Get(r.Context(), requesterID, userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
