package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/studylog/studylog/internal/auth"
	"github.com/studylog/studylog/internal/handler/dto"
	"github.com/studylog/studylog/internal/service"
)

// TokenRevoker adds a token id to the revocation list.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AuthHandler handles registration, login and identity endpoints.
type AuthHandler struct {
	svc      *service.AuthService
	revoker  TokenRevoker
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, revoker TokenRevoker, tokenTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		revoker:  revoker,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register handles POST /auth/register (alias /auth/sign-up).
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusCreated, dto.TokenResponse{
		Message: "user created successfully",
		Token:   token,
	})
}

// Login handles POST /auth/login (alias /auth/sign-in).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		Message: "login successful",
		Token:   token,
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	user, err := h.svc.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout handles POST /auth/logout. The presented token is revoked; it will
// be rejected by the guard from the next request on.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	if err := h.revoker.RevokeToken(r.Context(), identity.TokenID, h.tokenTTL); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("token_revoked", "user_id", identity.UserID)

	w.WriteHeader(http.StatusNoContent)
}
