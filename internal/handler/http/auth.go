package http

import (
	"log/slog"
	"net/http"

	"github.com/jenfranx30/savemate-backend/internal/service"
	"github.com/jenfranx30/savemate-backend/pkg/httputil"
)

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Username        string `json:"username" validate:"required,min=3,max=50,username"`
	Password        string `json:"password" validate:"required"`
	FullName        string `json:"full_name" validate:"required,min=2,max=100"`
	IsBusinessOwner bool   `json:"is_business_owner"`
}

// LoginRequest is the JSON request body for user login.
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required,max=255"`
	Password        string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the JSON request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// --- Handlers ---

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		FullName:        req.FullName,
		IsBusinessOwner: req.IsBusinessOwner,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, sess)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess, err := h.service.Login(r.Context(), service.LoginInput{
		Identifier: req.EmailOrUsername,
		Password:   req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, sess)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, tokens)
}

// Logout handles POST /api/v1/auth/logout. Tokens are not stored server-side,
// so the client discards them.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "user logged out", slog.String("user_id", principalFrom(r).ID))
	httputil.WriteData(w, http.StatusOK, map[string]string{
		"message": "logged out; discard your access and refresh tokens",
	})
}
