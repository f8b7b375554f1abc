package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/service"
)

type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
}

func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *model.User    `json:"user"`
	Profile   *model.Profile `json:"profile"`
}

// Login checks credentials and returns a session token, also set as the
// auth cookie for browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode login")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			slog.Warn("password login failed", "error", err, "email", req.Email)
			writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
			return
		}
		writeServiceError(w, r, err, "log in")
		return
	}

	profile, err := h.profileService.ByUserID(user.ID)
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}

	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeServiceError(w, r, err, "generate token")
		return
	}

	h.authService.SetJWTCookie(w, token, expiresAt)

	slog.Info("user logged in with password", "user_id", user.ID)
	user.PasswordHash = nil
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Profile:   profile,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
