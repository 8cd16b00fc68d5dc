package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/havenhouse/hms/internal/middleware"
	"github.com/havenhouse/hms/internal/service"
)

type AuthHandler struct {
	authSvc     service.AuthService
	tokenExpiry time.Duration
	logger      *slog.Logger
}

func NewAuthHandler(authSvc service.AuthService, tokenExpiry time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, tokenExpiry: tokenExpiry, logger: logger}
}

// Login handles POST /staff/auth
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	user, token, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.StaffCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Logout handles DELETE /staff/auth, clearing the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.StaffCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
