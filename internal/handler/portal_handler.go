package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/havenhouse/hms/internal/middleware"
	"github.com/havenhouse/hms/internal/service"
)

// PortalHandler serves the resident self-service portal.
type PortalHandler struct {
	svc         service.PortalService
	tokenExpiry time.Duration
	logger      *slog.Logger
}

func NewPortalHandler(svc service.PortalService, tokenExpiry time.Duration, logger *slog.Logger) *PortalHandler {
	return &PortalHandler{svc: svc, tokenExpiry: tokenExpiry, logger: logger}
}

// Login handles POST /portal/login
func (h *PortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	token, resident, err := h.svc.Login(r.Context(), req.Phone)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ResidentCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"resident": resident,
	})
}

// Logout handles DELETE /portal/login
func (h *PortalHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ResidentCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /portal/me
func (h *PortalHandler) Me(w http.ResponseWriter, r *http.Request) {
	residentID, ok := middleware.ResidentIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.svc.Profile(r.Context(), residentID)
	if err != nil {
		h.logger.Error("Portal profile failed", slog.String("resident_id", residentID), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
