package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/havenhouse/hms/internal/middleware"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/service"
)

type ApplicationHandler struct {
	svc    service.ApplicationService
	logger *slog.Logger
}

func NewApplicationHandler(svc service.ApplicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, logger: logger}
}

// List handles GET /api/applications with an optional ?status= filter.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.GetAll(r.Context())
	if err != nil {
		h.logger.Error("List applications failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]model.Application, 0, len(apps))
		for _, a := range apps {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		apps = filtered
	}

	respondJSON(w, http.StatusOK, apps)
}

// Review handles PATCH /api/applications/{id}
func (h *ApplicationHandler) Review(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	reviewer, _ := middleware.StaffEmailFromContext(r.Context())
	if err := h.svc.Review(r.Context(), id, req.Status, reviewer, req.Notes); err != nil {
		h.logger.Error("Review failed", slog.String("id", id), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

// Convert handles POST /api/applications/{id}/convert
func (h *ApplicationHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reviewer, _ := middleware.StaffEmailFromContext(r.Context())
	res, err := h.svc.ConvertToResident(r.Context(), id, reviewer)
	if err != nil {
		h.logger.Error("Convert failed", slog.String("id", id), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, res)
}
