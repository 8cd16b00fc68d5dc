package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/service"
)

type ResidentHandler struct {
	svc    service.ResidentService
	logger *slog.Logger
}

func NewResidentHandler(svc service.ResidentService, logger *slog.Logger) *ResidentHandler {
	return &ResidentHandler{svc: svc, logger: logger}
}

// List handles GET /api/residents
func (h *ResidentHandler) List(w http.ResponseWriter, r *http.Request) {
	residents, err := h.svc.GetAll(r.Context())
	if err != nil {
		h.logger.Error("List residents failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, residents)
}

// Get handles GET /api/residents/{id}
func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Update handles PATCH /api/residents/{id}
func (h *ResidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var res model.Resident
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res.ID = id

	if err := h.svc.Update(r.Context(), &res); err != nil {
		h.logger.Error("Update resident failed", slog.String("id", id), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// MoveOut handles POST /api/residents/{id}/moveout
func (h *ResidentHandler) MoveOut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.MoveOut(r.Context(), id); err != nil {
		h.logger.Error("MoveOut failed", slog.String("id", id), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
