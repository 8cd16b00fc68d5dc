package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/havenhouse/hms/internal/middleware"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/service"
)

type IncidentHandler struct {
	svc    service.IncidentService
	logger *slog.Logger
}

func NewIncidentHandler(svc service.IncidentService, logger *slog.Logger) *IncidentHandler {
	return &IncidentHandler{svc: svc, logger: logger}
}

// List handles GET /api/incidents
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.svc.GetAll(r.Context())
	if err != nil {
		h.logger.Error("List incidents failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, incidents)
}

// Record handles POST /api/incidents
func (h *IncidentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var inc model.Incident
	if err := json.NewDecoder(r.Body).Decode(&inc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if inc.StaffMember == "" {
		inc.StaffMember, _ = middleware.StaffEmailFromContext(r.Context())
	}

	if err := h.svc.Record(r.Context(), &inc); err != nil {
		h.logger.Error("Record incident failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, inc)
}
