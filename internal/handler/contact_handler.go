package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/havenhouse/hms/internal/service"
)

// ContactHandler serves the public application intake form.
type ContactHandler struct {
	svc    service.ApplicationService
	logger *slog.Logger
}

func NewContactHandler(svc service.ApplicationService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, logger: logger}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("Invalid contact payload", slog.String("error", err.Error()))
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	app, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"applicationId": app.ID})
}
