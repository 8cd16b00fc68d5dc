package handler

import (
	"log/slog"
	"net/http"

	"github.com/havenhouse/hms/internal/service"
)

type AnalyticsHandler struct {
	svc    service.AnalyticsService
	logger *slog.Logger
}

func NewAnalyticsHandler(svc service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// Report handles GET /api/analytics?timeframe=6m
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context(), r.URL.Query().Get("timeframe"))
	if err != nil {
		h.logger.Error("Analytics report failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Dashboard handles GET /api/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("Dashboard stats failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
