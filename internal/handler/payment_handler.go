package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/service"
)

type PaymentHandler struct {
	svc    service.PaymentService
	logger *slog.Logger
}

func NewPaymentHandler(svc service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

// List handles GET /api/payments. Each payment carries its display status
// so overdue shows without ever being written back.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.GetAll(r.Context())
	if err != nil {
		h.logger.Error("List payments failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

// Record handles POST /api/payments
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var p model.Payment
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.svc.Record(r.Context(), &p); err != nil {
		h.logger.Error("Record payment failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// Update handles PATCH /api/payments/{id}. Marking paid stamps the paid
// date and method; other statuses pass straight through.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status   string     `json:"status"`
		PaidDate *time.Time `json:"paid_date"`
		Method   string     `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	var err error
	if req.Status == model.PaymentPaid {
		err = h.svc.MarkPaid(r.Context(), id, req.PaidDate, req.Method)
	} else {
		err = h.svc.UpdateStatus(r.Context(), id, req.Status)
	}
	if err != nil {
		h.logger.Error("Update payment failed", slog.String("id", id), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}
