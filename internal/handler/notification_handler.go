package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/havenhouse/hms/internal/feed"
)

// NotificationHandler exposes the live feed to the dashboard.
type NotificationHandler struct {
	feed   *feed.Feed
	logger *slog.Logger
}

func NewNotificationHandler(f *feed.Feed, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{feed: f, logger: logger}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.feed.Snapshot())
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.feed.MarkAsRead(r.Context(), id); err != nil {
		h.logger.Error("Mark read failed", slog.String("id", id), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.feed.Snapshot())
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.MarkAllAsRead(r.Context()); err != nil {
		h.logger.Error("Mark all read failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.feed.Snapshot())
}

// Delete handles DELETE /api/notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.feed.Delete(r.Context(), id); err != nil {
		h.logger.Error("Delete notification failed", slog.String("id", id), slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.feed.Snapshot())
}
