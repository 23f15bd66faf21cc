package handler

import (
	"log/slog"
	"net/http"

	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/store"
)

type NotificationHandler struct {
	history *store.NotificationStore
	logger  *slog.Logger
}

func NewNotificationHandler(history *store.NotificationStore, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{history: history, logger: logger}
}

type notificationList struct {
	Notifications []model.NotificationRecord `json:"notifications"`
	Unread        int                        `json:"unread"`
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.history.List()
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list notifications"})
		return
	}
	unread, err := h.history.UnreadCount()
	if err != nil {
		h.logger.Error("count unread notifications", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list notifications"})
		return
	}
	if recs == nil {
		recs = []model.NotificationRecord{}
	}
	writeJSON(w, http.StatusOK, notificationList{Notifications: recs, Unread: unread})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.history.MarkRead(id); err != nil {
		h.logger.Error("mark notification read", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update notification"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles POST /api/notifications/clear
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.history.ClearAll(); err != nil {
		h.logger.Error("clear notifications", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear notifications"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
