package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/notify"
	"github.com/sjoberg/arbetstid/internal/store"
)

type PushHandler struct {
	pushStore *store.PushStore
	service   *notify.Service
	gate      *notify.Gate
	userID    string
	logger    *slog.Logger
}

func NewPushHandler(ps *store.PushStore, svc *notify.Service, gate *notify.Gate, userID string, logger *slog.Logger) *PushHandler {
	return &PushHandler{pushStore: ps, service: svc, gate: gate, userID: userID, logger: logger}
}

type subscribeRequest struct {
	Endpoint   string `json:"endpoint"`
	P256dh     string `json:"p256dh"`
	Auth       string `json:"auth"`
	DeviceName string `json:"device_name"`
}

// Subscribe handles POST /api/push/subscribe. Registering the first
// subscription is the unasked→granted transition, which is confirmed with
// exactly one notification so the user sees the feature is live.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Endpoint == "" || req.P256dh == "" || req.Auth == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "endpoint, p256dh, and auth are required"})
		return
	}

	before, err := h.gate.Query()
	if err != nil {
		h.logger.Error("query permission", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save subscription"})
		return
	}
	if before == model.PermissionUnsupported {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "push notifications are not configured"})
		return
	}

	sub, err := h.pushStore.CreateSubscription(h.userID, req.Endpoint, req.P256dh, req.Auth, req.DeviceName)
	if err != nil {
		h.logger.Error("create push subscription", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save subscription"})
		return
	}

	if err := h.gate.ClearDenial(); err != nil {
		h.logger.Error("clear permission denial", "error", err)
	}

	if before != model.PermissionGranted {
		confirmation := notify.Payload{
			Title: notify.TitleReminder,
			Body:  notify.BodyEnabled,
			Icon:  notify.IconPath,
			Tag:   "permission-granted",
		}
		if err := h.service.Send(sub, confirmation); err != nil {
			// Confirmation is feedback only; the subscription itself stands.
			h.logger.Error("send confirmation push", "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, sub)
}

// Deny handles POST /api/push/deny. The client reports a declined prompt;
// the server records it so the UI can stop re-offering automatically.
func (h *PushHandler) Deny(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.RecordDenial(); err != nil {
		h.logger.Error("record permission denial", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record denial"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Permission handles GET /api/push/permission
func (h *PushHandler) Permission(w http.ResponseWriter, r *http.Request) {
	state, err := h.gate.Query()
	if err != nil {
		h.logger.Error("query permission", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to query permission"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"permission": string(state)})
}

// Unsubscribe handles DELETE /api/push/subscriptions/{id}
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.pushStore.DeleteSubscription(id); err != nil {
		h.logger.Error("delete push subscription", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete subscription"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSubscriptions handles GET /api/push/subscriptions
func (h *PushHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.pushStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list subscriptions"})
		return
	}
	if subs == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// GetVAPIDKey handles GET /api/push/vapid-key
func (h *PushHandler) GetVAPIDKey(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "push notifications are not configured"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.service.VAPIDPublicKey()})
}

// TestNotification handles POST /api/push/test
func (h *PushHandler) TestNotification(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "push notifications are not configured"})
		return
	}
	subs, err := h.pushStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list subscriptions"})
		return
	}

	payload := notify.Payload{
		Title: notify.TitleReminder,
		Body:  "Testnotifikation — allt fungerar!",
		Icon:  notify.IconPath,
		Tag:   "test",
	}

	sent := 0
	for _, sub := range subs {
		if err := h.service.Send(&sub, payload); err != nil {
			h.logger.Error("test push send", "error", err)
			continue
		}
		sent++
	}

	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
