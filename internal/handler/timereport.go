package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sjoberg/arbetstid/internal/email"
)

type TimeReportHandler struct {
	relay  *email.Client
	logger *slog.Logger
}

func NewTimeReportHandler(relay *email.Client, logger *slog.Logger) *TimeReportHandler {
	return &TimeReportHandler{relay: relay, logger: logger}
}

type sendReportRequest struct {
	Email   string `json:"email"`
	Content string `json:"content"`
}

// Send handles POST /api/time-reports/send. The report content arrives
// pre-assembled from the client; this endpoint only forwards it to the relay.
func (h *TimeReportHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a valid email is required"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	if !h.relay.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "email relay is not configured"})
		return
	}

	if err := h.relay.SendTimeReport(req.Email, req.Content); err != nil {
		h.logger.Error("send time report", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to send time report"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
