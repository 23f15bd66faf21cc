package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/reminder"
	"github.com/sjoberg/arbetstid/internal/store"
)

type SettingsHandler struct {
	prefs  *store.PrefStore
	worker *reminder.Worker
	userID string
	logger *slog.Logger
}

func NewSettingsHandler(prefs *store.PrefStore, worker *reminder.Worker, userID string, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{prefs: prefs, worker: worker, userID: userID, logger: logger}
}

// GetReminders handles GET /api/settings/reminders
func (h *SettingsHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	settings, err := h.prefs.ReminderSettings()
	if err != nil {
		h.logger.Error("read reminder settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateReminders handles PUT /api/settings/reminders. The save replaces the
// stored record wholesale and pushes one schedule update per rule kind to the
// delivery worker.
func (h *SettingsHandler) UpdateReminders(w http.ResponseWriter, r *http.Request) {
	var settings model.ReminderSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if _, _, err := model.ParseTimeOfDay(settings.Time); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "time must be HH:MM"})
		return
	}

	if err := h.prefs.SetReminderSettings(settings); err != nil {
		h.logger.Error("save reminder settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
		return
	}

	for kind, enabled := range map[model.ReminderKind]bool{
		model.KindDaily:  settings.Daily,
		model.KindWeekly: settings.Weekly,
	} {
		h.worker.Schedule(model.ScheduleUpdate{
			Type:    model.MsgScheduleReminder,
			Kind:    kind,
			Time:    settings.Time,
			Enabled: enabled,
			UserID:  h.userID,
		})
	}

	writeJSON(w, http.StatusOK, settings)
}

// GetInstaller handles GET /api/settings/installer
func (h *SettingsHandler) GetInstaller(w http.ResponseWriter, r *http.Request) {
	closed, err := h.prefs.InstallerClosed()
	if err != nil {
		h.logger.Error("read installer flag", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read settings"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"closed": closed})
}

// CloseInstaller handles POST /api/settings/installer/close
func (h *SettingsHandler) CloseInstaller(w http.ResponseWriter, r *http.Request) {
	if err := h.prefs.SetInstallerClosed(true); err != nil {
		h.logger.Error("save installer flag", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
