package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sjoberg/arbetstid/internal/database"
	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/notify"
	"github.com/sjoberg/arbetstid/internal/reminder"
	"github.com/sjoberg/arbetstid/internal/store"
	ws "github.com/sjoberg/arbetstid/internal/websocket"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupSettingsHandler(t *testing.T) (*SettingsHandler, *store.PrefStore) {
	t.Helper()
	db := setupTestDB(t)
	logger := slog.Default()

	prefs := store.NewPrefStore(db)
	markers := store.NewMarkerStore(db)
	history := store.NewNotificationStore(db)
	subs := store.NewPushStore(db)
	hub := ws.NewHub(logger)
	gate := notify.NewGate(nil, subs, prefs)
	dispatcher := reminder.NewDispatcher(nil, subs, history, hub, "", logger)
	worker := reminder.NewWorker(prefs, markers, gate, dispatcher, logger)

	return NewSettingsHandler(prefs, worker, "test-user", logger), prefs
}

func TestGetReminders(t *testing.T) {
	h, _ := setupSettingsHandler(t)

	req := httptest.NewRequest("GET", "/api/settings/reminders", nil)
	rec := httptest.NewRecorder()
	h.GetReminders(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got model.ReminderSettings
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Daily || got.Weekly || got.Time != "17:00" {
		t.Errorf("defaults = %+v", got)
	}
}

func TestUpdateReminders(t *testing.T) {
	h, prefs := setupSettingsHandler(t)

	body := `{"daily":true,"weekly":false,"time":"08:30"}`
	req := httptest.NewRequest("PUT", "/api/settings/reminders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateReminders(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	settings, err := prefs.ReminderSettings()
	if err != nil {
		t.Fatalf("reminder settings: %v", err)
	}
	if !settings.Daily || settings.Weekly || settings.Time != "08:30" {
		t.Errorf("persisted settings = %+v", settings)
	}
}

func TestUpdateRemindersRejectsBadTime(t *testing.T) {
	h, prefs := setupSettingsHandler(t)

	body := `{"daily":true,"weekly":false,"time":"25:00"}`
	req := httptest.NewRequest("PUT", "/api/settings/reminders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateReminders(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	settings, err := prefs.ReminderSettings()
	if err != nil {
		t.Fatalf("reminder settings: %v", err)
	}
	if settings.Daily {
		t.Error("rejected update must not be persisted")
	}
}

func TestUpdateRemindersRejectsBadJSON(t *testing.T) {
	h, _ := setupSettingsHandler(t)

	req := httptest.NewRequest("PUT", "/api/settings/reminders", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.UpdateReminders(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestInstallerFlag(t *testing.T) {
	h, _ := setupSettingsHandler(t)

	req := httptest.NewRequest("GET", "/api/settings/installer", nil)
	rec := httptest.NewRecorder()
	h.GetInstaller(rec, req)

	var got map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["closed"] {
		t.Error("installer should be open by default")
	}

	req = httptest.NewRequest("POST", "/api/settings/installer/close", nil)
	rec = httptest.NewRecorder()
	h.CloseInstaller(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("close status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest("GET", "/api/settings/installer", nil)
	rec = httptest.NewRecorder()
	h.GetInstaller(rec, req)

	got = nil
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got["closed"] {
		t.Error("installer should be closed after dismissal")
	}
}
