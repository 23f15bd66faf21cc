package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/store"
)

func setupNotificationHandler(t *testing.T) (*NotificationHandler, *store.NotificationStore) {
	t.Helper()
	ns := store.NewNotificationStore(setupTestDB(t))
	return NewNotificationHandler(ns, slog.Default()), ns
}

func TestListNotificationsEmpty(t *testing.T) {
	h, _ := setupNotificationHandler(t)

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got notificationList
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Notifications == nil {
		t.Error("expected empty array, not null")
	}
	if got.Unread != 0 {
		t.Errorf("unread = %d, want 0", got.Unread)
	}
}

func TestListNotifications(t *testing.T) {
	h, ns := setupNotificationHandler(t)

	now := time.Now().UTC()
	if err := ns.Append(model.NotificationRecord{ID: "a", Message: "första", CreatedAt: now}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ns.Append(model.NotificationRecord{ID: "b", Message: "andra", CreatedAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var got notificationList
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Notifications) != 2 {
		t.Fatalf("records = %d, want 2", len(got.Notifications))
	}
	if got.Notifications[0].ID != "b" {
		t.Errorf("first record = %s, want newest (b)", got.Notifications[0].ID)
	}
	if got.Unread != 2 {
		t.Errorf("unread = %d, want 2", got.Unread)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	h, ns := setupNotificationHandler(t)

	if err := ns.Append(model.NotificationRecord{ID: "a", Message: "m", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/notifications/a/read", nil)
	req.SetPathValue("id", "a")
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	unread, err := ns.UnreadCount()
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestClearNotifications(t *testing.T) {
	h, ns := setupNotificationHandler(t)

	if err := ns.Append(model.NotificationRecord{ID: "a", Message: "m", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/notifications/clear", nil)
	rec := httptest.NewRecorder()
	h.Clear(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	recs, err := ns.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("records after clear = %d, want 0", len(recs))
	}
}
