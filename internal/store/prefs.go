package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sjoberg/arbetstid/internal/model"
)

// ErrNotFound is returned when a preference key has no stored value.
var ErrNotFound = errors.New("preference not found")

// Preference store keys. Values are JSON-serialized.
const (
	keyReminderSettings = "reminderSettings"
	keyInstallerClosed  = "pwaInstallerClosed"
	keyPermission       = "notificationPermission"
)

// PrefStore is the durable key-value preference store shared by the settings
// surface and the delivery worker. Concurrent writes are last-write-wins;
// both contexts always go through this interface, never an in-memory cache.
type PrefStore struct {
	db *sql.DB
}

func NewPrefStore(db *sql.DB) *PrefStore {
	return &PrefStore{db: db}
}

// Get returns the raw JSON value stored under key, or ErrNotFound.
func (s *PrefStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("preference %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, nil
}

// Set upserts the value stored under key. Last write wins.
func (s *PrefStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

// EnsureDefaults pre-populates required keys so first-tick reads never fail.
// Existing values are left untouched.
func (s *PrefStore) EnsureDefaults() error {
	defaults, err := json.Marshal(model.DefaultReminderSettings())
	if err != nil {
		return fmt.Errorf("marshal default settings: %w", err)
	}
	seed := map[string]string{
		keyReminderSettings: string(defaults),
		keyInstallerClosed:  "false",
	}
	for key, value := range seed {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
			key, value, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("seed preference %q: %w", key, err)
		}
	}
	return nil
}

// ReminderSettings returns the stored reminder rules.
func (s *PrefStore) ReminderSettings() (model.ReminderSettings, error) {
	raw, err := s.Get(keyReminderSettings)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultReminderSettings(), nil
	}
	if err != nil {
		return model.ReminderSettings{}, err
	}
	var settings model.ReminderSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return model.ReminderSettings{}, fmt.Errorf("decode reminder settings: %w", err)
	}
	return settings, nil
}

// SetReminderSettings replaces the stored reminder rules wholesale.
func (s *PrefStore) SetReminderSettings(settings model.ReminderSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode reminder settings: %w", err)
	}
	return s.Set(keyReminderSettings, string(raw))
}

// InstallerClosed reports whether the user dismissed the install prompt.
func (s *PrefStore) InstallerClosed() (bool, error) {
	raw, err := s.Get(keyInstallerClosed)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return raw == "true", nil
}

// SetInstallerClosed records the install prompt dismissal.
func (s *PrefStore) SetInstallerClosed(closed bool) error {
	value := "false"
	if closed {
		value = "true"
	}
	return s.Set(keyInstallerClosed, value)
}

// PermissionDenied reports whether the user has declined the notification
// prompt. This is UI bookkeeping only; the gate re-derives live state.
func (s *PrefStore) PermissionDenied() (bool, error) {
	raw, err := s.Get(keyPermission)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return raw == string(model.PermissionDenied), nil
}

// SetPermissionDenied records or clears a declined notification prompt.
func (s *PrefStore) SetPermissionDenied(denied bool) error {
	state := model.PermissionUnasked
	if denied {
		state = model.PermissionDenied
	}
	return s.Set(keyPermission, string(state))
}
