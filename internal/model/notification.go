package model

import "time"

// PermissionState mirrors the platform's notification consent state. It is
// re-derived live before every delivery attempt, never cached as the source
// of truth.
type PermissionState string

const (
	PermissionUnsupported PermissionState = "unsupported"
	PermissionUnasked     PermissionState = "unasked"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
)

// NotificationRecord is a UI-level history entry, created each time a
// reminder fires. Listed newest first; cleared in bulk by the user.
type NotificationRecord struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// FiredMarker prevents a rule from firing twice within the same calendar day.
type FiredMarker struct {
	Kind    ReminderKind `json:"rule_kind"`
	Day     string       `json:"day"` // DayFormat
	FiredAt time.Time    `json:"fired_at"`
}
