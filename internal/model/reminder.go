package model

import (
	"errors"
	"strconv"
	"strings"
)

// ReminderKind identifies one of the two reminder rules a user can enable.
type ReminderKind string

const (
	// KindDaily reminds the user to log today's hours. Fires on working days.
	KindDaily ReminderKind = "daily"
	// KindWeekly reminds the user to submit the weekly time report. Fires on
	// Fridays and Saturdays.
	KindWeekly ReminderKind = "weekly"
)

// DayFormat is the calendar-day key used by fired markers.
const DayFormat = "2006-01-02"

// ReminderSettings holds both reminder rules. Saves replace the record
// wholesale; there is at most one active rule per kind.
type ReminderSettings struct {
	Daily  bool   `json:"daily"`
	Weekly bool   `json:"weekly"`
	Time   string `json:"time"` // wall-clock "HH:MM", local timezone
}

// DefaultReminderSettings returns the first-run record: both rules off,
// reminder time 17:00.
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{Time: "17:00"}
}

// MsgScheduleReminder is the single message type the foreground sends to the
// delivery worker. Delivery is fire-and-forget, at-most-once.
const MsgScheduleReminder = "SCHEDULE_REMINDER"

// ScheduleUpdate carries one rule update from the settings surface to the
// delivery worker, which persists it into the preference store.
type ScheduleUpdate struct {
	Type    string       `json:"type"`
	Kind    ReminderKind `json:"reminderType"`
	Time    string       `json:"time"`
	Enabled bool         `json:"enabled"`
	UserID  string       `json:"userId,omitempty"`
}

// ParseTimeOfDay parses an "HH:MM" wall-clock time.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, errors.New("expected HH:MM")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, errors.New("invalid hour")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, errors.New("invalid minute")
	}
	return hour, minute, nil
}
