package reminder

import (
	"time"

	"github.com/sjoberg/arbetstid/internal/model"
)

// ReportDay reports whether t falls on the weekly time-report days.
// Construction crews close out their week on Friday or Saturday, so the
// weekly rule is pinned to those two days and the daily rule covers the rest.
func ReportDay(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// Due returns the rule kinds due at the wall-clock minute of now. The match
// window is the (hour, minute) pair: seconds are ignored so a tick landing
// anywhere inside the target minute still matches. Rules with an unparsable
// time never match.
func Due(s model.ReminderSettings, now time.Time) []model.ReminderKind {
	hour, minute, err := model.ParseTimeOfDay(s.Time)
	if err != nil {
		return nil
	}
	if now.Hour() != hour || now.Minute() != minute {
		return nil
	}

	var due []model.ReminderKind
	if s.Daily && !ReportDay(now) {
		due = append(due, model.KindDaily)
	}
	if s.Weekly && ReportDay(now) {
		due = append(due, model.KindWeekly)
	}
	return due
}
