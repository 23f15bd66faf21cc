package notify

import "github.com/sjoberg/arbetstid/internal/model"

// Fixed notification texts, not user-editable.
const (
	TitleReminder = "Påminnelse från Arbetstid"

	BodyDaily   = "Glöm inte att registrera dina timmar för idag!"
	BodyWeekly  = "Glöm inte att skicka in din tidrapport för veckan!"
	BodyDefault = "Påminnelse från Arbetstid"

	// BodyEnabled confirms to the user that notifications just went live.
	BodyEnabled = "Notifikationer är nu aktiverade."

	TagDaily  = "hours-reminder"
	TagWeekly = "time-report-reminder"

	IconPath = "/icons/icon-192x192.png"
)

// MessageFor resolves the fixed title, body, and coalescing tag for a rule kind.
func MessageFor(kind model.ReminderKind) (title, body, tag string) {
	switch kind {
	case model.KindDaily:
		return TitleReminder, BodyDaily, TagDaily
	case model.KindWeekly:
		return TitleReminder, BodyWeekly, TagWeekly
	default:
		return TitleReminder, BodyDefault, "arbetstid"
	}
}
