package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sjoberg/arbetstid/internal/model"
)

// MarkerStore records which (rule kind, calendar day) pairs have already
// fired, so a rule never fires twice within the same day.
type MarkerStore struct {
	db *sql.DB
}

func NewMarkerStore(db *sql.DB) *MarkerStore {
	return &MarkerStore{db: db}
}

// MarkFired records that the rule kind fired on the given day. Recording the
// same pair twice is a no-op.
func (s *MarkerStore) MarkFired(kind model.ReminderKind, day string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO fired_markers (rule_kind, day, fired_at) VALUES (?, ?, ?)`,
		string(kind), day, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark fired %s/%s: %w", kind, day, err)
	}
	return nil
}

// WasFired reports whether the rule kind already fired on the given day.
func (s *MarkerStore) WasFired(kind model.ReminderKind, day string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM fired_markers WHERE rule_kind = ? AND day = ?`,
		string(kind), day,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check fired %s/%s: %w", kind, day, err)
	}
	return count > 0, nil
}

// Prune deletes markers for days strictly before the given day.
func (s *MarkerStore) Prune(before time.Time) error {
	_, err := s.db.Exec(`DELETE FROM fired_markers WHERE day < ?`, before.Format(model.DayFormat))
	if err != nil {
		return fmt.Errorf("prune fired markers: %w", err)
	}
	return nil
}
