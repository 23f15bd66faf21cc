package store

import (
	"database/sql"
	"fmt"

	"github.com/sjoberg/arbetstid/internal/model"
)

// NotificationStore keeps the UI-level notification history.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Append adds a history record.
func (s *NotificationStore) Append(rec model.NotificationRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO notifications (id, message, created_at, read) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Message, rec.CreatedAt.UTC(), boolToInt(rec.Read),
	)
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

// List returns all records, newest first.
func (s *NotificationStore) List() ([]model.NotificationRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, message, created_at, read FROM notifications ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var recs []model.NotificationRecord
	for rows.Next() {
		var rec model.NotificationRecord
		var readInt int
		if err := rows.Scan(&rec.ID, &rec.Message, &rec.CreatedAt, &readInt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		rec.Read = readInt != 0
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// MarkRead marks a single record as read.
func (s *NotificationStore) MarkRead(id string) error {
	_, err := s.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// ClearAll deletes the whole history.
func (s *NotificationStore) ClearAll() error {
	_, err := s.db.Exec(`DELETE FROM notifications`)
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread records.
func (s *NotificationStore) UnreadCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE read = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
