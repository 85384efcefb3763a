package repository

import (
	"fmt"
	"time"

	"adventcalendar/internal/database"
	"adventcalendar/internal/models"
)

// NotificationRepository remembers which "level open" emails were sent
type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// HasSent reports whether the notification for levelID was already sent
func (r *NotificationRepository) HasSent(levelID int) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM level_notifications WHERE level_id = ?", levelID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	return count > 0, nil
}

// RecordSent stores a sent notification. The unique level_id column rejects duplicates.
func (r *NotificationRepository) RecordSent(levelID int, sentTo string) (*models.LevelNotification, error) {
	id, err := r.db.ExecReturningID("INSERT INTO level_notifications (level_id, sent_to) VALUES (?, ?)", levelID, sentTo)
	if err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}
	return &models.LevelNotification{ID: id, LevelID: levelID, SentTo: sentTo, SentAt: time.Now()}, nil
}

// ListSent returns all sent notifications in level order
func (r *NotificationRepository) ListSent() ([]models.LevelNotification, error) {
	rows, err := r.db.Query("SELECT id, level_id, sent_to, sent_at FROM level_notifications ORDER BY level_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.LevelNotification
	for rows.Next() {
		var n models.LevelNotification
		if err := rows.Scan(&n.ID, &n.LevelID, &n.SentTo, &n.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
