package models

import "time"

// Player is an anonymous browser session playing the calendar
type Player struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LevelNotification records that a "level open" email was sent
type LevelNotification struct {
	ID      int64
	LevelID int
	SentTo  string
	SentAt  time.Time
}
