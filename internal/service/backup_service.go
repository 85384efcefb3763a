package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"adventcalendar/internal/database"
	"adventcalendar/internal/logger"
	"adventcalendar/internal/models"
	"adventcalendar/internal/repository"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version       string               `json:"version"`
	ExportedAt    time.Time            `json:"exported_at"`
	DatabaseType  string               `json:"database_type"`
	Players       []PlayerBackup       `json:"players"`
	Notifications []NotificationBackup `json:"notifications"`
}

// PlayerBackup is one player with its committed progress
type PlayerBackup struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Progress  *ProgressBackup `json:"progress,omitempty"`
}

// ProgressBackup mirrors models.PlayerProgress with JSON-friendly keys
type ProgressBackup struct {
	CurrentLevel    int              `json:"current_level"`
	UnlockedLevels  []int            `json:"unlocked_levels"`
	FailedAttempts  int              `json:"failed_attempts"`
	Locked          map[int]bool     `json:"locked"`
	SolvedPuzzles   map[int][]string `json:"solved_puzzles"`
	CompletedLevels []int            `json:"completed_levels"`
	Fragments       map[int][]string `json:"fragments"`
}

// NotificationBackup is a sent level-open email
type NotificationBackup struct {
	LevelID int       `json:"level_id"`
	SentTo  string    `json:"sent_to"`
	SentAt  time.Time `json:"sent_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db       *database.DB
	players  *repository.PlayerRepository
	progress *repository.ProgressRepository
	notes    *repository.NotificationRepository
	log      *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, log *logger.Logger) *BackupService {
	if log == nil {
		log = logger.Nop()
	}
	return &BackupService{
		db:       db,
		players:  repository.NewPlayerRepository(db),
		progress: repository.NewProgressRepository(db),
		notes:    repository.NewNotificationRepository(db),
		log:      log,
	}
}

// backupTables lists every table holding player data, children first
var backupTables = []string{
	"fragments",
	"completed_levels",
	"solved_puzzles",
	"level_locks",
	"unlocked_levels",
	"player_progress",
	"players",
	"level_notifications",
}

// Export writes a JSON backup of every player and notification to w
func (s *BackupService) Export(w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	players, err := s.players.ListPlayers()
	if err != nil {
		return nil, fmt.Errorf("failed to export players: %w", err)
	}
	for _, p := range players {
		entry := PlayerBackup{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
		saved, err := s.progress.LoadProgress(p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export progress for %s: %w", p.ID, err)
		}
		if saved != nil {
			entry.Progress = progressToBackup(saved)
		}
		backup.Players = append(backup.Players, entry)
	}

	sent, err := s.notes.ListSent()
	if err != nil {
		return nil, fmt.Errorf("failed to export notifications: %w", err)
	}
	for _, n := range sent {
		backup.Notifications = append(backup.Notifications, NotificationBackup{LevelID: n.LevelID, SentTo: n.SentTo, SentAt: n.SentAt})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("database exported", "players", len(backup.Players), "notifications", len(backup.Notifications))
	return backup, nil
}

// Import restores a backup read from r. With clear set, existing player
// data is removed first; otherwise conflicting ids fail the import.
func (s *BackupService) Import(r io.Reader, clear bool) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	s.log.Info("importing backup", "version", backup.Version, "exported_at", backup.ExportedAt)

	if clear {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	for _, p := range backup.Players {
		query := "INSERT INTO players (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)"
		if _, err := s.db.Exec(query, p.ID, p.Name, p.CreatedAt, p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to import player %s: %w", p.ID, err)
		}
		if p.Progress == nil {
			continue
		}
		if err := s.progress.SaveProgress(progressFromBackup(p.ID, p.Progress)); err != nil {
			return nil, fmt.Errorf("failed to import progress for %s: %w", p.ID, err)
		}
	}

	for _, n := range backup.Notifications {
		query := "INSERT INTO level_notifications (level_id, sent_to, sent_at) VALUES (?, ?, ?)"
		if _, err := s.db.Exec(query, n.LevelID, n.SentTo, n.SentAt); err != nil {
			return nil, fmt.Errorf("failed to import notification for level %d: %w", n.LevelID, err)
		}
	}

	s.log.Info("database import completed", "players", len(backup.Players), "notifications", len(backup.Notifications))
	return &backup, nil
}

// ClearAll deletes every player, progress row and notification
func (s *BackupService) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range backupTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func progressToBackup(p *models.PlayerProgress) *ProgressBackup {
	return &ProgressBackup{
		CurrentLevel:    p.Progress.CurrentLevel,
		UnlockedLevels:  p.Progress.UnlockedLevels,
		FailedAttempts:  p.Progress.FailedAttempts,
		Locked:          p.Progress.Locked,
		SolvedPuzzles:   p.Progress.SolvedPuzzles,
		CompletedLevels: p.Progress.CompletedLevels,
		Fragments:       p.Fragments,
	}
}

func progressFromBackup(playerID string, b *ProgressBackup) *models.PlayerProgress {
	p := &models.PlayerProgress{
		PlayerID: playerID,
		Progress: models.ProgressState{
			CurrentLevel:    b.CurrentLevel,
			UnlockedLevels:  b.UnlockedLevels,
			FailedAttempts:  b.FailedAttempts,
			Locked:          b.Locked,
			SolvedPuzzles:   b.SolvedPuzzles,
			CompletedLevels: b.CompletedLevels,
		},
		Fragments: b.Fragments,
	}
	if p.Progress.Locked == nil {
		p.Progress.Locked = map[int]bool{}
	}
	return p
}
