package repository

import (
	"database/sql"
	"fmt"
	"time"

	"adventcalendar/internal/database"
	"adventcalendar/internal/models"
)

// PlayerRepository handles database operations for players
type PlayerRepository struct {
	db *database.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer inserts a new anonymous player
func (r *PlayerRepository) CreatePlayer(id, name string) (*models.Player, error) {
	query := "INSERT INTO players (id, name) VALUES (?, ?)"
	if _, err := r.db.Exec(query, id, name); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	now := time.Now()
	return &models.Player{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// GetPlayer retrieves a player by ID. It returns nil when the player does not exist.
func (r *PlayerRepository) GetPlayer(id string) (*models.Player, error) {
	query := "SELECT id, name, created_at, updated_at FROM players WHERE id = ?"
	player := &models.Player{}
	err := r.db.QueryRow(query, id).Scan(
		&player.ID,
		&player.Name,
		&player.CreatedAt,
		&player.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// ListPlayers returns every player, oldest first
func (r *PlayerRepository) ListPlayers() ([]models.Player, error) {
	rows, err := r.db.Query("SELECT id, name, created_at, updated_at FROM players ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// RenamePlayer updates the display name
func (r *PlayerRepository) RenamePlayer(id, name string) error {
	query := "UPDATE players SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, name, id); err != nil {
		return fmt.Errorf("failed to rename player: %w", err)
	}
	return nil
}
