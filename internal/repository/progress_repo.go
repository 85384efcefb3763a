package repository

import (
	"database/sql"
	"fmt"
	"sort"

	"adventcalendar/internal/database"
	"adventcalendar/internal/models"
)

// ProgressRepository persists the committed progress snapshot of each player
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// LoadProgress returns the stored progress for playerID, or nil if none was saved yet
func (r *ProgressRepository) LoadProgress(playerID string) (*models.PlayerProgress, error) {
	out := &models.PlayerProgress{
		PlayerID:  playerID,
		Fragments: make(map[int][]string),
	}
	out.Progress.Locked = make(map[int]bool)
	out.Progress.SolvedPuzzles = make(map[int][]string)

	query := "SELECT current_level, failed_attempts, updated_at FROM player_progress WHERE player_id = ?"
	err := r.db.QueryRow(query, playerID).Scan(&out.Progress.CurrentLevel, &out.Progress.FailedAttempts, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	out.Progress.UnlockedLevels, err = r.loadLevelList("unlocked_levels", playerID)
	if err != nil {
		return nil, err
	}
	out.Progress.CompletedLevels, err = r.loadLevelList("completed_levels", playerID)
	if err != nil {
		return nil, err
	}
	if err := r.loadLocks(playerID, out.Progress.Locked); err != nil {
		return nil, err
	}
	if err := r.loadSolved(playerID, out.Progress.SolvedPuzzles); err != nil {
		return nil, err
	}
	if err := r.loadFragments(playerID, out.Fragments); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProgressRepository) loadLevelList(table, playerID string) ([]int, error) {
	rows, err := r.db.Query("SELECT level_id FROM "+table+" WHERE player_id = ? ORDER BY position", playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ProgressRepository) loadLocks(playerID string, into map[int]bool) error {
	rows, err := r.db.Query("SELECT level_id, locked FROM level_locks WHERE player_id = ?", playerID)
	if err != nil {
		return fmt.Errorf("failed to load level locks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var locked bool
		if err := rows.Scan(&id, &locked); err != nil {
			return fmt.Errorf("failed to scan level lock: %w", err)
		}
		into[id] = locked
	}
	return rows.Err()
}

func (r *ProgressRepository) loadSolved(playerID string, into map[int][]string) error {
	query := "SELECT level_id, puzzle_id FROM solved_puzzles WHERE player_id = ? ORDER BY level_id, position"
	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return fmt.Errorf("failed to load solved puzzles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var levelID int
		var puzzleID string
		if err := rows.Scan(&levelID, &puzzleID); err != nil {
			return fmt.Errorf("failed to scan solved puzzle: %w", err)
		}
		into[levelID] = append(into[levelID], puzzleID)
	}
	return rows.Err()
}

func (r *ProgressRepository) loadFragments(playerID string, into map[int][]string) error {
	query := "SELECT level_id, token FROM fragments WHERE player_id = ? ORDER BY level_id, position"
	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return fmt.Errorf("failed to load fragments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var levelID int
		var token string
		if err := rows.Scan(&levelID, &token); err != nil {
			return fmt.Errorf("failed to scan fragment: %w", err)
		}
		into[levelID] = append(into[levelID], token)
	}
	return rows.Err()
}

// SaveProgress replaces the stored snapshot for p.PlayerID in one transaction
func (r *ProgressRepository) SaveProgress(p *models.PlayerProgress) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveProgress(tx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit progress: %w", err)
	}
	return nil
}

var progressChildTables = []string{"unlocked_levels", "level_locks", "solved_puzzles", "completed_levels", "fragments"}

func deleteProgressRows(q database.Querier, playerID string) error {
	for _, table := range progressChildTables {
		if _, err := q.Exec("DELETE FROM "+table+" WHERE player_id = ?", playerID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func saveProgress(q database.Querier, p *models.PlayerProgress) error {
	st := p.Progress

	var count int
	if err := q.QueryRow("SELECT COUNT(*) FROM player_progress WHERE player_id = ?", p.PlayerID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check progress: %w", err)
	}
	if count > 0 {
		query := "UPDATE player_progress SET current_level = ?, failed_attempts = ?, updated_at = CURRENT_TIMESTAMP WHERE player_id = ?"
		if _, err := q.Exec(query, st.CurrentLevel, st.FailedAttempts, p.PlayerID); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
	} else {
		query := "INSERT INTO player_progress (player_id, current_level, failed_attempts) VALUES (?, ?, ?)"
		if _, err := q.Exec(query, p.PlayerID, st.CurrentLevel, st.FailedAttempts); err != nil {
			return fmt.Errorf("failed to insert progress: %w", err)
		}
	}

	if err := deleteProgressRows(q, p.PlayerID); err != nil {
		return err
	}

	for i, id := range st.UnlockedLevels {
		query := "INSERT INTO unlocked_levels (player_id, level_id, position) VALUES (?, ?, ?)"
		if _, err := q.Exec(query, p.PlayerID, id, i); err != nil {
			return fmt.Errorf("failed to save unlocked level %d: %w", id, err)
		}
	}
	for i, id := range st.CompletedLevels {
		query := "INSERT INTO completed_levels (player_id, level_id, position) VALUES (?, ?, ?)"
		if _, err := q.Exec(query, p.PlayerID, id, i); err != nil {
			return fmt.Errorf("failed to save completed level %d: %w", id, err)
		}
	}

	dialect := q.GetDialect()
	for _, id := range sortedKeys(st.Locked) {
		query := "INSERT INTO level_locks (player_id, level_id, locked) VALUES (?, ?, " + dialect.BoolValue(st.Locked[id]) + ")"
		if _, err := q.Exec(query, p.PlayerID, id); err != nil {
			return fmt.Errorf("failed to save lock for level %d: %w", id, err)
		}
	}

	for _, levelID := range sortedKeys(st.SolvedPuzzles) {
		for i, puzzleID := range st.SolvedPuzzles[levelID] {
			query := "INSERT INTO solved_puzzles (player_id, level_id, puzzle_id, position) VALUES (?, ?, ?, ?)"
			if _, err := q.Exec(query, p.PlayerID, levelID, puzzleID, i); err != nil {
				return fmt.Errorf("failed to save solved puzzle %s: %w", puzzleID, err)
			}
		}
	}

	for _, levelID := range sortedKeys(p.Fragments) {
		for i, token := range p.Fragments[levelID] {
			query := "INSERT INTO fragments (player_id, level_id, position, token) VALUES (?, ?, ?, ?)"
			if _, err := q.Exec(query, p.PlayerID, levelID, i, token); err != nil {
				return fmt.Errorf("failed to save fragment for level %d: %w", levelID, err)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
