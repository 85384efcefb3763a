package models

import "time"

// LevelStatus is the navigable state of a level for one player
type LevelStatus string

const (
	StatusLocked    LevelStatus = "locked"
	StatusUnlocked  LevelStatus = "unlocked"
	StatusCompleted LevelStatus = "completed"
)

// ProgressState is the committed progress of one player
type ProgressState struct {
	CurrentLevel    int
	UnlockedLevels  []int
	FailedAttempts  int
	PenaltyActive   bool
	Locked          map[int]bool
	SolvedPuzzles   map[int][]string
	CompletedLevels []int
}

// Clone returns a deep copy so callers cannot mutate store internals
func (p ProgressState) Clone() ProgressState {
	out := ProgressState{
		CurrentLevel:    p.CurrentLevel,
		UnlockedLevels:  append([]int(nil), p.UnlockedLevels...),
		FailedAttempts:  p.FailedAttempts,
		PenaltyActive:   p.PenaltyActive,
		Locked:          make(map[int]bool, len(p.Locked)),
		SolvedPuzzles:   make(map[int][]string, len(p.SolvedPuzzles)),
		CompletedLevels: append([]int(nil), p.CompletedLevels...),
	}
	for k, v := range p.Locked {
		out.Locked[k] = v
	}
	for k, v := range p.SolvedPuzzles {
		out.SolvedPuzzles[k] = append([]string(nil), v...)
	}
	return out
}

// IsUnlocked reports whether id was explicitly unlocked
func (p ProgressState) IsUnlocked(id int) bool {
	return containsInt(p.UnlockedLevels, id)
}

// IsCompleted reports whether the level reached its terminal state
func (p ProgressState) IsCompleted(id int) bool {
	return containsInt(p.CompletedLevels, id)
}

// IsSolved reports whether a puzzle has been recorded as solved
func (p ProgressState) IsSolved(levelID int, puzzleID string) bool {
	for _, id := range p.SolvedPuzzles[levelID] {
		if id == puzzleID {
			return true
		}
	}
	return false
}

// PlayerProgress is everything persisted for a player
type PlayerProgress struct {
	PlayerID  string
	Progress  ProgressState
	Fragments map[int][]string
	UpdatedAt time.Time
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
