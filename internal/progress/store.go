// Package progress holds the committed progress of one player: which levels
// are locked, unlocked or completed, the failed-attempt counter and the
// transient penalty flag.
package progress

import (
	"errors"
	"sync"
	"time"

	"adventcalendar/internal/models"
	"adventcalendar/internal/timegate"
)

var (
	ErrUnknownLevel  = errors.New("unknown level")
	ErrUnknownPuzzle = errors.New("unknown puzzle")
	ErrLevelLocked   = errors.New("level is locked")
)

const (
	DefaultPenaltyThreshold = 3
	DefaultPenaltyDuration  = 2 * time.Second
)

// Options configures a Store
type Options struct {
	PenaltyThreshold int
	PenaltyDuration  time.Duration
	Scheduler        Scheduler
}

func (o Options) withDefaults() Options {
	if o.PenaltyThreshold <= 0 {
		o.PenaltyThreshold = DefaultPenaltyThreshold
	}
	if o.PenaltyDuration <= 0 {
		o.PenaltyDuration = DefaultPenaltyDuration
	}
	if o.Scheduler == nil {
		o.Scheduler = TimerScheduler{}
	}
	return o
}

// Store is the single source of truth for what a player may navigate to.
// It is safe for concurrent use. Scheduled effects must run on their own
// goroutine since they take the store lock.
type Store struct {
	mu            sync.Mutex
	cal           *models.Calendar
	gate          *timegate.Evaluator
	opts          Options
	state         models.ProgressState
	penaltyGen    int
	cancelPenalty func()
}

// NewStore returns a store in the initial state: every level locked,
// nothing unlocked, counters at zero.
func NewStore(cal *models.Calendar, gate *timegate.Evaluator, opts Options) *Store {
	s := &Store{cal: cal, gate: gate, opts: opts.withDefaults()}
	s.state = s.initialState()
	return s
}

// Restore returns a store seeded with previously committed progress.
// Levels missing from state.Locked start locked.
func Restore(cal *models.Calendar, gate *timegate.Evaluator, opts Options, state models.ProgressState) *Store {
	s := NewStore(cal, gate, opts)
	restored := state.Clone()
	restored.PenaltyActive = false
	for id, locked := range s.state.Locked {
		if _, ok := restored.Locked[id]; !ok {
			restored.Locked[id] = locked
		}
	}
	if _, ok := cal.Level(restored.CurrentLevel); !ok {
		restored.CurrentLevel = s.state.CurrentLevel
	}
	s.state = restored
	return s
}

func (s *Store) initialState() models.ProgressState {
	st := models.ProgressState{
		Locked:        make(map[int]bool, len(s.cal.Levels)),
		SolvedPuzzles: make(map[int][]string),
	}
	for i, level := range s.cal.Levels {
		if i == 0 {
			st.CurrentLevel = level.ID
		}
		st.Locked[level.ID] = true
	}
	return st
}

// UnlockLevel adds id to the unlocked set, makes it current and clears its
// lock flag. It reports whether anything changed.
func (s *Store) UnlockLevel(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlockLocked(id)
}

func (s *Store) unlockLocked(id int) (bool, error) {
	if _, ok := s.cal.Level(id); !ok {
		return false, ErrUnknownLevel
	}
	if s.state.IsUnlocked(id) {
		return false, nil
	}
	s.state.UnlockedLevels = append(s.state.UnlockedLevels, id)
	s.state.CurrentLevel = id
	s.state.Locked[id] = false
	return true, nil
}

// IncrementFailedAttempts bumps the counter. Reaching the threshold resets
// it and raises the penalty flag, which clears itself after the configured
// duration. It reports whether the penalty fired.
func (s *Store) IncrementFailedAttempts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.FailedAttempts++
	if s.state.FailedAttempts < s.opts.PenaltyThreshold {
		return false
	}

	s.state.FailedAttempts = 0
	s.state.PenaltyActive = true
	s.penaltyGen++
	gen := s.penaltyGen
	if s.cancelPenalty != nil {
		s.cancelPenalty()
	}
	s.cancelPenalty = s.opts.Scheduler.Schedule(s.opts.PenaltyDuration, func() {
		s.clearPenalty(gen)
	})
	return true
}

func (s *Store) clearPenalty(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.penaltyGen {
		return
	}
	s.state.PenaltyActive = false
	s.cancelPenalty = nil
}

// CheckTimeLocks runs the time gate and commits only when a lock flag
// changes. Explicitly unlocked and completed levels are never relocked.
func (s *Store) CheckTimeLocks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkTimeLocksAt(s.gate.Now())
}

// CheckTimeLocksAt is CheckTimeLocks with an explicit instant
func (s *Store) CheckTimeLocksAt(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkTimeLocksAt(now)
}

func (s *Store) checkTimeLocksAt(now time.Time) bool {
	manual := func(id int) bool {
		return s.state.IsUnlocked(id) || s.state.IsCompleted(id)
	}
	next, changed := s.gate.Reconcile(s.state.Locked, manual, now)
	if changed {
		s.state.Locked = next
	}
	return changed
}

// ResetGame restores counters, lock flags and the unlocked set to their
// initial values. The calendar itself is untouched.
func (s *Store) ResetGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPenalty != nil {
		s.cancelPenalty()
		s.cancelPenalty = nil
	}
	s.penaltyGen++
	s.state = s.initialState()
}

// RecordSolved marks a puzzle as solved and clears the failed-attempt counter.
// It reports whether the puzzle was newly recorded.
func (s *Store) RecordSolved(levelID int, puzzleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	level, ok := s.cal.Level(levelID)
	if !ok {
		return false, ErrUnknownLevel
	}
	if _, _, ok := level.Puzzle(puzzleID); !ok {
		return false, ErrUnknownPuzzle
	}
	if s.state.Locked[levelID] {
		return false, ErrLevelLocked
	}
	if s.state.IsSolved(levelID, puzzleID) {
		return false, nil
	}
	s.state.SolvedPuzzles[levelID] = append(s.state.SolvedPuzzles[levelID], puzzleID)
	s.state.FailedAttempts = 0
	return true, nil
}

// CompleteLevel moves an unlocked level to its terminal state and unlocks
// the levels it opens. It returns the ids that were newly unlocked.
func (s *Store) CompleteLevel(levelID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	level, ok := s.cal.Level(levelID)
	if !ok {
		return nil, ErrUnknownLevel
	}
	if s.state.IsCompleted(levelID) {
		return nil, nil
	}
	if s.state.Locked[levelID] {
		return nil, ErrLevelLocked
	}
	s.state.CompletedLevels = append(s.state.CompletedLevels, levelID)
	s.state.FailedAttempts = 0

	var opened []int
	for _, id := range level.OnComplete.Unlocks {
		changed, err := s.unlockLocked(id)
		if err != nil {
			return opened, err
		}
		if changed {
			opened = append(opened, id)
		}
	}
	return opened, nil
}

// Status returns the navigable state of a level
func (s *Store) Status(id int) (models.LevelStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cal.Level(id); !ok {
		return "", false
	}
	switch {
	case s.state.IsCompleted(id):
		return models.StatusCompleted, true
	case s.state.Locked[id]:
		return models.StatusLocked, true
	default:
		return models.StatusUnlocked, true
	}
}

// Snapshot returns a copy of the committed state
func (s *Store) Snapshot() models.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Close cancels any pending penalty timer
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPenalty != nil {
		s.cancelPenalty()
		s.cancelPenalty = nil
	}
}
