package service

import (
	"fmt"
	"strings"

	"adventcalendar/internal/credentials"
	"adventcalendar/internal/models"
	"adventcalendar/internal/puzzle"
	"adventcalendar/internal/validation"
)

// PuzzleView is the current attempt at one puzzle
type PuzzleView struct {
	LevelID      int               `json:"level_id"`
	ID           string            `json:"id"`
	Kind         models.PuzzleKind `json:"kind"`
	Title        string            `json:"title"`
	Prompt       string            `json:"prompt"`
	Attempts     int               `json:"attempts"`
	Accepted     bool              `json:"accepted"`
	Solved       bool              `json:"solved"`
	Reveal       string            `json:"reveal,omitempty"`
	HasFragment  bool              `json:"has_fragment"`
	HasHint      bool              `json:"has_hint"`
	HintUnlocked bool              `json:"hint_unlocked"`
	Hint         string            `json:"hint,omitempty"`
	State        any               `json:"state"`
}

// SubmitResult is the outcome of one puzzle submission
type SubmitResult struct {
	puzzle.Outcome
	Solved          bool   `json:"solved"`
	FragmentPending bool   `json:"fragment_pending"`
	Reveal          string `json:"reveal,omitempty"`
	LevelCompleted  bool   `json:"level_completed"`
	Unlocked        []int  `json:"unlocked,omitempty"`
	FailedAttempts  int    `json:"failed_attempts"`
	PenaltyActive   bool   `json:"penalty_active"`
	State           any    `json:"state"`
}

// HintRequest carries the reference the player quotes to get an unlock code
type HintRequest struct {
	Reference string `json:"reference"`
}

// HintResult reports whether an unlock code opened the hint
type HintResult struct {
	Unlocked bool   `json:"unlocked"`
	Text     string `json:"text,omitempty"`
}

// StartPuzzle discards any in-progress attempt and begins a new one
func (s *GameService) StartPuzzle(playerID string, levelID int, puzzleID string) (*PuzzleView, error) {
	sess, level, def, err := s.openPuzzle(playerID, levelID, puzzleID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	p, err := puzzle.New(*def, s.opts.NewRNG())
	if err != nil {
		return nil, err
	}
	sess.attempts[attemptKey(level.ID, def.ID)] = p
	return s.puzzleView(sess, level, def, p), nil
}

// Puzzle returns the current attempt, starting one if none exists
func (s *GameService) Puzzle(playerID string, levelID int, puzzleID string) (*PuzzleView, error) {
	sess, level, def, err := s.openPuzzle(playerID, levelID, puzzleID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	p, err := s.attempt(sess, level, def)
	if err != nil {
		return nil, err
	}
	return s.puzzleView(sess, level, def, p), nil
}

func (s *GameService) attempt(sess *playerSession, level *models.LevelConfig, def *models.PuzzleDef) (puzzle.Puzzle, error) {
	key := attemptKey(level.ID, def.ID)
	if p, ok := sess.attempts[key]; ok {
		return p, nil
	}
	p, err := puzzle.New(*def, s.opts.NewRNG())
	if err != nil {
		return nil, err
	}
	sess.attempts[key] = p
	return p, nil
}

func (s *GameService) puzzleView(sess *playerSession, level *models.LevelConfig, def *models.PuzzleDef, p puzzle.Puzzle) *PuzzleView {
	key := attemptKey(level.ID, def.ID)
	solved := sess.store.Snapshot().IsSolved(level.ID, def.ID)
	accepted := solved || sess.accepted[key]

	view := &PuzzleView{
		LevelID:      level.ID,
		ID:           def.ID,
		Kind:         def.Kind,
		Title:        def.Title,
		Prompt:       def.Prompt,
		Attempts:     p.Attempts(),
		Accepted:     accepted,
		Solved:       solved,
		HasFragment:  def.Fragment != "",
		HasHint:      def.Hint != nil,
		HintUnlocked: sess.hints[key],
		State:        p.State(),
	}
	if accepted {
		view.Reveal = def.Reveal
	}
	if def.Hint != nil && sess.hints[key] {
		view.Hint = def.Hint.Text
	}
	return view
}

// Submit feeds one input to the current attempt. Rejected answers are a
// normal outcome, not an error.
func (s *GameService) Submit(playerID string, levelID int, puzzleID string, in puzzle.Input) (*SubmitResult, error) {
	if err := validation.ValidateAnswer(in.Answer); err != nil {
		return nil, err
	}
	sess, level, def, err := s.openPuzzle(playerID, levelID, puzzleID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	p, err := s.attempt(sess, level, def)
	if err != nil {
		return nil, err
	}
	key := attemptKey(level.ID, def.ID)

	before := p.Attempts()
	outcome := p.Submit(in)
	result := &SubmitResult{Outcome: outcome}

	switch {
	case p.Solved() && sess.store.Snapshot().IsSolved(level.ID, def.ID):
		result.Solved = true
		result.Reveal = def.Reveal
	case p.Solved() && def.Fragment != "":
		sess.accepted[key] = true
		result.FragmentPending = true
		result.Reveal = def.Reveal
		s.log.Info("puzzle accepted, fragment pending", "player_id", playerID, "level_id", level.ID, "puzzle_id", def.ID)
	case p.Solved():
		if err := s.recordSolved(sess, level, def, result); err != nil {
			return nil, err
		}
		result.Reveal = def.Reveal
	case p.Attempts() > before:
		s.log.Debug("puzzle answer rejected", "player_id", playerID, "level_id", level.ID, "puzzle_id", def.ID)
		if countsTowardPenalty(def.Kind) {
			s.fail(sess)
			if err := s.persist(sess); err != nil {
				return nil, err
			}
		}
	}

	snap := sess.store.Snapshot()
	result.FailedAttempts = snap.FailedAttempts
	result.PenaltyActive = snap.PenaltyActive
	result.State = p.State()
	return result, nil
}

// recordSolved commits a solved puzzle and completes the level when it was the last one
func (s *GameService) recordSolved(sess *playerSession, level *models.LevelConfig, def *models.PuzzleDef, result *SubmitResult) error {
	if _, err := sess.store.RecordSolved(level.ID, def.ID); err != nil {
		return err
	}
	delete(sess.accepted, attemptKey(level.ID, def.ID))
	result.Solved = true
	s.log.Info("puzzle solved", "player_id", sess.playerID, "level_id", level.ID, "puzzle_id", def.ID)

	if level.FinalCode == "" && allSolved(sess.store.Snapshot(), level) {
		opened, err := s.complete(sess, level)
		if err != nil {
			return err
		}
		result.LevelCompleted = true
		result.Unlocked = opened
	}
	return s.persist(sess)
}

func (s *GameService) complete(sess *playerSession, level *models.LevelConfig) ([]int, error) {
	opened, err := sess.store.CompleteLevel(level.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("level completed", "player_id", sess.playerID, "level_id", level.ID, "unlocked", opened)
	return opened, nil
}

// countsTowardPenalty is true for free-text guesses. Misses in the
// interactive kinds are part of play and only count toward the attempt.
func countsTowardPenalty(kind models.PuzzleKind) bool {
	switch kind {
	case models.KindRiddle, models.KindExact, models.KindCode, models.KindMorse:
		return true
	}
	return false
}

func allSolved(snap models.ProgressState, level *models.LevelConfig) bool {
	for _, def := range level.Puzzles {
		if !snap.IsSolved(level.ID, def.ID) {
			return false
		}
	}
	return true
}

// SubmitFragment checks the token found at a revealed location. A matching
// token is appended to the level's fragment list and the puzzle is recorded solved.
func (s *GameService) SubmitFragment(playerID string, levelID int, puzzleID, token string) (*SubmitResult, error) {
	if err := validation.ValidateFragmentToken(token); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)

	sess, level, def, err := s.openPuzzle(playerID, levelID, puzzleID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if def.Fragment == "" {
		return nil, ErrNoFragment
	}
	result := &SubmitResult{}
	if sess.store.Snapshot().IsSolved(level.ID, def.ID) {
		result.Accepted = true
		result.Solved = true
		return result, nil
	}
	if !sess.accepted[attemptKey(level.ID, def.ID)] {
		return nil, ErrNotAccepted
	}

	if token != def.Fragment {
		s.log.Debug("fragment token rejected", "player_id", playerID, "level_id", level.ID, "puzzle_id", def.ID)
		s.fail(sess)
		if err := s.persist(sess); err != nil {
			return nil, err
		}
	} else {
		if err := sess.assemblers[level.ID].Add(token); err != nil {
			return nil, fmt.Errorf("add fragment: %w", err)
		}
		result.Accepted = true
		if err := s.recordSolved(sess, level, def, result); err != nil {
			return nil, err
		}
	}

	snap := sess.store.Snapshot()
	result.FailedAttempts = snap.FailedAttempts
	result.PenaltyActive = snap.PenaltyActive
	return result, nil
}

// RequestHint issues a reference code for a puzzle hint. The code is logged
// so the operator can reply with the matching unlock code.
func (s *GameService) RequestHint(playerID string, levelID int, puzzleID string) (*HintRequest, error) {
	sess, level, def, err := s.openPuzzle(playerID, levelID, puzzleID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if def.Hint == nil {
		return nil, ErrNoHint
	}
	ref, err := credentials.GenerateHintReference(level.ID)
	if err != nil {
		return nil, fmt.Errorf("generate hint reference: %w", err)
	}
	s.log.Info("hint requested", "player_id", playerID, "level_id", level.ID, "puzzle_id", def.ID, "reference", ref)
	return &HintRequest{Reference: ref}, nil
}

// UnlockHint reveals the hint when code contains one of the configured unlock codes
func (s *GameService) UnlockHint(playerID string, levelID int, puzzleID, code string) (*HintResult, error) {
	sess, level, def, err := s.openPuzzle(playerID, levelID, puzzleID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if def.Hint == nil {
		return nil, ErrNoHint
	}
	key := attemptKey(level.ID, def.ID)
	if sess.hints[key] || MatchUnlockCode(code, def.Hint.Codes) {
		sess.hints[key] = true
		return &HintResult{Unlocked: true, Text: def.Hint.Text}, nil
	}
	return &HintResult{}, nil
}

// MatchUnlockCode reports whether input contains any of codes, ignoring case
func MatchUnlockCode(input string, codes []string) bool {
	in := strings.ToUpper(strings.TrimSpace(input))
	if in == "" {
		return false
	}
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" && strings.Contains(in, c) {
			return true
		}
	}
	return false
}
