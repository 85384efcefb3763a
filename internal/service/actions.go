package service

import (
	"adventcalendar/internal/models"
	"adventcalendar/internal/security"
	"adventcalendar/internal/validation"
)

// AttemptResult reports the effect of a gate, trap or final-code attempt
type AttemptResult struct {
	Accepted       bool           `json:"accepted"`
	Unlocked       []int          `json:"unlocked,omitempty"`
	Reward         *models.Reward `json:"reward,omitempty"`
	FailedAttempts int            `json:"failed_attempts"`
	PenaltyActive  bool           `json:"penalty_active"`
	PenaltyFired   bool           `json:"penalty_fired"`
}

func (s *GameService) attemptResult(sess *playerSession, r *AttemptResult) *AttemptResult {
	snap := sess.store.Snapshot()
	r.FailedAttempts = snap.FailedAttempts
	r.PenaltyActive = snap.PenaltyActive
	return r
}

// SubmitGatePassword unlocks the password-gated level when the password matches
func (s *GameService) SubmitGatePassword(playerID, password string) (*AttemptResult, error) {
	gated, ok := s.cal.GatedLevel()
	if !ok {
		return nil, ErrNoGate
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	sess, err := s.session(playerID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	result := &AttemptResult{}
	if !security.CheckPassword(gated.Gate.PasswordHash, password) {
		s.log.Info("gate password rejected", "player_id", playerID)
		result.PenaltyFired = s.fail(sess)
		if err := s.persist(sess); err != nil {
			return nil, err
		}
		return s.attemptResult(sess, result), nil
	}

	result.Accepted = true
	// companions first so the gated level ends up current
	ids := append(append([]int{}, gated.Gate.AlsoUnlocks...), gated.ID)
	for _, id := range ids {
		changed, err := sess.store.UnlockLevel(id)
		if err != nil {
			return nil, err
		}
		if changed {
			result.Unlocked = append(result.Unlocked, id)
		}
	}
	s.log.Info("gate opened", "player_id", playerID, "unlocked", result.Unlocked)
	if err := s.persist(sess); err != nil {
		return nil, err
	}
	return s.attemptResult(sess, result), nil
}

// Trap is the decoy action: it always counts as a failed attempt
func (s *GameService) Trap(playerID string) (*AttemptResult, error) {
	sess, err := s.session(playerID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	result := &AttemptResult{PenaltyFired: s.fail(sess)}
	s.log.Info("trap triggered", "player_id", playerID)
	if err := s.persist(sess); err != nil {
		return nil, err
	}
	return s.attemptResult(sess, result), nil
}

// Reset returns the player to the initial state and drops every attempt and fragment
func (s *GameService) Reset(playerID string) (*ProgressView, error) {
	sess, err := s.session(playerID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.store.ResetGame()
	fresh := s.newSession(playerID, nil)
	sess.assemblers = fresh.assemblers
	sess.attempts = fresh.attempts
	sess.accepted = fresh.accepted
	sess.hints = fresh.hints
	sess.store.CheckTimeLocks()

	s.log.Info("game reset", "player_id", playerID)
	if err := s.persist(sess); err != nil {
		return nil, err
	}
	return s.progressView(sess), nil
}

// SubmitFinalCode checks the combination for a level with a final code.
// A malformed candidate is rejected before it can count as an attempt.
func (s *GameService) SubmitFinalCode(playerID string, levelID int, code string) (*AttemptResult, error) {
	sess, level, err := s.openLevel(playerID, levelID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if level.FinalCode == "" {
		return nil, ErrNoFinalCode
	}
	snap := sess.store.Snapshot()
	if snap.IsCompleted(level.ID) {
		return s.attemptResult(sess, &AttemptResult{Accepted: true, Reward: level.Reward}), nil
	}
	if !allSolved(snap, level) {
		return nil, ErrPuzzleUnavailable
	}

	assembler := sess.assemblers[level.ID]
	if err := validation.ValidateFinalCode(code, assembler.TargetLen()); err != nil {
		return nil, err
	}

	result := &AttemptResult{}
	if !assembler.CheckFinalCode(code) {
		s.log.Debug("final code rejected", "player_id", playerID, "level_id", level.ID)
		result.PenaltyFired = s.fail(sess)
		if err := s.persist(sess); err != nil {
			return nil, err
		}
		return s.attemptResult(sess, result), nil
	}

	opened, err := s.complete(sess, level)
	if err != nil {
		return nil, err
	}
	result.Accepted = true
	result.Unlocked = opened
	result.Reward = level.Reward
	if err := s.persist(sess); err != nil {
		return nil, err
	}
	return s.attemptResult(sess, result), nil
}

// Close cancels pending penalty timers for every cached player
func (s *GameService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.store.Close()
	}
}
