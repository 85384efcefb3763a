package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"adventcalendar/internal/credentials"
	"adventcalendar/internal/fragments"
	"adventcalendar/internal/logger"
	"adventcalendar/internal/models"
	"adventcalendar/internal/progress"
	"adventcalendar/internal/puzzle"
	"adventcalendar/internal/security"
	"adventcalendar/internal/timegate"
	"adventcalendar/internal/validation"
)

var (
	ErrLevelNotFound     = errors.New("level not found")
	ErrLevelLocked       = errors.New("level is locked")
	ErrPuzzleNotFound    = errors.New("puzzle not found")
	ErrPuzzleUnavailable = errors.New("puzzle is not available yet")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNoGate            = errors.New("calendar has no password gate")
	ErrNoFragment        = errors.New("puzzle does not hide a fragment")
	ErrNotAccepted       = errors.New("puzzle has not been solved yet")
	ErrNoHint            = errors.New("puzzle has no hint")
	ErrNoFinalCode       = errors.New("level has no final code")
)

// PlayerStore persists players
type PlayerStore interface {
	CreatePlayer(id, name string) (*models.Player, error)
	GetPlayer(id string) (*models.Player, error)
}

// ProgressStore persists committed progress snapshots
type ProgressStore interface {
	LoadProgress(playerID string) (*models.PlayerProgress, error)
	SaveProgress(p *models.PlayerProgress) error
}

// GameOptions tunes a GameService
type GameOptions struct {
	Progress progress.Options
	NewRNG   func() *rand.Rand
}

// GameService runs the level flow for every player. Committed progress is
// persisted after each mutation; puzzle attempts live in memory only.
type GameService struct {
	cal      *models.Calendar
	gate     *timegate.Evaluator
	players  PlayerStore
	progress ProgressStore
	log      *logger.Logger
	opts     GameOptions

	mu       sync.Mutex
	sessions map[string]*playerSession
}

type playerSession struct {
	mu         sync.Mutex
	playerID   string
	store      *progress.Store
	assemblers map[int]*fragments.Assembler
	attempts   map[string]puzzle.Puzzle
	accepted   map[string]bool
	hints      map[string]bool
}

func NewGameService(cal *models.Calendar, gate *timegate.Evaluator, players PlayerStore, store ProgressStore, log *logger.Logger, opts GameOptions) *GameService {
	if opts.NewRNG == nil {
		opts.NewRNG = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GameService{
		cal:      cal,
		gate:     gate,
		players:  players,
		progress: store,
		log:      log,
		opts:     opts,
		sessions: make(map[string]*playerSession),
	}
}

// Calendar returns the loaded content table
func (s *GameService) Calendar() *models.Calendar {
	return s.cal
}

// CreatePlayer registers a new anonymous player. An empty name gets a random codename.
func (s *GameService) CreatePlayer(name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		codename, err := credentials.GenerateCodename()
		if err != nil {
			return nil, fmt.Errorf("generate codename: %w", err)
		}
		name = codename
	} else if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	player, err := s.players.CreatePlayer(security.NewPlayerID(), name)
	if err != nil {
		return nil, err
	}

	sess := s.newSession(player.ID, nil)
	if err := s.persist(sess); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessions[player.ID] = sess
	s.mu.Unlock()

	s.log.Info("player created", "player_id", player.ID)
	return player, nil
}

// session returns the cached state for playerID, loading it on first use
func (s *GameService) session(playerID string) (*playerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[playerID]; ok {
		return sess, nil
	}

	player, err := s.players.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	saved, err := s.progress.LoadProgress(playerID)
	if err != nil {
		return nil, err
	}

	sess := s.newSession(playerID, saved)
	s.sessions[playerID] = sess
	return sess, nil
}

func (s *GameService) newSession(playerID string, saved *models.PlayerProgress) *playerSession {
	sess := &playerSession{
		playerID:   playerID,
		assemblers: make(map[int]*fragments.Assembler),
		attempts:   make(map[string]puzzle.Puzzle),
		accepted:   make(map[string]bool),
		hints:      make(map[string]bool),
	}
	if saved != nil {
		sess.store = progress.Restore(s.cal, s.gate, s.opts.Progress, saved.Progress)
	} else {
		sess.store = progress.NewStore(s.cal, s.gate, s.opts.Progress)
	}

	for _, level := range s.cal.Levels {
		slots := level.FragmentSlots()
		if slots == 0 {
			continue
		}
		var tokens []string
		if saved != nil {
			tokens = saved.Fragments[level.ID]
		}
		sess.assemblers[level.ID] = fragments.Restore(level.FinalCode, slots, tokens)
	}
	return sess
}

func (s *GameService) persist(sess *playerSession) error {
	snap := &models.PlayerProgress{
		PlayerID:  sess.playerID,
		Progress:  sess.store.Snapshot(),
		Fragments: make(map[int][]string, len(sess.assemblers)),
	}
	for id, a := range sess.assemblers {
		if tokens := a.Fragments(); len(tokens) > 0 {
			snap.Fragments[id] = tokens
		}
	}
	if err := s.progress.SaveProgress(snap); err != nil {
		s.evict(sess)
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// evict drops a session whose memory ran ahead of the store, so the next
// call reloads the last committed progress
func (s *GameService) evict(sess *playerSession) {
	s.mu.Lock()
	if cached, ok := s.sessions[sess.playerID]; ok && cached == sess {
		delete(s.sessions, sess.playerID)
	}
	s.mu.Unlock()
	sess.store.Close()
	s.log.Warn("progress not saved, session dropped", "player_id", sess.playerID)
}

// refreshLocks runs the time gate and persists when a lock flag moved
func (s *GameService) refreshLocks(sess *playerSession) error {
	if !sess.store.CheckTimeLocks() {
		return nil
	}
	return s.persist(sess)
}

// fail counts one failed attempt and reports whether the penalty fired
func (s *GameService) fail(sess *playerSession) bool {
	penalty := sess.store.IncrementFailedAttempts()
	if penalty {
		s.log.Info("penalty triggered", "player_id", sess.playerID)
	}
	return penalty
}

func attemptKey(levelID int, puzzleID string) string {
	return fmt.Sprintf("%d/%s", levelID, puzzleID)
}

// LevelSummary is one row of the level list
type LevelSummary struct {
	ID         int                `json:"id"`
	Title      string             `json:"title"`
	UnlockDate string             `json:"unlock_date"`
	Status     models.LevelStatus `json:"status"`
	Gated      bool               `json:"gated"`
}

// ProgressView is the committed progress plus the level list
type ProgressView struct {
	PlayerID        string         `json:"player_id"`
	Recipient       string         `json:"recipient"`
	CurrentLevel    int            `json:"current_level"`
	UnlockedLevels  []int          `json:"unlocked_levels"`
	CompletedLevels []int          `json:"completed_levels"`
	FailedAttempts  int            `json:"failed_attempts"`
	PenaltyActive   bool           `json:"penalty_active"`
	Levels          []LevelSummary `json:"levels"`
}

// Overview runs the time gate and returns the player's progress
func (s *GameService) Overview(playerID string) (*ProgressView, error) {
	sess, err := s.session(playerID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.refreshLocks(sess); err != nil {
		return nil, err
	}
	return s.progressView(sess), nil
}

func (s *GameService) progressView(sess *playerSession) *ProgressView {
	snap := sess.store.Snapshot()
	view := &ProgressView{
		PlayerID:        sess.playerID,
		Recipient:       s.cal.Recipient,
		CurrentLevel:    snap.CurrentLevel,
		UnlockedLevels:  nonNil(snap.UnlockedLevels),
		CompletedLevels: nonNil(snap.CompletedLevels),
		FailedAttempts:  snap.FailedAttempts,
		PenaltyActive:   snap.PenaltyActive,
	}
	for _, level := range s.cal.Levels {
		view.Levels = append(view.Levels, s.summary(sess, &level))
	}
	return view
}

func (s *GameService) summary(sess *playerSession, level *models.LevelConfig) LevelSummary {
	status, _ := sess.store.Status(level.ID)
	return LevelSummary{
		ID:         level.ID,
		Title:      level.Title,
		UnlockDate: level.UnlockDate,
		Status:     status,
		Gated:      level.Gate != nil,
	}
}

// PuzzleSummary describes a puzzle inside a level view
type PuzzleSummary struct {
	ID          string            `json:"id"`
	Kind        models.PuzzleKind `json:"kind"`
	Title       string            `json:"title"`
	Available   bool              `json:"available"`
	Accepted    bool              `json:"accepted"`
	Solved      bool              `json:"solved"`
	HasFragment bool              `json:"has_fragment"`
	HasHint     bool              `json:"has_hint"`
}

// LevelView is the detail of an open level
type LevelView struct {
	LevelSummary
	Briefing        string          `json:"briefing"`
	RealLifeClue    string          `json:"real_life_clue"`
	Puzzles         []PuzzleSummary `json:"puzzles"`
	Fragments       []string        `json:"fragments"`
	FragmentSlots   int             `json:"fragment_slots"`
	FinalCodeLength int             `json:"final_code_length,omitempty"`
	Reward          *models.Reward  `json:"reward,omitempty"`
}

// Level returns the detail of an unlocked or completed level
func (s *GameService) Level(playerID string, levelID int) (*LevelView, error) {
	sess, level, err := s.openLevel(playerID, levelID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	snap := sess.store.Snapshot()
	view := &LevelView{
		LevelSummary:  s.summary(sess, level),
		Briefing:      level.Briefing,
		RealLifeClue:  level.RealLifeClue,
		Fragments:     []string{},
		FragmentSlots: level.FragmentSlots(),
	}
	if a, ok := sess.assemblers[level.ID]; ok {
		view.Fragments = a.Fragments()
		view.FinalCodeLength = a.TargetLen()
	}
	for i, def := range level.Puzzles {
		key := attemptKey(level.ID, def.ID)
		view.Puzzles = append(view.Puzzles, PuzzleSummary{
			ID:          def.ID,
			Kind:        def.Kind,
			Title:       def.Title,
			Available:   available(snap, level, i),
			Accepted:    sess.accepted[key] || snap.IsSolved(level.ID, def.ID),
			Solved:      snap.IsSolved(level.ID, def.ID),
			HasFragment: def.Fragment != "",
			HasHint:     def.Hint != nil,
		})
	}
	if snap.IsCompleted(level.ID) {
		view.Reward = level.Reward
	}
	return view, nil
}

// openLevel loads the session, runs the time gate and checks that the
// level is navigable. On success the session lock is held.
func (s *GameService) openLevel(playerID string, levelID int) (*playerSession, *models.LevelConfig, error) {
	level, ok := s.cal.Level(levelID)
	if !ok {
		return nil, nil, ErrLevelNotFound
	}
	sess, err := s.session(playerID)
	if err != nil {
		return nil, nil, err
	}
	sess.mu.Lock()
	if err := s.refreshLocks(sess); err != nil {
		sess.mu.Unlock()
		return nil, nil, err
	}
	if status, _ := sess.store.Status(levelID); status == models.StatusLocked {
		sess.mu.Unlock()
		return nil, nil, ErrLevelLocked
	}
	return sess, level, nil
}

// openPuzzle is openLevel plus the sequential availability check
func (s *GameService) openPuzzle(playerID string, levelID int, puzzleID string) (*playerSession, *models.LevelConfig, *models.PuzzleDef, error) {
	sess, level, err := s.openLevel(playerID, levelID)
	if err != nil {
		return nil, nil, nil, err
	}
	def, idx, ok := level.Puzzle(puzzleID)
	if !ok {
		sess.mu.Unlock()
		return nil, nil, nil, ErrPuzzleNotFound
	}
	if !available(sess.store.Snapshot(), level, idx) {
		sess.mu.Unlock()
		return nil, nil, nil, ErrPuzzleUnavailable
	}
	return sess, level, def, nil
}

// available reports whether every puzzle before idx has been recorded solved
func available(snap models.ProgressState, level *models.LevelConfig, idx int) bool {
	for _, prev := range level.Puzzles[:idx] {
		if !snap.IsSolved(level.ID, prev.ID) {
			return false
		}
	}
	return true
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
