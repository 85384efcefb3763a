package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"adventcalendar/internal/calendar"
	"adventcalendar/internal/models"
	"adventcalendar/internal/progress"
	"adventcalendar/internal/puzzle"
	"adventcalendar/internal/timegate"
	"adventcalendar/internal/validation"
)

// password "canela"
const testGateHash = "$2b$10$eVX1/9eH6o2/oguIeQYb3u0uHf7p0L9QB/eamqHcsas6zyoc0HDrC"

var testCalendarYAML = `
recipient: Clara
levels:
  - id: 1
    title: Puerta
    unlock_date: "2025-12-01"
    gate:
      password_hash: ` + testGateHash + `
    puzzles:
      - id: r1
        kind: riddle
        title: Uno
        prompt: ¿Dónde duermes?
        accept: [almohada]
        hint:
          text: Pones la cabeza encima.
          codes: [AMOR]
      - id: r2
        kind: riddle
        title: Dos
        prompt: ¿Qué brilla de noche?
        accept: [luna]
    on_complete:
      unlocks: [2]
    reward:
      name: Primer regalo
      description: Bajo la almohada.
  - id: 2
    title: Fragmentos
    unlock_date: "2025-12-05"
    puzzles:
      - id: c1
        kind: code
        title: Primer código
        prompt: Día
        answer: "17"
        reveal: Detrás del espejo.
        fragment: "17"
      - id: c2
        kind: code
        title: Segundo código
        prompt: Número
        answer: "42"
        reveal: Dentro del libro.
        fragment: "42"
    final_code: "1742"
    on_complete:
      unlocks: [3]
    reward:
      name: Cafetera
      description: Café.
  - id: 3
    title: Final
    unlock_date: "2025-12-25"
    puzzles:
      - id: fin
        kind: exact
        title: Fin
        prompt: Última palabra
        accept: [fin]
`

type memPlayers struct {
	mu      sync.Mutex
	players map[string]*models.Player
}

func newMemPlayers() *memPlayers {
	return &memPlayers{players: make(map[string]*models.Player)}
}

func (m *memPlayers) CreatePlayer(id, name string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; ok {
		return nil, fmt.Errorf("player %s exists", id)
	}
	p := &models.Player{ID: id, Name: name, CreatedAt: time.Now()}
	m.players[id] = p
	return p, nil
}

func (m *memPlayers) GetPlayer(id string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[id], nil
}

type memProgress struct {
	mu      sync.Mutex
	saved   map[string]*models.PlayerProgress
	saves   int
	saveErr error
}

func newMemProgress() *memProgress {
	return &memProgress{saved: make(map[string]*models.PlayerProgress)}
}

func (m *memProgress) LoadProgress(playerID string) (*models.PlayerProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.saved[playerID]
	if !ok {
		return nil, nil
	}
	return copyProgress(p), nil
}

func (m *memProgress) SaveProgress(p *models.PlayerProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[p.PlayerID] = copyProgress(p)
	m.saves++
	return nil
}

func copyProgress(p *models.PlayerProgress) *models.PlayerProgress {
	out := &models.PlayerProgress{
		PlayerID:  p.PlayerID,
		Progress:  p.Progress.Clone(),
		Fragments: make(map[int][]string, len(p.Fragments)),
	}
	for k, v := range p.Fragments {
		out.Fragments[k] = append([]string(nil), v...)
	}
	return out
}

type scheduledJob struct {
	after     time.Duration
	effect    func()
	cancelled bool
}

type fakeScheduler struct {
	mu   sync.Mutex
	jobs []*scheduledJob
}

func (f *fakeScheduler) Schedule(after time.Duration, effect func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	job := &scheduledJob{after: after, effect: effect}
	f.jobs = append(f.jobs, job)
	return func() { job.cancelled = true }
}

func (f *fakeScheduler) last() *scheduledJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return nil
	}
	return f.jobs[len(f.jobs)-1]
}

type testEnv struct {
	svc      *GameService
	cal      *models.Calendar
	gate     *timegate.Evaluator
	players  *memPlayers
	progress *memProgress
	sched    *fakeScheduler
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	cal, err := calendar.Parse([]byte(testCalendarYAML))
	if err != nil {
		t.Fatalf("calendar.Parse() error = %v", err)
	}
	gate, err := timegate.New(cal, time.UTC, timegate.ClockFunc(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("timegate.New() error = %v", err)
	}
	env := &testEnv{
		cal:      cal,
		gate:     gate,
		players:  newMemPlayers(),
		progress: newMemProgress(),
		sched:    &fakeScheduler{},
	}
	env.svc = env.newService()
	return env
}

// newService builds a service over the same stores, as after a restart
func (e *testEnv) newService() *GameService {
	return NewGameService(e.cal, e.gate, e.players, e.progress, nil, GameOptions{
		Progress: progress.Options{PenaltyThreshold: 3, PenaltyDuration: 2 * time.Second, Scheduler: e.sched},
	})
}

func (e *testEnv) newPlayer(t *testing.T) string {
	t.Helper()
	p, err := e.svc.CreatePlayer("Clara")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	return p.ID
}

func (e *testEnv) submit(t *testing.T, playerID string, levelID int, puzzleID, answer string) *SubmitResult {
	t.Helper()
	res, err := e.svc.Submit(playerID, levelID, puzzleID, puzzle.Input{Answer: answer})
	if err != nil {
		t.Fatalf("Submit(%d, %s, %q) error = %v", levelID, puzzleID, answer, err)
	}
	return res
}

// completeFirstLevel opens the gate and solves both riddles
func (e *testEnv) completeFirstLevel(t *testing.T, playerID string) {
	t.Helper()
	if res, err := e.svc.SubmitGatePassword(playerID, "canela"); err != nil || !res.Accepted {
		t.Fatalf("SubmitGatePassword() = %+v, %v", res, err)
	}
	e.submit(t, playerID, 1, "r1", "almohada")
	if res := e.submit(t, playerID, 1, "r2", "luna"); !res.LevelCompleted {
		t.Fatalf("level 1 should be completed, got %+v", res)
	}
}

func (e *testEnv) collect(t *testing.T, playerID, puzzleID, answer, token string) {
	t.Helper()
	if res := e.submit(t, playerID, 2, puzzleID, answer); !res.FragmentPending {
		t.Fatalf("%s should be pending its fragment, got %+v", puzzleID, res)
	}
	res, err := e.svc.SubmitFragment(playerID, 2, puzzleID, token)
	if err != nil || !res.Solved {
		t.Fatalf("SubmitFragment(%s) = %+v, %v", puzzleID, res, err)
	}
}

var dec2 = time.Date(2025, 12, 2, 10, 0, 0, 0, time.UTC)

func TestCreatePlayer(t *testing.T) {
	env := newTestEnv(t, dec2)

	t.Run("named", func(t *testing.T) {
		p, err := env.svc.CreatePlayer("  Clara ")
		if err != nil {
			t.Fatal(err)
		}
		if p.Name != "Clara" {
			t.Errorf("Name = %q, want Clara", p.Name)
		}
		saved := env.progress.saved[p.ID]
		if saved == nil {
			t.Fatal("initial progress should be persisted")
		}
		if saved.Progress.CurrentLevel != 1 || len(saved.Progress.UnlockedLevels) != 0 {
			t.Errorf("initial progress = %+v", saved.Progress)
		}
		for id, locked := range saved.Progress.Locked {
			if !locked {
				t.Errorf("level %d should start locked", id)
			}
		}
	})

	t.Run("codename when empty", func(t *testing.T) {
		p, err := env.svc.CreatePlayer("")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(p.Name, "-") {
			t.Errorf("codename = %q, want rank-alias", p.Name)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := env.svc.CreatePlayer("x")
		var vErr validation.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
}

func TestUnknownPlayer(t *testing.T) {
	env := newTestEnv(t, dec2)
	if _, err := env.svc.Overview("missing"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestGatePassword(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)

	if _, err := env.svc.Level(id, 1); !errors.Is(err, ErrLevelLocked) {
		t.Fatalf("Level(1) before gate err = %v, want ErrLevelLocked", err)
	}

	res, err := env.svc.SubmitGatePassword(id, "vainilla")
	if err != nil {
		t.Fatal(err)
	}
	if res.Accepted || res.FailedAttempts != 1 {
		t.Errorf("wrong password result = %+v", res)
	}

	if _, err := env.svc.SubmitGatePassword(id, "   "); err == nil {
		t.Error("blank password should be a validation error")
	}

	res, err = env.svc.SubmitGatePassword(id, " Canela ")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Accepted || !reflect.DeepEqual(res.Unlocked, []int{1}) {
		t.Errorf("gate result = %+v", res)
	}

	view, err := env.svc.Level(id, 1)
	if err != nil {
		t.Fatalf("Level(1) after gate error = %v", err)
	}
	if view.Status != models.StatusUnlocked || view.Reward != nil {
		t.Errorf("level view = %+v", view)
	}
}

func TestTrapPenalty(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)

	for i := 1; i <= 2; i++ {
		res, err := env.svc.Trap(id)
		if err != nil {
			t.Fatal(err)
		}
		if res.FailedAttempts != i || res.PenaltyFired {
			t.Fatalf("trap %d = %+v", i, res)
		}
	}

	res, err := env.svc.Trap(id)
	if err != nil {
		t.Fatal(err)
	}
	if !res.PenaltyFired || !res.PenaltyActive || res.FailedAttempts != 0 {
		t.Fatalf("third trap = %+v", res)
	}

	job := env.sched.last()
	if job == nil || job.after != 2*time.Second {
		t.Fatalf("penalty clear not scheduled: %+v", job)
	}
	job.effect()

	view, err := env.svc.Overview(id)
	if err != nil {
		t.Fatal(err)
	}
	if view.PenaltyActive {
		t.Error("penalty should clear after the scheduled effect")
	}
}

func TestPuzzleSequence(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)
	if _, err := env.svc.SubmitGatePassword(id, "canela"); err != nil {
		t.Fatal(err)
	}

	if _, err := env.svc.Puzzle(id, 1, "r2"); !errors.Is(err, ErrPuzzleUnavailable) {
		t.Errorf("r2 before r1 err = %v, want ErrPuzzleUnavailable", err)
	}
	if _, err := env.svc.Puzzle(id, 1, "nope"); !errors.Is(err, ErrPuzzleNotFound) {
		t.Errorf("unknown puzzle err = %v, want ErrPuzzleNotFound", err)
	}
	if _, err := env.svc.Puzzle(id, 9, "r1"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("unknown level err = %v, want ErrLevelNotFound", err)
	}

	res := env.submit(t, id, 1, "r1", "no lo sé")
	if res.Accepted || res.FailedAttempts != 1 {
		t.Errorf("wrong answer = %+v", res)
	}

	res = env.submit(t, id, 1, "r1", "Mi ALMOHADA")
	if !res.Solved || res.FailedAttempts != 0 {
		t.Errorf("right answer = %+v", res)
	}
	if res.LevelCompleted {
		t.Error("level must not complete before every puzzle is solved")
	}

	res = env.submit(t, id, 1, "r2", "la luna")
	if !res.LevelCompleted || !reflect.DeepEqual(res.Unlocked, []int{2}) {
		t.Errorf("last puzzle = %+v", res)
	}

	view, err := env.svc.Level(id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.Status != models.StatusCompleted || view.Reward == nil {
		t.Errorf("completed level view = %+v", view)
	}

	// level 2 is before its date but was unlocked by completion
	if _, err := env.svc.Level(id, 2); err != nil {
		t.Errorf("Level(2) error = %v", err)
	}
	if _, err := env.svc.Level(id, 3); !errors.Is(err, ErrLevelLocked) {
		t.Errorf("Level(3) err = %v, want ErrLevelLocked", err)
	}
}

func TestStartPuzzleResetsAttempt(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)
	if _, err := env.svc.SubmitGatePassword(id, "canela"); err != nil {
		t.Fatal(err)
	}

	env.submit(t, id, 1, "r1", "mal")
	view, err := env.svc.Puzzle(id, 1, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if view.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", view.Attempts)
	}

	view, err = env.svc.StartPuzzle(id, 1, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if view.Attempts != 0 || view.Solved {
		t.Errorf("restarted view = %+v", view)
	}
}

func TestFragmentsAndFinalCode(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)
	env.completeFirstLevel(t, id)

	if _, err := env.svc.SubmitFragment(id, 2, "c1", "17"); !errors.Is(err, ErrNotAccepted) {
		t.Errorf("fragment before solving err = %v, want ErrNotAccepted", err)
	}

	res := env.submit(t, id, 2, "c1", "17")
	if !res.FragmentPending || res.Solved || res.Reveal != "Detrás del espejo." {
		t.Errorf("accepted puzzle = %+v", res)
	}
	if _, err := env.svc.Puzzle(id, 2, "c2"); !errors.Is(err, ErrPuzzleUnavailable) {
		t.Errorf("c2 before fragment err = %v, want ErrPuzzleUnavailable", err)
	}

	res, err := env.svc.SubmitFragment(id, 2, "c1", "99")
	if err != nil {
		t.Fatal(err)
	}
	if res.Accepted || res.FailedAttempts != 1 {
		t.Errorf("wrong token = %+v", res)
	}

	res, err = env.svc.SubmitFragment(id, 2, "c1", " 17 ")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Accepted || !res.Solved {
		t.Errorf("right token = %+v", res)
	}

	if _, err := env.svc.SubmitFinalCode(id, 2, "1742"); !errors.Is(err, ErrPuzzleUnavailable) {
		t.Errorf("final code before all fragments err = %v, want ErrPuzzleUnavailable", err)
	}

	env.collect(t, id, "c2", "42", "42")

	view, err := env.svc.Level(id, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(view.Fragments, []string{"17", "42"}) || view.FinalCodeLength != 4 {
		t.Errorf("fragments = %v, length %d", view.Fragments, view.FinalCodeLength)
	}
	if view.Status != models.StatusUnlocked {
		t.Error("level with a final code must wait for the code")
	}

	t.Run("malformed code is not an attempt", func(t *testing.T) {
		for _, code := range []string{"12", "17a2", "174200"} {
			_, err := env.svc.SubmitFinalCode(id, 2, code)
			var vErr validation.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("SubmitFinalCode(%q) err = %v, want ValidationError", code, err)
			}
		}
		if got := env.progress.saved[id].Progress.FailedAttempts; got != 0 {
			t.Errorf("FailedAttempts = %d, want 0", got)
		}
	})

	wrong, err := env.svc.SubmitFinalCode(id, 2, "1743")
	if err != nil {
		t.Fatal(err)
	}
	if wrong.Accepted || wrong.FailedAttempts != 1 {
		t.Errorf("wrong code = %+v", wrong)
	}

	right, err := env.svc.SubmitFinalCode(id, 2, "1742")
	if err != nil {
		t.Fatal(err)
	}
	if !right.Accepted || right.Reward == nil || !reflect.DeepEqual(right.Unlocked, []int{3}) {
		t.Errorf("right code = %+v", right)
	}

	again, err := env.svc.SubmitFinalCode(id, 2, "0000")
	if err != nil || !again.Accepted {
		t.Errorf("completed level = %+v, %v", again, err)
	}

	if _, err := env.svc.SubmitFinalCode(id, 1, "1742"); !errors.Is(err, ErrNoFinalCode) {
		t.Errorf("level without final code err = %v, want ErrNoFinalCode", err)
	}
}

func TestProgressSurvivesRestart(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)
	env.completeFirstLevel(t, id)
	env.submit(t, id, 2, "c1", "17")
	if _, err := env.svc.SubmitFragment(id, 2, "c1", "17"); err != nil {
		t.Fatal(err)
	}
	env.svc.Close()

	restarted := env.newService()
	view, err := restarted.Overview(id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(view.UnlockedLevels, []int{1, 2}) || !reflect.DeepEqual(view.CompletedLevels, []int{1}) {
		t.Errorf("restored view = %+v", view)
	}

	level, err := restarted.Level(id, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(level.Fragments, []string{"17"}) {
		t.Errorf("restored fragments = %v", level.Fragments)
	}
	if !level.Puzzles[0].Solved || !level.Puzzles[1].Available {
		t.Errorf("restored puzzles = %+v", level.Puzzles)
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)
	env.completeFirstLevel(t, id)
	env.submit(t, id, 2, "c1", "17")

	view, err := env.svc.Reset(id)
	if err != nil {
		t.Fatal(err)
	}
	if view.CurrentLevel != 1 || len(view.UnlockedLevels) != 0 || len(view.CompletedLevels) != 0 {
		t.Errorf("reset view = %+v", view)
	}
	if _, err := env.svc.Level(id, 1); !errors.Is(err, ErrLevelLocked) {
		t.Errorf("Level(1) after reset err = %v, want ErrLevelLocked", err)
	}

	saved := env.progress.saved[id]
	if len(saved.Fragments) != 0 || len(saved.Progress.SolvedPuzzles) != 0 {
		t.Errorf("persisted after reset = %+v", saved)
	}
}

func TestResetKeepsDateOpenLevels(t *testing.T) {
	env := newTestEnv(t, time.Date(2025, 12, 6, 9, 0, 0, 0, time.UTC))
	id := env.newPlayer(t)
	env.completeFirstLevel(t, id)

	view, err := env.svc.Reset(id)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]models.LevelStatus{1: models.StatusLocked, 2: models.StatusUnlocked, 3: models.StatusLocked}
	for _, l := range view.Levels {
		if l.Status != want[l.ID] {
			t.Errorf("level %d status after reset = %s, want %s", l.ID, l.Status, want[l.ID])
		}
	}
	if env.progress.saved[id].Progress.Locked[2] {
		t.Error("persisted progress must record level 2 as open")
	}
}

func TestFailedSaveDiscardsChange(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)
	if _, err := env.svc.SubmitGatePassword(id, "canela"); err != nil {
		t.Fatal(err)
	}

	diskFull := errors.New("disk full")
	env.progress.saveErr = diskFull
	if _, err := env.svc.Submit(id, 1, "r1", puzzle.Input{Answer: "almohada"}); !errors.Is(err, diskFull) {
		t.Fatalf("Submit() error = %v, want %v", err, diskFull)
	}
	env.progress.saveErr = nil

	level, err := env.svc.Level(id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if level.Puzzles[0].Solved {
		t.Error("r1 must not be solved in memory when the save failed")
	}
	if saved := env.progress.saved[id]; saved.Progress.IsSolved(1, "r1") {
		t.Error("r1 must not be persisted")
	}

	if res := env.submit(t, id, 1, "r1", "almohada"); !res.Solved {
		t.Errorf("retry after recovery = %+v", res)
	}
	if !env.progress.saved[id].Progress.IsSolved(1, "r1") {
		t.Error("retry should persist r1")
	}
}

func TestTimeGateOpensLevels(t *testing.T) {
	env := newTestEnv(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC))
	id := env.newPlayer(t)

	view, err := env.svc.Overview(id)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]models.LevelStatus{1: models.StatusLocked, 2: models.StatusUnlocked, 3: models.StatusUnlocked}
	for _, l := range view.Levels {
		if l.Status != want[l.ID] {
			t.Errorf("level %d status = %s, want %s", l.ID, l.Status, want[l.ID])
		}
	}
	if len(view.UnlockedLevels) != 0 {
		t.Error("time-gated levels must not enter the unlocked set")
	}
}

func TestHints(t *testing.T) {
	env := newTestEnv(t, dec2)
	id := env.newPlayer(t)
	if _, err := env.svc.SubmitGatePassword(id, "canela"); err != nil {
		t.Fatal(err)
	}

	req, err := env.svc.RequestHint(id, 1, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(req.Reference, "SEC-1-") {
		t.Errorf("Reference = %q", req.Reference)
	}

	res, err := env.svc.UnlockHint(id, 1, "r1", "BESO")
	if err != nil || res.Unlocked {
		t.Errorf("wrong code = %+v, %v", res, err)
	}
	res, err = env.svc.UnlockHint(id, 1, "r1", "te mando mucho amor")
	if err != nil || !res.Unlocked || res.Text == "" {
		t.Errorf("right code = %+v, %v", res, err)
	}

	view, err := env.svc.Puzzle(id, 1, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if !view.HintUnlocked || view.Hint == "" {
		t.Errorf("puzzle view hint = %+v", view)
	}

	env.submit(t, id, 1, "r1", "almohada")
	if _, err := env.svc.RequestHint(id, 1, "r2"); !errors.Is(err, ErrNoHint) {
		t.Errorf("err = %v, want ErrNoHint", err)
	}
}

func TestMatchUnlockCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes []string
		want  bool
	}{
		{"exact", "AMOR", []string{"AMOR"}, true},
		{"case folded substring", "  un beso_rico  ", []string{"BESO_RICO"}, true},
		{"no match", "hola", []string{"AMOR"}, false},
		{"empty input", "", []string{"AMOR"}, false},
		{"blank code ignored", "hola", []string{" "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchUnlockCode(tt.input, tt.codes); got != tt.want {
				t.Errorf("MatchUnlockCode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountsTowardPenalty(t *testing.T) {
	tests := []struct {
		kind models.PuzzleKind
		want bool
	}{
		{models.KindRiddle, true},
		{models.KindCode, true},
		{models.KindMorse, true},
		{models.KindSliding, false},
		{models.KindBlockStack, false},
		{models.KindFocus, false},
	}
	for _, tt := range tests {
		if got := countsTowardPenalty(tt.kind); got != tt.want {
			t.Errorf("countsTowardPenalty(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
