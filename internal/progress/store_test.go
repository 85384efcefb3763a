package progress

import (
	"errors"
	"testing"
	"time"

	"adventcalendar/internal/models"
	"adventcalendar/internal/timegate"
)

type scheduled struct {
	after     time.Duration
	effect    func()
	cancelled bool
}

// fakeScheduler records effects so tests decide when they run
type fakeScheduler struct {
	jobs []*scheduled
}

func (f *fakeScheduler) Schedule(after time.Duration, effect func()) func() {
	job := &scheduled{after: after, effect: effect}
	f.jobs = append(f.jobs, job)
	return func() { job.cancelled = true }
}

func (f *fakeScheduler) last() *scheduled {
	if len(f.jobs) == 0 {
		return nil
	}
	return f.jobs[len(f.jobs)-1]
}

func testCalendar() *models.Calendar {
	return &models.Calendar{Levels: []models.LevelConfig{
		{
			ID:         1,
			UnlockDate: "2025-12-01",
			Gate:       &models.Gate{PasswordHash: "x", AlsoUnlocks: []int{2}},
			Puzzles:    []models.PuzzleDef{{ID: "r1"}, {ID: "r2"}},
			OnComplete: models.Completion{Unlocks: []int{2}},
		},
		{ID: 2, UnlockDate: "2025-12-05", Puzzles: []models.PuzzleDef{{ID: "ws"}}},
		{ID: 3, UnlockDate: "2025-12-11", OnComplete: models.Completion{Unlocks: []int{4}}},
		{ID: 4, UnlockDate: "2025-12-25"},
	}}
}

func newTestStore(t *testing.T) (*Store, *fakeScheduler) {
	t.Helper()
	cal := testCalendar()
	gate, err := timegate.New(cal, time.UTC, nil)
	if err != nil {
		t.Fatalf("timegate.New: %v", err)
	}
	sched := &fakeScheduler{}
	return NewStore(cal, gate, Options{Scheduler: sched}), sched
}

func TestNewStoreInitialState(t *testing.T) {
	s, _ := newTestStore(t)
	st := s.Snapshot()

	if st.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %d, want 1", st.CurrentLevel)
	}
	if len(st.UnlockedLevels) != 0 || st.FailedAttempts != 0 || st.PenaltyActive {
		t.Errorf("unexpected initial state: %+v", st)
	}
	for _, id := range []int{1, 2, 3, 4} {
		if !st.Locked[id] {
			t.Errorf("level %d should start locked", id)
		}
	}
}

func TestUnlockLevel(t *testing.T) {
	s, _ := newTestStore(t)

	changed, err := s.UnlockLevel(3)
	if err != nil || !changed {
		t.Fatalf("UnlockLevel(3) = %v, %v", changed, err)
	}
	st := s.Snapshot()
	if st.CurrentLevel != 3 || st.Locked[3] || !st.IsUnlocked(3) {
		t.Errorf("after unlock: %+v", st)
	}

	t.Run("idempotent", func(t *testing.T) {
		if _, err := s.UnlockLevel(1); err != nil {
			t.Fatal(err)
		}
		changed, err := s.UnlockLevel(3)
		if err != nil || changed {
			t.Errorf("second UnlockLevel(3) = %v, %v", changed, err)
		}
		st := s.Snapshot()
		if len(st.UnlockedLevels) != 2 {
			t.Errorf("UnlockedLevels = %v, want two entries", st.UnlockedLevels)
		}
		if st.CurrentLevel != 1 {
			t.Errorf("repeat unlock must not move current level, got %d", st.CurrentLevel)
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		if _, err := s.UnlockLevel(99); !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("err = %v, want ErrUnknownLevel", err)
		}
	})
}

func TestIncrementFailedAttemptsPenalty(t *testing.T) {
	s, sched := newTestStore(t)

	if s.IncrementFailedAttempts() || s.IncrementFailedAttempts() {
		t.Fatal("penalty fired before the threshold")
	}
	if got := s.Snapshot().FailedAttempts; got != 2 {
		t.Fatalf("FailedAttempts = %d, want 2", got)
	}

	if !s.IncrementFailedAttempts() {
		t.Fatal("third failure should fire the penalty")
	}
	st := s.Snapshot()
	if st.FailedAttempts != 0 || !st.PenaltyActive {
		t.Fatalf("after penalty: attempts=%d active=%v", st.FailedAttempts, st.PenaltyActive)
	}

	job := sched.last()
	if job == nil || job.after != DefaultPenaltyDuration {
		t.Fatalf("expected a clear scheduled after %v, got %+v", DefaultPenaltyDuration, job)
	}
	job.effect()
	if s.Snapshot().PenaltyActive {
		t.Error("penalty should clear when the scheduled effect runs")
	}
}

func TestStalePenaltyClearIgnored(t *testing.T) {
	s, sched := newTestStore(t)
	for i := 0; i < 3; i++ {
		s.IncrementFailedAttempts()
	}
	first := sched.last()

	s.ResetGame()
	if !first.cancelled {
		t.Error("reset should cancel the pending clear")
	}
	for i := 0; i < 3; i++ {
		s.IncrementFailedAttempts()
	}

	// a clear from a previous generation must not drop the new penalty
	first.effect()
	if !s.Snapshot().PenaltyActive {
		t.Error("stale clear dropped the active penalty")
	}
	sched.last().effect()
	if s.Snapshot().PenaltyActive {
		t.Error("current clear should drop the penalty")
	}
}

func TestCustomThreshold(t *testing.T) {
	cal := testCalendar()
	gate, _ := timegate.New(cal, time.UTC, nil)
	sched := &fakeScheduler{}
	s := NewStore(cal, gate, Options{PenaltyThreshold: 1, PenaltyDuration: time.Minute, Scheduler: sched})

	if !s.IncrementFailedAttempts() {
		t.Fatal("threshold 1 should fire immediately")
	}
	if sched.last().after != time.Minute {
		t.Errorf("scheduled after %v, want 1m", sched.last().after)
	}
}

func TestCheckTimeLocksAt(t *testing.T) {
	s, _ := newTestStore(t)

	before := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	if s.CheckTimeLocksAt(before) {
		t.Error("nothing is due before December")
	}

	dec6 := time.Date(2025, 12, 6, 0, 0, 0, 0, time.UTC)
	if !s.CheckTimeLocksAt(dec6) {
		t.Fatal("level 2 opening should report a change")
	}
	st := s.Snapshot()
	if st.Locked[2] || !st.Locked[3] || !st.Locked[4] {
		t.Errorf("Locked = %v", st.Locked)
	}
	if !st.Locked[1] {
		t.Error("password level must stay locked until it is unlocked")
	}
	if s.CheckTimeLocksAt(dec6) {
		t.Error("second pass at the same instant must not report a change")
	}

	t.Run("manual unlock is not relocked", func(t *testing.T) {
		if _, err := s.UnlockLevel(4); err != nil {
			t.Fatal(err)
		}
		s.CheckTimeLocksAt(dec6)
		if s.Snapshot().Locked[4] {
			t.Error("level 4 was relocked by the time gate")
		}
	})
}

func TestResetGame(t *testing.T) {
	s, _ := newTestStore(t)
	s.UnlockLevel(1)
	s.UnlockLevel(2)
	s.RecordSolved(1, "r1")
	s.IncrementFailedAttempts()
	s.CheckTimeLocksAt(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC))

	s.ResetGame()
	st := s.Snapshot()
	if st.CurrentLevel != 1 || len(st.UnlockedLevels) != 0 || st.FailedAttempts != 0 {
		t.Errorf("reset state: %+v", st)
	}
	if len(st.SolvedPuzzles) != 0 || len(st.CompletedLevels) != 0 {
		t.Errorf("reset should clear solved and completed: %+v", st)
	}
	for _, id := range []int{1, 2, 3, 4} {
		if !st.Locked[id] {
			t.Errorf("level %d should be locked after reset", id)
		}
	}
}

func TestRecordSolved(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.RecordSolved(1, "r1"); !errors.Is(err, ErrLevelLocked) {
		t.Errorf("locked level: err = %v", err)
	}
	if _, err := s.RecordSolved(7, "r1"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("unknown level: err = %v", err)
	}
	s.UnlockLevel(1)
	if _, err := s.RecordSolved(1, "nope"); !errors.Is(err, ErrUnknownPuzzle) {
		t.Errorf("unknown puzzle: err = %v", err)
	}

	s.IncrementFailedAttempts()
	added, err := s.RecordSolved(1, "r1")
	if err != nil || !added {
		t.Fatalf("RecordSolved = %v, %v", added, err)
	}
	if s.Snapshot().FailedAttempts != 0 {
		t.Error("solving should clear failed attempts")
	}
	if added, _ := s.RecordSolved(1, "r1"); added {
		t.Error("repeat solve should not be recorded twice")
	}
	if !s.Snapshot().IsSolved(1, "r1") {
		t.Error("r1 not marked solved")
	}
}

func TestCompleteLevel(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.CompleteLevel(1); !errors.Is(err, ErrLevelLocked) {
		t.Fatalf("locked level: err = %v", err)
	}
	s.UnlockLevel(1)

	opened, err := s.CompleteLevel(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(opened) != 1 || opened[0] != 2 {
		t.Errorf("opened = %v, want [2]", opened)
	}
	if status, _ := s.Status(1); status != models.StatusCompleted {
		t.Errorf("status(1) = %s", status)
	}
	if status, _ := s.Status(2); status != models.StatusUnlocked {
		t.Errorf("status(2) = %s", status)
	}
	if s.Snapshot().CurrentLevel != 2 {
		t.Error("completing should move to the newly opened level")
	}

	again, err := s.CompleteLevel(1)
	if err != nil || again != nil {
		t.Errorf("second completion = %v, %v", again, err)
	}
	if status, _ := s.Status(3); status != models.StatusLocked {
		t.Errorf("status(3) = %s", status)
	}
	if _, ok := s.Status(42); ok {
		t.Error("unknown level should report !ok")
	}
}

func TestRestore(t *testing.T) {
	cal := testCalendar()
	gate, _ := timegate.New(cal, time.UTC, nil)
	saved := models.ProgressState{
		CurrentLevel:   99,
		UnlockedLevels: []int{1},
		FailedAttempts: 2,
		PenaltyActive:  true,
		Locked:         map[int]bool{1: false, 2: false},
		SolvedPuzzles:  map[int][]string{1: {"r1"}},
	}

	s := Restore(cal, gate, Options{Scheduler: &fakeScheduler{}}, saved)
	st := s.Snapshot()
	if st.PenaltyActive {
		t.Error("penalty flag is not carried across restarts")
	}
	if st.CurrentLevel != 1 {
		t.Errorf("invalid current level should fall back to 1, got %d", st.CurrentLevel)
	}
	if !st.Locked[3] || !st.Locked[4] || st.Locked[2] {
		t.Errorf("Locked = %v", st.Locked)
	}
	if st.FailedAttempts != 2 || !st.IsSolved(1, "r1") {
		t.Errorf("restored state lost data: %+v", st)
	}

	saved.SolvedPuzzles[1][0] = "mutated"
	if !s.Snapshot().IsSolved(1, "r1") {
		t.Error("store must not share memory with its input")
	}
}
