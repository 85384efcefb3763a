// Package timegate derives level lock status from the calendar dates.
package timegate

import (
	"fmt"
	"sort"
	"time"

	"adventcalendar/internal/models"
)

const dateLayout = "2006-01-02"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// ParseDate returns midnight of an ISO date in loc
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid unlock date %q: %w", date, err)
	}
	return t, nil
}

// Evaluator compares the clock against each level's unlock date.
// The password-gated level is exempt and never appears in its results.
type Evaluator struct {
	clock   Clock
	unlocks map[int]time.Time
	order   []int
}

func New(cal *models.Calendar, loc *time.Location, clock Clock) (*Evaluator, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	e := &Evaluator{clock: clock, unlocks: make(map[int]time.Time)}
	for _, level := range cal.Levels {
		if level.Gate != nil {
			continue
		}
		at, err := ParseDate(level.UnlockDate, loc)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", level.ID, err)
		}
		e.unlocks[level.ID] = at
		e.order = append(e.order, level.ID)
	}
	sort.Ints(e.order)
	return e, nil
}

// Now returns the evaluator's current time
func (e *Evaluator) Now() time.Time {
	return e.clock.Now()
}

// UnlockTime returns when a time-gated level opens. Exempt or unknown levels return false.
func (e *Evaluator) UnlockTime(id int) (time.Time, bool) {
	at, ok := e.unlocks[id]
	return at, ok
}

// Gated reports whether the level is subject to time-gating
func (e *Evaluator) Gated(id int) bool {
	_, ok := e.unlocks[id]
	return ok
}

// ShouldBeLocked is now < unlockDate for a time-gated level
func (e *Evaluator) ShouldBeLocked(id int, now time.Time) bool {
	at, ok := e.unlocks[id]
	if !ok {
		return false
	}
	return now.Before(at)
}

// Evaluate computes the lock status of every time-gated level at now
func (e *Evaluator) Evaluate(now time.Time) map[int]bool {
	out := make(map[int]bool, len(e.order))
	for _, id := range e.order {
		out[id] = e.ShouldBeLocked(id, now)
	}
	return out
}

// OpenLevels lists time-gated levels whose date has been reached, in id order
func (e *Evaluator) OpenLevels(now time.Time) []int {
	var out []int
	for _, id := range e.order {
		if !e.ShouldBeLocked(id, now) {
			out = append(out, id)
		}
	}
	return out
}

// Reconcile applies the evaluation at now to the stored lock flags.
// Levels in manual stay unlocked even when their date has not arrived.
// It returns the new flags and whether anything differs from stored.
func (e *Evaluator) Reconcile(stored map[int]bool, manual func(id int) bool, now time.Time) (map[int]bool, bool) {
	next := make(map[int]bool, len(stored))
	for id, locked := range stored {
		next[id] = locked
	}
	changed := false
	for id, shouldLock := range e.Evaluate(now) {
		if shouldLock && manual != nil && manual(id) {
			shouldLock = false
		}
		if cur, ok := stored[id]; !ok || cur != shouldLock {
			next[id] = shouldLock
			changed = true
		}
	}
	return next, changed
}
