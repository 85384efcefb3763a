package progress

import "time"

// Scheduler runs an effect after a delay. The returned function cancels it.
type Scheduler interface {
	Schedule(after time.Duration, effect func()) (cancel func())
}

// TimerScheduler schedules effects on time.AfterFunc
type TimerScheduler struct{}

func (TimerScheduler) Schedule(after time.Duration, effect func()) func() {
	t := time.AfterFunc(after, effect)
	return func() { t.Stop() }
}
