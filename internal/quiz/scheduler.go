package quiz

import "time"

// Scheduler runs f once after d, never on the calling goroutine. The returned func
// cancels a pending run.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
