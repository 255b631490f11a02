package quiz

import (
	"sync"
	"time"
)

// Timer is the countdown capability a timed session is armed with.
//
// onTick receives the remaining seconds on every tick. onExpire runs at most once
// per Arm, when the remaining time reaches zero. Cancel must release the tick source before
// it returns and must not be called from inside onTick or onExpire.
type Timer interface {
	Arm(seconds int, onTick func(remaining int), onExpire func())
	Cancel()
	Remaining() int
}

// Countdown measures remaining time against a deadline fixed at Arm. Ticks only report
// it, so seconds that pass while the process is paused are still counted.
type Countdown struct {
	interval time.Duration
	now      func() time.Time

	// cancelMu serialises Arm and Cancel so every Cancel waits for the tick goroutine.
	cancelMu sync.Mutex

	mu       sync.Mutex
	deadline time.Time
	armed    bool
	frozen   int
	stop     chan struct{}
	done     chan struct{}
}

func NewCountdown(interval time.Duration) *Countdown {
	return NewCountdownClock(interval, time.Now)
}

// NewCountdownClock reads the current time from now instead of the wall clock.
func NewCountdownClock(interval time.Duration, now func() time.Time) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Countdown{interval: interval, now: now}
}

func (c *Countdown) Arm(seconds int, onTick func(int), onExpire func()) {
	c.cancelMu.Lock()
	defer c.cancelMu.Unlock()
	c.cancelLocked()

	if seconds < 0 {
		seconds = 0
	}
	stop := make(chan struct{})
	done := make(chan struct{})

	c.mu.Lock()
	c.deadline = c.now().Add(time.Duration(seconds) * time.Second)
	c.armed = true
	c.frozen = seconds
	c.stop, c.done = stop, done
	c.mu.Unlock()

	go c.run(stop, done, onTick, onExpire)
}

func (c *Countdown) Cancel() {
	c.cancelMu.Lock()
	defer c.cancelMu.Unlock()
	c.cancelLocked()
}

func (c *Countdown) cancelLocked() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	if c.armed {
		c.frozen = c.remainingLocked()
		c.armed = false
	}
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Remaining is the whole seconds left until the deadline, rounded up and floored at 0.
// After Cancel or expiry it stays at the value it had then.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked()
}

func (c *Countdown) remainingLocked() int {
	if !c.armed {
		return c.frozen
	}
	left := c.deadline.Sub(c.now())
	if left <= 0 {
		return 0
	}
	secs := int(left / time.Second)
	if left%time.Second != 0 {
		secs++
	}
	return secs
}

func (c *Countdown) run(stop <-chan struct{}, done chan<- struct{}, onTick func(int), onExpire func()) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}

			remaining, expired := c.step()
			if onTick != nil {
				onTick(remaining)
			}
			if expired {
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}

func (c *Countdown) step() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	remaining := c.remainingLocked()
	if remaining == 0 {
		c.armed = false
		c.frozen = 0
		return 0, true
	}
	return remaining, false
}

// LowTime reports whether remaining has dropped into the last tenth of total.
func LowTime(remaining, total int) bool {
	if total <= 0 {
		return false
	}
	threshold := (total + 9) / 10
	return remaining <= threshold
}
