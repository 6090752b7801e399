package session

import (
	"sync"
	"time"
)

// Countdown is a cooperative 1 Hz countdown bound to a timed session.
// It decrements the remaining seconds once per wall-clock second; there is
// no catch-up for missed ticks. When the remaining time reaches zero the
// expiry callback fires exactly once. Cancel tears the countdown down so
// the callback can no longer fire afterward.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	stopped   bool
	done      chan struct{}
	expire    sync.Once
	onExpire  func()
}

// NewCountdown creates a countdown with the given budget in seconds.
// onExpire is invoked from the ticker goroutine when the budget hits zero.
func NewCountdown(seconds int, onExpire func()) *Countdown {
	return &Countdown{
		remaining: seconds,
		done:      make(chan struct{}),
		onExpire:  onExpire,
	}
}

// Start launches the ticker goroutine. Call at most once.
func (c *Countdown) Start() {
	go c.run()
}

func (c *Countdown) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if c.tick() {
				c.expire.Do(c.onExpire)
				return
			}
		}
	}
}

// tick decrements the remaining time by one second and reports whether the
// countdown just expired. The decision is made under the lock so a
// concurrent Cancel can never race it into a second expiry.
func (c *Countdown) tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining > 0 {
		return false
	}
	c.stopped = true
	close(c.done)
	return true
}

// Remaining returns the seconds left. Monotonically non-increasing.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Cancel stops a live countdown so the expiry callback can no longer fire.
// The stopped flag and the expiry decision share one mutex, so a tick
// observes the cancellation or the cancellation observes the expiry, never
// both. If expiry already won the race the callback may still run; callers
// that need exactly-once submission must also dedupe at the registry
// (Registry.Take hands the session to exactly one submitter).
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	close(c.done)
	// Burn the Once so a late expiry can never fire.
	c.expire.Do(func() {})
}
