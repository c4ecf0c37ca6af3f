package quiz

import (
	"sync"
	"time"
)

// Countdown runs a once-per-second countdown for the question on screen and
// fires the expiry callback exactly once when it reaches zero. Arming a new
// countdown cancels any pending one, so a stale tick from a previous question
// can never fire after its question has advanced.
type Countdown struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewCountdown returns a countdown ticking at one-second resolution.
func NewCountdown() *Countdown {
	return &Countdown{interval: time.Second}
}

// NewCountdownWithInterval allows tests to run the countdown faster.
func NewCountdownWithInterval(interval time.Duration) *Countdown {
	return &Countdown{interval: interval}
}

// Arm starts a countdown of the given number of seconds, replacing any
// countdown still pending. onTick (optional) receives the remaining seconds
// after each tick; onExpire fires once when the countdown hits zero.
func (c *Countdown) Arm(seconds int, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	go c.run(stop, seconds, onTick, onExpire)
}

// Stop cancels the pending countdown, if any. It does not wait for an
// in-flight callback; callers guard against stale expirations themselves.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Countdown) run(stop chan struct{}, seconds int, onTick func(int), onExpire func()) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			remaining--
			if remaining > 0 {
				if onTick != nil {
					onTick(remaining)
				}
				continue
			}
			select {
			case <-stop:
				return
			default:
			}
			onExpire()
			return
		}
	}
}
