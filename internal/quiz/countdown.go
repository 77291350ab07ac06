package quiz

import (
	"fmt"
	"sync"
	"time"
)

// Countdown counts whole seconds down from a budget and reports expiry once per run.
type Countdown struct {
	mu        sync.Mutex
	budget    int
	remaining int
	running   bool
	expired   bool
	run       uint64
	ticker    Timer
	sched     Scheduler
	onExpire  func()
}

func NewCountdown(budget time.Duration, sched Scheduler, onExpire func()) *Countdown {
	secs := int(budget / time.Second)
	return &Countdown{
		budget:    secs,
		remaining: secs,
		sched:     sched,
		onExpire:  onExpire,
	}
}

// Start begins ticking. It does nothing if the countdown is running or expired.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.expired {
		return
	}
	c.running = true
	c.run++
	run := c.run
	c.ticker = c.sched.Every(time.Second, func() { c.tick(run) })
}

func (c *Countdown) tick(run uint64) {
	c.mu.Lock()
	if run != c.run || !c.running {
		c.mu.Unlock()
		return
	}
	if c.remaining > 0 {
		c.remaining--
	}
	fire := c.remaining == 0
	if fire {
		c.expired = true
		c.stopLocked()
	}
	c.mu.Unlock()

	if fire && c.onExpire != nil {
		c.onExpire()
	}
}

// Stop freezes the countdown at its current value.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.running = false
}

// Reset stops ticking, restores the full budget and clears the expired flag.
func (c *Countdown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.run++
	c.remaining = c.budget
	c.expired = false
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Elapsed returns the seconds consumed since the last reset.
func (c *Countdown) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.budget - c.remaining
}

func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Formatted renders the remaining time as MM:SS.
func (c *Countdown) Formatted() string {
	return FormatSeconds(c.Remaining())
}

// FormatSeconds renders a number of seconds as MM:SS.
func FormatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
