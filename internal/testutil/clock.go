package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/specialistvlad/flowrecon/internal/clock"
)

// ManualClock is a clock.Clock whose time only moves when a test says so.
// Callbacks run synchronously on the goroutine calling Advance or FireNext.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

var _ clock.Clock = (*ManualClock)(nil)

type manualTimer struct {
	c       *ManualClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManualClock returns a clock at time zero with nothing scheduled.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.c.removeLocked(t)
	return true
}

func (c *ManualClock) removeLocked(t *manualTimer) {
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of scheduled, unfired callbacks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// NextDelay returns how far the earliest pending callback is from now.
func (c *ManualClock) NextDelay() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.earliestLocked()
	if next == nil {
		return 0, false
	}
	return next.at - c.now, true
}

func (c *ManualClock) earliestLocked() *manualTimer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	return c.pending[0]
}

// FireNext jumps to the earliest pending callback and runs it. It returns
// false when nothing is scheduled.
func (c *ManualClock) FireNext() bool {
	c.mu.Lock()
	next := c.earliestLocked()
	if next == nil {
		c.mu.Unlock()
		return false
	}
	c.pending = c.pending[1:]
	next.fired = true
	if next.at > c.now {
		c.now = next.at
	}
	c.mu.Unlock()

	next.f()
	return true
}

// Advance moves the clock forward by d, running every callback that falls
// due, including ones scheduled by callbacks along the way.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.earliestLocked()
		if next == nil || next.at > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.FireNext()
	}
}

// RunUntilIdle fires callbacks until none remain or limit callbacks have run.
// It returns the number fired.
func (c *ManualClock) RunUntilIdle(limit int) int {
	n := 0
	for n < limit && c.FireNext() {
		n++
	}
	return n
}
