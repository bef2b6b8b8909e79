package scheduler

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameClock runs callbacks at the next frame boundary.
type FrameClock interface {
	// AfterFrame arranges for fn to run once at the next frame. It never runs
	// fn synchronously. The returned function cancels the callback if it has
	// not started yet.
	AfterFrame(fn func()) (cancel func())
}

// TickerClock is a FrameClock backed by timers. Callbacks run on their own
// goroutine one frame interval after being requested.
type TickerClock struct {
	interval time.Duration
}

// NewTickerClock creates a TickerClock. A non-positive interval selects
// DefaultFrameInterval.
func NewTickerClock(interval time.Duration) *TickerClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerClock{interval: interval}
}

// Interval returns the frame interval.
func (c *TickerClock) Interval() time.Duration {
	return c.interval
}

// AfterFrame implements FrameClock.
func (c *TickerClock) AfterFrame(fn func()) func() {
	t := time.AfterFunc(c.interval, fn)
	return func() { t.Stop() }
}

// ManualClock is a FrameClock advanced explicitly, for tests and batch runs.
type ManualClock struct {
	mu     sync.Mutex
	nextID int
	queue  []frameCallback
}

type frameCallback struct {
	id int
	fn func()
}

// NewManualClock creates a ManualClock with no queued callbacks.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFrame implements FrameClock.
func (c *ManualClock) AfterFrame(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.queue = append(c.queue, frameCallback{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, cb := range c.queue {
			if cb.id == id {
				c.queue = append(c.queue[:i], c.queue[i+1:]...)
				return
			}
		}
	}
}

// Advance runs every callback queued before the call, in request order, and
// returns how many ran. Callbacks requested while advancing wait for the next frame.
func (c *ManualClock) Advance() int {
	c.mu.Lock()
	due := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, cb := range due {
		cb.fn()
	}
	return len(due)
}

// Pending returns the number of queued callbacks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
