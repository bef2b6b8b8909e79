// Package scheduler coalesces layout requests into at most one pass per frame.
//
// Any number of producers may call Schedule between two frames; only the
// first request arms the frame clock, the others are absorbed. The pending
// flag is cleared just before the callback runs, so a request issued by the
// callback itself arms the following frame.
package scheduler

import (
	"sync"
)

// Scheduler coalesces requests onto a FrameClock.
type Scheduler struct {
	clock FrameClock

	mu      sync.Mutex
	pending bool
	gen     uint64
	cancel  func()

	armed    int64
	absorbed int64
}

// Stats counts scheduling decisions.
type Stats struct {
	Armed    int64 // Requests that armed a frame
	Absorbed int64 // Requests merged into an already pending frame
}

// New creates a Scheduler on the given clock.
func New(clock FrameClock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Schedule requests fn at the next frame. It returns false when a frame is
// already pending, in which case fn is dropped and the pending callback runs instead.
func (s *Scheduler) Schedule(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		s.absorbed++
		return false
	}

	s.pending = true
	s.gen++
	s.armed++
	gen := s.gen
	s.cancel = s.clock.AfterFrame(func() {
		s.mu.Lock()
		if !s.pending || s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.cancel = nil
		s.mu.Unlock()

		fn()
	})
	return true
}

// Pending reports whether a frame is armed and has not started.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Cancel disarms the pending frame, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.pending = false
	s.cancel = nil
	s.gen++
}

// Stats returns the scheduling counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Armed: s.armed, Absorbed: s.absorbed}
}
