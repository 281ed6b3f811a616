package timer

import (
	"sync"
	"time"
)

// Scheduler manages single-shot deferred re-checks keyed by concern
// (holiday expiry, meeting expiry, calendar boundary). Scheduling a key that
// already has a pending timer replaces it; duplicate timers never
// accumulate. Targets in the past fire immediately, which covers
// restart-while-asleep and missed-wake scenarios.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	timers  map[string]Timer
	stopped bool
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock, timers: make(map[string]Timer)}
}

// Schedule arranges fn to run once at the target time, replacing any pending
// timer under the same key.
func (s *Scheduler) Schedule(key string, at time.Time, fn func()) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if prev, ok := s.timers[key]; ok {
		prev.Stop()
		delete(s.timers, key)
	}

	d := at.Sub(s.clock.Now())
	if d < 0 {
		d = 0
	}

	var t Timer
	t = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		if cur, ok := s.timers[key]; ok && cur == t {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		fn()
	})
	s.timers[key] = t
	s.mu.Unlock()
}

// Cancel drops the pending timer for key, if any.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// StopAll cancels every pending timer and refuses further scheduling.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}
