package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/vytor/plantquiz/internal/quiz"
)

// ManualScheduler is a quiz.Scheduler driven by Advance instead of the wall clock.
// Callbacks run on the goroutine calling Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s        *ManualScheduler
	due      time.Duration
	interval time.Duration
	seq      int
	f        func()
	stopped  bool
}

func (t *manualTimer) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) quiz.Timer {
	return s.add(d, 0, f)
}

func (s *ManualScheduler) Every(d time.Duration, f func()) quiz.Timer {
	return s.add(d, d, f)
}

func (s *ManualScheduler) add(d, interval time.Duration, f func()) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, due: s.now + d, interval: interval, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that falls due
// in order of due time, then registration order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.stopped = true
		}
		f := next.f
		s.mu.Unlock()

		f()
	}
}

func (s *ManualScheduler) nextDueLocked(limit time.Duration) *manualTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due != s.timers[j].due {
			return s.timers[i].due < s.timers[j].due
		}
		return s.timers[i].seq < s.timers[j].seq
	})
	if len(s.timers) == 0 || s.timers[0].due > limit {
		return nil
	}
	return s.timers[0]
}

// Pending returns how many timers are still scheduled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Now returns the simulated time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
