package loop

import (
	"sync"
	"time"
)

// Handle identifies one pending scheduled callback. The zero Handle is
// never issued.
type Handle uint64

// Scheduler runs a callback once, at the next frame boundary.
type Scheduler interface {
	Schedule(fn func(now time.Time)) Handle
	// Cancel drops a pending callback. It reports false when h already ran,
	// was already cancelled, or was never issued.
	Cancel(h Handle) bool
}

// TimerScheduler fires callbacks after a fixed frame interval.
type TimerScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	next    Handle
	pending map[Handle]*time.Timer
}

// NewTimerScheduler schedules at fps frames per second.
func NewTimerScheduler(fps int) *TimerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TimerScheduler{
		interval: time.Second / time.Duration(fps),
		pending:  make(map[Handle]*time.Timer),
	}
}

// Interval returns the frame interval.
func (s *TimerScheduler) Interval() time.Duration { return s.interval }

func (s *TimerScheduler) Schedule(fn func(now time.Time)) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := s.next
	s.pending[h] = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		_, ok := s.pending[h]
		delete(s.pending, h)
		s.mu.Unlock()
		if ok {
			fn(time.Now())
		}
	})
	return h
}

func (s *TimerScheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.pending[h]
	if !ok {
		return false
	}
	delete(s.pending, h)
	t.Stop()
	return true
}

// Pending returns the number of callbacks waiting to fire.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
