package timer

import (
	"sync"
	"time"
)

// Scheduler delivers periodic callbacks until stopped. Stop must not wait
// for an in-flight callback to return.
type Scheduler interface {
	Start(fn func())
	Stop()
}

// TickerScheduler calls fn from its own goroutine on every tick of a
// time.Ticker.
type TickerScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	done chan struct{}
}

// NewTickerScheduler returns a scheduler firing every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{interval: interval}
}

// Start replaces any running ticker with one calling fn.
func (s *TickerScheduler) Start(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		close(s.done)
	}
	done := make(chan struct{})
	s.done = done

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop halts the ticker. Callbacks already running are not waited for.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}
