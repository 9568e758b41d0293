package utils

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum interval between consecutive calls. Callers
// that arrive early are delayed, never rejected. A single Throttle must be
// shared by everything that counts against the same limit.
type Throttle struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastCall    time.Time
}

// NewThrottle creates a Throttle allowing one call per minInterval.
// A zero interval disables throttling.
func NewThrottle(minInterval time.Duration) *Throttle {
	return &Throttle{minInterval: minInterval}
}

// Wait blocks until the next call is allowed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.minInterval > 0 && !t.lastCall.IsZero() {
		if wait := t.minInterval - time.Since(t.lastCall); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	t.lastCall = time.Now()
	return nil
}
