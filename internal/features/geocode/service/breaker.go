package service

import (
	"sync"
	"time"
)

// failureBreaker is a time-windowed consecutive failure counter. Once the
// threshold is reached the breaker opens and callers short-circuit to the
// fallback until a success resets it or the window expires. The counter is
// a soft protective gate: occasional undercounting under contention is
// acceptable, losing a reset is not, so a mutex keeps it simple.
type failureBreaker struct {
	mu          sync.Mutex
	threshold   int
	window      time.Duration
	notifyEvery time.Duration

	failures    int
	windowStart time.Time
	lastNotify  time.Time

	now func() time.Time
}

func newFailureBreaker(threshold int, window, notifyEvery time.Duration) *failureBreaker {
	return &failureBreaker{
		threshold:   threshold,
		window:      window,
		notifyEvery: notifyEvery,
		now:         time.Now,
	}
}

// Open reports whether calls should short-circuit to the fallback.
func (b *failureBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.expireLocked()
	return b.failures >= b.threshold
}

// RecordFailure increments the counter. It returns the failure count, whether
// this failure opened the breaker, and whether an operator notification
// should be sent (throttled to one per notifyEvery).
func (b *failureBreaker) RecordFailure() (failures int, opened, notify bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.expireLocked()

	if b.failures == 0 {
		b.windowStart = b.now()
	}
	b.failures++

	if b.failures >= b.threshold {
		opened = b.failures == b.threshold
		if b.lastNotify.IsZero() || b.now().Sub(b.lastNotify) >= b.notifyEvery {
			b.lastNotify = b.now()
			notify = true
		}
	}

	return b.failures, opened, notify
}

// RecordSuccess resets the counter, closing the breaker.
func (b *failureBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.windowStart = time.Time{}
}

// expireLocked clears counts older than the rolling window.
func (b *failureBreaker) expireLocked() {
	if b.failures > 0 && b.now().Sub(b.windowStart) >= b.window {
		b.failures = 0
		b.windowStart = time.Time{}
	}
}
