package services

import (
	"context"
	"sync"
	"time"

	"scholardash/internal/app/ports"
)

// Throttle enforces a minimum interval between the starts of consecutive
// provider calls, process-wide. Callers block until eligible; the shared
// last-call timestamp advances exactly once per attempted call, whatever
// the call's outcome, so failure-driven retries cannot defeat the pacing.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// NewThrottle builds a throttle on the real clock.
func NewThrottle(interval time.Duration) *Throttle {
	return NewThrottleWithClock(interval, time.Now, sleepContext)
}

// NewThrottleWithClock builds a throttle with an injected clock and sleep,
// so tests can drive time deterministically.
func NewThrottleWithClock(interval time.Duration, now func() time.Time, sleep func(context.Context, time.Duration) error) *Throttle {
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = sleepContext
	}
	return &Throttle{interval: interval, now: now, sleep: sleep}
}

// Wait blocks until the minimum interval since the previous attempted call
// has elapsed, then records this call's start time. A wait aborted by the
// context returns the context error without recording a call, because the
// provider was never reached.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.last.IsZero() && t.interval > 0 {
		if wait := t.interval - now.Sub(t.last); wait > 0 {
			if err := t.sleep(ctx, wait); err != nil {
				return err
			}
			now = t.now()
		}
	}
	t.last = now
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ThrottledSource decorates an AuthorSource so every lookup passes the
// shared throttle first. The pipeline and the CLI probe wrap the same gate,
// keeping the delay process-wide.
type ThrottledSource struct {
	source ports.AuthorSource
	gate   *Throttle
}

// NewThrottledSource wraps source behind gate.
func NewThrottledSource(source ports.AuthorSource, gate *Throttle) *ThrottledSource {
	return &ThrottledSource{source: source, gate: gate}
}

// FetchByScholarID waits out the gate, then fetches by provider identifier.
func (s *ThrottledSource) FetchByScholarID(ctx context.Context, scholarID string) ports.FetchOutcome {
	if err := s.gate.Wait(ctx); err != nil {
		return ports.FetchOutcome{Status: ports.FetchSourceError, Reason: "throttle wait aborted: " + err.Error()}
	}
	return s.source.FetchByScholarID(ctx, scholarID)
}

// SearchByName waits out the gate, then searches by display name.
func (s *ThrottledSource) SearchByName(ctx context.Context, name string) ports.FetchOutcome {
	if err := s.gate.Wait(ctx); err != nil {
		return ports.FetchOutcome{Status: ports.FetchSourceError, Reason: "throttle wait aborted: " + err.Error()}
	}
	return s.source.SearchByName(ctx, name)
}

var _ ports.AuthorSource = (*ThrottledSource)(nil)
