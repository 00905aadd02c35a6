package ratelimit

import (
	"context"
	"time"
)

// Limiter paces requests against the target site.
type Limiter interface {
	// Wait blocks until the next request may proceed, or until the
	// context is cancelled.
	Wait(ctx context.Context) error
}

// FixedDelay is the politeness throttle: a fixed pause between
// requests. It is pacing, not rate-limit negotiation.
type FixedDelay struct {
	delay time.Duration
}

// NewFixedDelay creates a fixed-interval limiter. A zero or negative
// delay never blocks.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Wait sleeps for the configured delay, returning early with the
// context's error if the run is cancelled mid-pause.
func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
