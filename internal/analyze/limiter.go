package analyze

import (
	"context"
	"time"
)

// Limiter is the courtesy delay applied before calls to an external
// dependency. It is injected per dependency so tests can run without real
// delays and so the policy can change without touching the pipeline.
type Limiter interface {
	Wait(ctx context.Context) error
}

// FixedDelayLimiter sleeps a fixed duration on every Wait. Naive on purpose:
// it doesn't adapt to upstream error rates, it just spaces requests out.
type FixedDelayLimiter struct {
	delay time.Duration
}

func NewFixedDelayLimiter(delay time.Duration) *FixedDelayLimiter {
	return &FixedDelayLimiter{delay: delay}
}

func (l *FixedDelayLimiter) Wait(ctx context.Context) error {
	timer := time.NewTimer(l.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NopLimiter waits for nothing. Used in tests and one-shot CLI runs.
type NopLimiter struct{}

func (NopLimiter) Wait(ctx context.Context) error { return ctx.Err() }
