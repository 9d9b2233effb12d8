// Package retrylimit pairs an adaptive rate limiter with exponential-backoff
// retries for REST clients that get throttled, such as command registration
// against the Discord API.
package retrylimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter adjusts its rate from request outcomes: up on success, halved on
// failure. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	min     rate.Limit
	max     rate.Limit
}

// NewLimiter returns a limiter starting at initial requests per second,
// bounded by min and max.
func NewLimiter(initial, min, max rate.Limit) *Limiter {
	if initial < min {
		initial = min
	}
	return &Limiter{
		limiter: rate.NewLimiter(initial, 1),
		min:     min,
		max:     max,
	}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Success nudges the rate up by one request per second.
func (l *Limiter) Success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set(l.limiter.Limit() + 1)
}

// Backoff halves the rate after a failure.
func (l *Limiter) Backoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set(l.limiter.Limit() / 2)
}

func (l *Limiter) set(limit rate.Limit) {
	if limit > l.max {
		limit = l.max
	}
	if limit < l.min {
		limit = l.min
	}
	l.limiter.SetLimit(limit)
}

// Config controls retry behavior for Do.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Do runs fn until it succeeds, ctx is done, or MaxAttempts is exhausted,
// waiting on the limiter before every attempt and doubling the delay after
// every failure.
func Do(ctx context.Context, lim *Limiter, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		if err = fn(); err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}
		if lim != nil {
			lim.Backoff()
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return fmt.Errorf("retrylimit: %d attempts exhausted: %w", cfg.MaxAttempts, err)
}
