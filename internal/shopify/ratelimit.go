package shopify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces Admin API calls with a token bucket. After Shopify
// reports throttling, Pause holds back every caller until the cooldown
// has elapsed.
type RateLimiter struct {
	limiter *rate.Limiter

	mu          sync.Mutex
	pausedUntil time.Time
	nowFunc     func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter with the given per-second rate and
// burst size.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	r := &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until the call is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if d := r.PauseRemaining(); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting out throttle: %w", ctx.Err())
		case <-t.C:
		}
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Pause delays subsequent calls by d. A shorter pause never shortens an
// existing one.
func (r *RateLimiter) Pause(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until := r.nowFunc().Add(d)
	if until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

// PauseRemaining returns how long callers are still held back.
func (r *RateLimiter) PauseRemaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.pausedUntil.Sub(r.nowFunc())
	if d < 0 {
		return 0
	}
	return d
}
