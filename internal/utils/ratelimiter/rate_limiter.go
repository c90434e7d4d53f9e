package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
	"golang.org/x/xerrors"
)

// RateLimiter paces the calls made to the chain RPC node.
// The nil *RateLimiter returned for a zero rps never blocks.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New allows up to rps calls per second, with bursts of the same size.
func New(rps int) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), rps)}
}

// Wait blocks until a call is allowed or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return xerrors.Errorf("rate limiter wait interrupted: %w", err)
	}
	return nil
}

// Allow consumes a token without blocking, reporting whether one was available.
func (l *RateLimiter) Allow() bool {
	return l == nil || l.limiter.Allow()
}

// RPS is zero when unlimited.
func (l *RateLimiter) RPS() int {
	if l == nil {
		return 0
	}
	return int(l.limiter.Limit())
}
