package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type (
	// Retry re-runs an operation while it fails with a transient error.
	// Only errors marked with Retryable or RateLimit are retried, even when wrapped.
	// Everything else, ledger submissions included, fails on the first attempt.
	Retry[T any] interface {
		Retry(ctx context.Context, operation Operation[T]) (T, error)
	}

	Operation[T any] func(ctx context.Context) (T, error)

	Option func(p *policy)

	policy struct {
		maxAttempts    int
		newBackoff     func() backoff.BackOff
		rateLimitDelay time.Duration
		logger         *zap.Logger
	}

	retrier[T any] struct {
		policy
	}
)

const (
	DefaultMaxAttempts = 4

	defaultRateLimitDelay = time.Second
)

func New[T any](opts ...Option) Retry[T] {
	p := policy{
		maxAttempts:    DefaultMaxAttempts,
		newBackoff:     exponentialBackoff,
		rateLimitDelay: defaultRateLimitDelay,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&p)
	}

	return &retrier[T]{policy: p}
}

// WithMaxAttempts bounds the number of calls, the first one included.
func WithMaxAttempts(maxAttempts int) Option {
	return func(p *policy) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
	}
}

// WithoutBackoff retries immediately. Rate limited calls are not delayed either.
func WithoutBackoff() Option {
	return func(p *policy) {
		p.newBackoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
		p.rateLimitDelay = 0
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *policy) {
		p.logger = logger
	}
}

func (r *retrier[T]) Retry(ctx context.Context, operation Operation[T]) (T, error) {
	b := r.newBackoff()
	b.Reset()

	for attempt := 1; ; attempt++ {
		res, err := operation(ctx)
		if err == nil {
			return res, nil
		}

		transient, ok := asTransient(err)
		if !ok {
			return res, err
		}

		logger := r.logger.With(zap.Int("attempt", attempt), zap.Error(err))
		if attempt >= r.maxAttempts {
			logger.Warn("giving up after the last attempt")
			return res, err
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			logger.Warn("giving up, retry budget exhausted")
			return res, err
		}
		if transient.rateLimited {
			delay += r.rateLimitDelay
		}

		logger.Warn("retrying transient error", zap.Duration("delay", delay))
		if err := sleep(ctx, delay); err != nil {
			return res, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func exponentialBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = 5 * time.Minute
	return b
}
