package retry

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"golang.org/x/xerrors"
)

// transientError marks a failure worth another attempt.
type transientError struct {
	err         error
	rateLimited bool
}

var _ errors.Wrapper = (*transientError)(nil)

// Retryable marks err as transient, e.g. a connection reset or an unavailable store.
func Retryable(err error) error {
	return &transientError{err: err}
}

// RateLimit marks err as a throttling response. The next attempt waits longer.
func RateLimit(err error) error {
	return &transientError{err: err, rateLimited: true}
}

// IsRetryable returns true if err, or any error it wraps, was marked with Retryable or RateLimit.
func IsRetryable(err error) bool {
	_, ok := asTransient(err)
	return ok
}

func (e *transientError) Error() string {
	if e.rateLimited {
		return fmt.Sprintf("rate limited: %v", e.err)
	}
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *transientError) Unwrap() error {
	return e.err
}

func asTransient(err error) (*transientError, bool) {
	var target *transientError
	if xerrors.As(err, &target) {
		return target, true
	}
	return nil, false
}
