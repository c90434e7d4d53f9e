package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		rps       int
		expected  int
		unlimited bool
	}{
		{name: "zero", rps: 0, unlimited: true},
		{name: "negative", rps: -1, unlimited: true},
		{name: "limited", rps: 25, expected: 25},
		{name: "burst above calls", rps: 120, expected: 120, unlimited: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := testutil.Require(t)

			limiter := New(test.rps)
			require.Equal(test.expected, limiter.RPS())
			require.Equal(test.unlimited, allowsCalls(limiter, 100))
			require.NoError(limiter.Wait(context.Background()))
		})
	}
}

func TestWait_ContextDone(t *testing.T) {
	require := testutil.Require(t)

	limiter := New(1)
	require.True(limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(limiter.Wait(ctx))
}

func allowsCalls(limiter *RateLimiter, calls int) bool {
	for i := 0; i < calls; i++ {
		if !limiter.Allow() {
			return false
		}
	}
	return true
}
