package syncgroup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestSyncGroup(t *testing.T) {
	require := testutil.Require(t)

	var sum int64
	g, _ := New(context.Background())
	for i := 1; i <= 10; i++ {
		i := int64(i)
		g.Go(func() error {
			atomic.AddInt64(&sum, i)
			return nil
		})
	}
	require.NoError(g.Wait())
	require.Equal(int64(55), sum)
}

func TestSyncGroup_Error(t *testing.T) {
	require := testutil.Require(t)

	errMock := xerrors.New("payment failed")
	g, ctx := New(context.Background())
	g.Go(func() error {
		return errMock
	})
	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := g.Wait()
	require.ErrorIs(err, errMock)
	require.ErrorIs(ctx.Err(), context.Canceled)
}

func TestSyncGroup_WithThrottling(t *testing.T) {
	require := testutil.Require(t)

	const limit = 3
	var running, peak int64
	g, _ := New(context.Background(), WithThrottling(limit))
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&running, -1)
			return nil
		})
	}
	require.NoError(g.Wait())
	require.LessOrEqual(atomic.LoadInt64(&peak), int64(limit))
	require.Greater(atomic.LoadInt64(&peak), int64(0))
}

func TestSyncGroup_SkipAfterError(t *testing.T) {
	require := testutil.Require(t)

	errMock := xerrors.New("store unavailable")
	var calls int64
	g, _ := New(context.Background(), WithThrottling(1))
	g.Go(func() error {
		atomic.AddInt64(&calls, 1)
		return errMock
	})
	for i := 0; i < 5; i++ {
		g.Go(func() error {
			atomic.AddInt64(&calls, 1)
			return nil
		})
	}

	require.ErrorIs(g.Wait(), errMock)
	require.Equal(int64(1), atomic.LoadInt64(&calls))
}

func TestSyncGroup_ParentCanceled(t *testing.T) {
	require := testutil.Require(t)

	parent, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	g, _ := New(parent, WithThrottling(2))
	g.Go(func() error {
		atomic.AddInt64(&calls, 1)
		return nil
	})

	require.ErrorIs(g.Wait(), context.Canceled)
	require.Equal(int64(0), atomic.LoadInt64(&calls))
}
