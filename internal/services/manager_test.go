package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap/zaptest"

	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestManager_Shutdown(t *testing.T) {
	require := testutil.Require(t)

	logger := zaptest.NewLogger(t)
	manager := NewManager(WithLogger(logger), WithContext(context.Background()))
	require.Equal(logger, ctxzap.Extract(manager.Context()))
	require.Equal(logger, manager.Logger())

	var hooks int32
	for i := 0; i < 2; i++ {
		manager.AddPreShutdownHook(func() {
			// The service context is canceled after the hooks.
			require.NoError(manager.ServiceContext().Err())
			atomic.AddInt32(&hooks, 1)
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		manager.WaitForInterrupt()
	}()

	manager.Shutdown()
	<-done

	require.Equal(int32(2), atomic.LoadInt32(&hooks))
	require.ErrorIs(manager.ServiceContext().Err(), context.Canceled)
	require.NoError(manager.Context().Err())

	manager.Shutdown()
}

func TestMockManager_Shutdown(t *testing.T) {
	require := testutil.Require(t)

	manager := NewMockSystemManager()
	calls := 0
	manager.AddPreShutdownHook(func() { calls += 1 })
	manager.AddPreShutdownHook(func() { calls += 1 })
	manager.Shutdown()
	require.Equal(2, calls)
	require.NoError(manager.ServiceContext().Err())
}
