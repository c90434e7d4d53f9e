package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

type fakeTask struct {
	name     string
	spec     string
	disabled bool
	calls    int32
	runFn    func(ctx context.Context) error
}

var _ Task = (*fakeTask)(nil)

func (t *fakeTask) Name() string {
	return t.name
}

func (t *fakeTask) Spec() string {
	return t.spec
}

func (t *fakeTask) Enabled() bool {
	return !t.disabled
}

func (t *fakeTask) Run(ctx context.Context) error {
	atomic.AddInt32(&t.calls, 1)
	if t.runFn != nil {
		return t.runFn(ctx)
	}
	return nil
}

func (t *fakeTask) numCalls() int {
	return int(atomic.LoadInt32(&t.calls))
}

const testTimeout = time.Minute

func TestSchedule(t *testing.T) {
	require := testutil.Require(t)

	s := newSchedule("listen_import", config.TaskConfig{Spec: "20 * * * *"})
	require.Equal("listen_import", s.Name())
	require.Equal("20 * * * *", s.Spec())
	require.True(s.Enabled())

	s = newSchedule("badge_update", config.TaskConfig{Spec: "0 0 * * 1", Disabled: true})
	require.False(s.Enabled())
}
