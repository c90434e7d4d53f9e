package cron

import (
	"context"

	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	ListenCleanupTaskParams struct {
		fx.In
		fxparams.Params
		Cleaner    *settlement.Cleaner
		TimeSource timesource.TimeSource
	}

	listenCleanupTask struct {
		schedule
		cleaner    *settlement.Cleaner
		timeSource timesource.TimeSource
	}
)

func NewListenCleanup(params ListenCleanupTaskParams) Task {
	return &listenCleanupTask{
		schedule:   newSchedule("listen_cleanup", params.Config.Cron.ListenCleanup),
		cleaner:    params.Cleaner,
		timeSource: params.TimeSource,
	}
}

func (t *listenCleanupTask) Run(ctx context.Context) error {
	return t.cleaner.Run(ctx, t.timeSource.Now())
}
