package cron

import (
	"context"

	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/badge"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
)

type (
	BadgeUpdateTaskParams struct {
		fx.In
		fxparams.Params
		Engine *badge.Engine
	}

	badgeUpdateTask struct {
		schedule
		engine *badge.Engine
	}
)

func NewBadgeUpdate(params BadgeUpdateTaskParams) Task {
	return &badgeUpdateTask{
		schedule: newSchedule("badge_update", params.Config.Cron.BadgeUpdate),
		engine:   params.Engine,
	}
}

func (t *badgeUpdateTask) Run(ctx context.Context) error {
	return t.engine.Run(ctx)
}
