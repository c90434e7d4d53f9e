package cron

import (
	"context"

	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
)

type (
	RewardConfirmationTaskParams struct {
		fx.In
		fxparams.Params
		RewardTracker *settlement.RewardTracker
	}

	rewardConfirmationTask struct {
		schedule
		rewardTracker *settlement.RewardTracker
	}
)

func NewRewardConfirmation(params RewardConfirmationTaskParams) Task {
	return &rewardConfirmationTask{
		schedule:      newSchedule("reward_confirmation", params.Config.Cron.RewardConfirmation),
		rewardTracker: params.RewardTracker,
	}
}

func (t *rewardConfirmationTask) Run(ctx context.Context) error {
	return t.rewardTracker.Run(ctx)
}
