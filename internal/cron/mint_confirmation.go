package cron

import (
	"context"

	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
)

type (
	MintConfirmationTaskParams struct {
		fx.In
		fxparams.Params
		MintTracker *settlement.MintTracker
	}

	mintConfirmationTask struct {
		schedule
		mintTracker *settlement.MintTracker
	}
)

func NewMintConfirmation(params MintConfirmationTaskParams) Task {
	return &mintConfirmationTask{
		schedule:    newSchedule("mint_confirmation", params.Config.Cron.MintConfirmation),
		mintTracker: params.MintTracker,
	}
}

func (t *mintConfirmationTask) Run(ctx context.Context) error {
	return t.mintTracker.Run(ctx)
}
