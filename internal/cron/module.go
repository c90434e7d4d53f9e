package cron

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(fx.Annotated{
		Group:  "task",
		Target: NewListenImport,
	}),
	fx.Provide(fx.Annotated{
		Group:  "task",
		Target: NewRewardConfirmation,
	}),
	fx.Provide(fx.Annotated{
		Group:  "task",
		Target: NewMintConfirmation,
	}),
	fx.Provide(fx.Annotated{
		Group:  "task",
		Target: NewBadgeUpdate,
	}),
	fx.Provide(fx.Annotated{
		Group:  "task",
		Target: NewListenCleanup,
	}),
)
