package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/badge"
	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/cron"
	"github.com/sybel-io/settlement/internal/services"
	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/tally"
	"github.com/sybel-io/settlement/internal/tracer"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/timesource"
	"github.com/sybel-io/settlement/internal/warehouse"
)

func main() {
	manager := startManager()
	manager.WaitForInterrupt()
}

func startManager(opts ...fx.Option) services.SystemManager {
	manager := services.NewManager()
	logger := manager.Logger()
	ctx := manager.Context()

	opts = append(
		opts,
		badge.Module,
		chain.Module,
		config.Module,
		cron.Module,
		fxparams.Module,
		settlement.Module,
		storage.Module,
		tally.Module,
		timesource.Module,
		tracer.Module,
		warehouse.Module,
		fx.NopLogger,
		fx.Provide(func() services.SystemManager { return manager }),
		fx.Provide(func() *zap.Logger { return logger }),
		fx.Invoke(cron.RegisterRunner),
	)
	app := fx.New(opts...)

	if err := app.Start(ctx); err != nil {
		logger.Fatal("failed to start app", zap.Error(err))
	}
	manager.AddPreShutdownHook(func() {
		logger.Info("shutting down cron")
		if err := app.Stop(ctx); err != nil {
			logger.Error("failed to stop app", zap.Error(err))
		}
	})

	logger.Info("started cron")
	return manager
}
