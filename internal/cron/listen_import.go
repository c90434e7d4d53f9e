package cron

import (
	"context"
	"sync/atomic"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/syncgroup"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	ListenImportTaskParams struct {
		fx.In
		fxparams.Params
		Importer       *settlement.Importer
		WalletResolver *settlement.WalletResolver
		Aggregator     *settlement.Aggregator
		TimeSource     timesource.TimeSource
	}

	// listenImportTask imports the new listens, then pays the users they belong to.
	listenImportTask struct {
		schedule
		parallelism    int
		logger         *zap.Logger
		importer       *settlement.Importer
		walletResolver *settlement.WalletResolver
		aggregator     *settlement.Aggregator
		timeSource     timesource.TimeSource
	}
)

func NewListenImport(params ListenImportTaskParams) Task {
	return &listenImportTask{
		schedule:       newSchedule("listen_import", params.Config.Cron.ListenImport),
		parallelism:    params.Config.Settlement.Parallelism,
		logger:         log.WithPackage(params.Logger),
		importer:       params.Importer,
		walletResolver: params.WalletResolver,
		aggregator:     params.Aggregator,
		timeSource:     params.TimeSource,
	}
}

func (t *listenImportTask) Run(ctx context.Context) error {
	userIDs := t.importer.Import(ctx, t.timeSource.Now())
	wallets := t.walletResolver.Resolve(ctx, userIDs)

	var settled int64
	group, groupCtx := syncgroup.New(ctx, syncgroup.WithThrottling(t.parallelism))
	for _, wallet := range wallets {
		wallet := wallet
		group.Go(func() error {
			if _, ok := t.aggregator.Settle(groupCtx, wallet); ok {
				atomic.AddInt64(&settled, 1)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	t.logger.Info(
		"finished listen import",
		zap.Int("users", len(userIDs)),
		zap.Int("wallets", len(wallets)),
		zap.Int64("settled", settled),
	)
	return nil
}
