package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/retry"
)

type (
	Params struct {
		fx.In
		fxparams.Params
		Lifecycle fx.Lifecycle
	}
)

func NewDocStore(params Params) (internal.Result, error) {
	ctx := context.Background()
	config := params.Config.GCP
	if config == nil {
		return internal.Result{}, xerrors.Errorf("failed to create firestore doc store: missing GCP config")
	}

	client, err := firestore.NewClient(ctx, config.Project)
	if err != nil {
		return internal.Result{}, xerrors.Errorf("failed to create firestore client: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	logger := log.WithPackage(params.Logger)
	logger.Info("initialized firestore client", zap.String("project", config.Project))

	return internal.Result{
		WatermarkStorage:       newWatermarkStorage(params, client),
		ListenStorage:          newListenStorage(params, client),
		PodcastStorage:         newPodcastStorage(params, client),
		WalletStorage:          newWalletStorage(params, client),
		ConsumedContentStorage: newConsumedContentStorage(params, client),
		SettlementStorage:      newSettlementStorage(params, client),
	}, nil
}

func newReadRetry[T any](logger *zap.Logger) retry.Retry[T] {
	return retry.New[T](retry.WithLogger(logger))
}
