package settlement

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
)

type (
	// Cleaner deletes the listens past the retention period, except the ones waiting for a confirmation.
	Cleaner struct {
		logger        *zap.Logger
		retention     time.Duration
		listenStorage storage.ListenStorage
	}

	CleanerParams struct {
		fx.In
		fxparams.Params
		ListenStorage storage.ListenStorage
	}
)

func NewCleaner(params CleanerParams) *Cleaner {
	return &Cleaner{
		logger:        log.WithPackage(params.Logger),
		retention:     params.Config.Settlement.Retention,
		listenStorage: params.ListenStorage,
	}
}

func (c *Cleaner) Run(ctx context.Context, now time.Time) error {
	before := now.Add(-c.retention)
	deleted, err := c.listenStorage.DeleteExpiredListens(ctx, before)
	if err != nil {
		return xerrors.Errorf("failed to delete listens before %v: %w", before, err)
	}

	c.logger.Info("deleted expired listens", zap.Int("deleted", deleted), zap.Time("before", before))
	return nil
}
