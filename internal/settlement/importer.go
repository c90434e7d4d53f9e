package settlement

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/syncgroup"
	"github.com/sybel-io/settlement/internal/warehouse"
)

type (
	// Importer copies the new listen events of the warehouse into the listen storage.
	Importer struct {
		logger           *zap.Logger
		config           config.SettlementConfig
		listenSource     warehouse.ListenSource
		watermarkStorage storage.WatermarkStorage
		listenStorage    storage.ListenStorage
		imported         tally.Counter
		debounced        tally.Counter
	}

	ImporterParams struct {
		fx.In
		fxparams.Params
		ListenSource     warehouse.ListenSource
		WatermarkStorage storage.WatermarkStorage
		ListenStorage    storage.ListenStorage
	}
)

func NewImporter(params ImporterParams) *Importer {
	metrics := params.Scoped("importer")
	return &Importer{
		logger:           log.WithPackage(params.Logger),
		config:           params.Config.Settlement,
		listenSource:     params.ListenSource,
		watermarkStorage: params.WatermarkStorage,
		listenStorage:    params.ListenStorage,
		imported:         metrics.Counter("imported"),
		debounced:        metrics.Counter("debounced"),
	}
}

// Import returns the distinct users whose listens were imported.
// Failures are logged and reported as an empty result; the next run picks up from the persisted watermark.
func (i *Importer) Import(ctx context.Context, now time.Time) []string {
	userIDs, err := i.importListens(ctx, now)
	if err != nil {
		i.logger.Warn("failed to import the listen events", zap.Error(err))
		return nil
	}

	return userIDs
}

func (i *Importer) importListens(ctx context.Context, now time.Time) ([]string, error) {
	after := now
	watermark, err := i.watermarkStorage.GetLatestWatermark(ctx)
	if err != nil {
		if !xerrors.Is(err, storage.ErrItemNotFound) {
			return nil, xerrors.Errorf("failed to get latest watermark: %w", err)
		}

		i.logger.Info("no watermark found, importing the listens from now", zap.Time("after", after))
	} else {
		if elapsed := now.Sub(watermark.Timestamp); elapsed < i.config.MinRefreshInterval {
			i.logger.Debug(
				"listens were imported recently, skipping the import",
				zap.Time("watermark", watermark.Timestamp),
				zap.Duration("elapsed", elapsed),
			)
			i.debounced.Inc(1)
			return nil, nil
		}

		after = watermark.Timestamp
	}

	rows, err := i.listenSource.FetchListens(ctx, after)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch listens after %v: %w", after, err)
	}

	if len(rows) == 0 {
		i.logger.Debug("no new listen found", zap.Time("after", after))
		if err := i.watermarkStorage.PersistWatermark(ctx, &model.Watermark{Timestamp: after}); err != nil {
			return nil, xerrors.Errorf("failed to persist watermark: %w", err)
		}
		return nil, nil
	}

	records := make([]*model.ListenRecord, len(rows))
	for j, row := range rows {
		records[j] = &model.ListenRecord{
			UserID:   row.UserID,
			SeriesID: row.SeriesID,
			Date:     row.Timestamp,
		}
	}

	// Every batch must be written before the watermark moves past it.
	group, groupCtx := syncgroup.New(ctx)
	for _, batch := range lo.Chunk(records, i.config.WriteBatchSize) {
		batch := batch
		group.Go(func() error {
			if err := i.listenStorage.AddListens(groupCtx, batch); err != nil {
				return xerrors.Errorf("failed to add %d listens: %w", len(batch), err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	latest := rows[len(rows)-1].Timestamp
	if err := i.watermarkStorage.PersistWatermark(ctx, &model.Watermark{
		Timestamp:   latest,
		ImportCount: len(rows),
	}); err != nil {
		return nil, xerrors.Errorf("failed to persist watermark: %w", err)
	}

	userIDs := lo.Uniq(lo.Map(rows, func(row *warehouse.ListenRow, _ int) string {
		return row.UserID
	}))
	i.imported.Inc(int64(len(rows)))
	i.logger.Info(
		"imported listens",
		zap.Int("listens", len(rows)),
		zap.Int("users", len(userIDs)),
		zap.Time("watermark", latest),
	)
	return userIDs, nil
}
