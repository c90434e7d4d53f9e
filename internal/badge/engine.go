package badge

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/consts"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/syncgroup"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	// Engine recomputes the cost badge of every buyable fraction of the mature podcasts.
	Engine struct {
		logger         *zap.Logger
		config         config.BadgeConfig
		chain          chain.Client
		podcastStorage storage.PodcastStorage
		timeSource     timesource.TimeSource
		metrics        *engineMetrics
	}

	EngineParams struct {
		fx.In
		fxparams.Params
		Chain          chain.Client
		PodcastStorage storage.PodcastStorage
		TimeSource     timesource.TimeSource
	}

	engineMetrics struct {
		badgeUpdated      tally.Counter
		badgeUpdateFailed tally.Counter
		badgeSkipped      tally.Counter
		txFailed          tally.Counter
		invalidMint       tally.Counter
	}

	// blockClock resolves block timestamps once per run.
	blockClock struct {
		chain      chain.Client
		mu         sync.Mutex
		timestamps map[uint64]time.Time
	}
)

func NewEngine(params EngineParams) *Engine {
	metrics := params.Scoped("badge")
	return &Engine{
		logger:         log.WithPackage(params.Logger),
		config:         params.Config.Badge,
		chain:          params.Chain,
		podcastStorage: params.PodcastStorage,
		timeSource:     params.TimeSource,
		metrics: &engineMetrics{
			badgeUpdated:      metrics.Counter("updated"),
			badgeUpdateFailed: metrics.Counter("update_failed"),
			badgeSkipped:      metrics.Counter("skipped"),
			txFailed:          metrics.Counter("tx_failed"),
			invalidMint:       metrics.Counter("invalid_mint"),
		},
	}
}

// Run only fails when the run cannot start. Failures of a single podcast or fraction are logged and skipped.
func (e *Engine) Run(ctx context.Context) error {
	now := e.timeSource.Now()
	podcasts, err := e.podcastStorage.GetMaturePodcasts(ctx, now.Add(-e.config.Maturity))
	if err != nil {
		return xerrors.Errorf("failed to get mature podcasts: %w", err)
	}

	e.logger.Info("started the fraction cost badges update", zap.Int("podcasts", len(podcasts)))
	if len(podcasts) == 0 {
		return nil
	}

	events, err := e.chain.GetFractionMintEvents(ctx)
	if err != nil {
		return xerrors.Errorf("failed to get fraction mint events: %w", err)
	}

	mintsByFraction := make(map[fraction.ID][]*chain.FractionMintEvent)
	for _, event := range events {
		mintsByFraction[event.FractionID] = append(mintsByFraction[event.FractionID], event)
	}

	timePeriods := TimePeriods(now, e.config.Week)
	clock := &blockClock{chain: e.chain, timestamps: make(map[uint64]time.Time)}

	var mu sync.Mutex
	var txHashes []common.Hash
	group, groupCtx := syncgroup.New(ctx, syncgroup.WithThrottling(e.config.Parallelism))
	for _, podcast := range podcasts {
		podcast := podcast
		group.Go(func() error {
			hashes := e.updatePodcast(groupCtx, podcast, mintsByFraction, timePeriods, clock, now)
			mu.Lock()
			defer mu.Unlock()
			txHashes = append(txHashes, hashes...)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return xerrors.Errorf("failed to update badges: %w", err)
	}

	e.waitMined(ctx, txHashes)
	e.logger.Info("finished the fraction cost badges update", zap.Int("transactions", len(txHashes)))
	return nil
}

func (e *Engine) updatePodcast(
	ctx context.Context,
	podcast *model.MintedPodcast,
	mintsByFraction map[fraction.ID][]*chain.FractionMintEvent,
	timePeriods Periods,
	clock *blockClock,
	now time.Time,
) []common.Hash {
	logger := e.logger.With(zap.String("series_id", podcast.SeriesID))
	if !podcast.IsMinted() {
		return nil
	}

	// Tiers left untouched by this run keep the period of their last computation.
	previous := podcast.PreviousCostUpdate
	periodsByTier := make(map[fraction.TokenType]model.CostBadgeUpdatePeriod)
	if previous != nil {
		for tokenType, period := range previous.Periods {
			periodsByTier[tokenType] = period
		}
	}

	var hashes []common.Hash
	for _, tokenType := range fraction.BuyableTokenTypes {
		id, err := podcast.FractionID(tokenType)
		if err != nil {
			logger.Warn("invalid fraction id", zap.Error(err))
			return nil
		}

		fractionLogger := logger.With(zap.Stringer("fraction_id", id))
		events := mintsByFraction[id]
		if len(events) == 0 {
			fractionLogger.Debug("no mint event found for this fraction, keeping its badge")
			e.metrics.badgeSkipped.Inc(1)
			continue
		}

		periods := timePeriods
		if period, ok := previous.PeriodOf(tokenType); ok {
			periods = BlockPeriods(period)
		}

		hash, counts, err := e.updateFraction(ctx, id, events, periods, clock, fractionLogger)
		if err != nil {
			fractionLogger.Warn("failed to update the fraction badge", zap.Error(err))
			e.metrics.badgeUpdateFailed.Inc(1)
			continue
		}

		e.metrics.badgeUpdated.Inc(1)
		hashes = append(hashes, hash)
		periodsByTier[tokenType] = counts.Period
	}

	if len(hashes) == 0 {
		return nil
	}

	txHashes := make([]string, len(hashes))
	for i, hash := range hashes {
		txHashes[i] = hash.Hex()
	}
	update := &model.PreviousCostUpdate{
		Periods:   periodsByTier,
		TxHashes:  txHashes,
		UpdatedAt: now,
	}
	if err := e.podcastStorage.SetPreviousCostUpdate(ctx, podcast.ID, update); err != nil {
		logger.Error("failed to store the cost update periods", zap.Error(err), zap.Reflect("periods", update.Periods))
	}

	return hashes
}

func (e *Engine) updateFraction(
	ctx context.Context,
	id fraction.ID,
	events []*chain.FractionMintEvent,
	periods Periods,
	clock *blockClock,
	logger *zap.Logger,
) (common.Hash, Counts, error) {
	previousCost, err := e.chain.GetBadge(ctx, id)
	if err != nil {
		return common.Hash{}, Counts{}, xerrors.Errorf("failed to get badge: %w", err)
	}

	mints := make([]Mint, 0, len(events))
	for _, event := range events {
		if event.Value == nil || !event.Value.IsUint64() {
			logger.Warn(
				"skipping mint event with an out of range value",
				zap.Stringer("value", event.Value),
				zap.Uint64("block_number", event.BlockNumber),
				zap.String("tx_hash", event.TxHash.Hex()),
			)
			e.metrics.invalidMint.Inc(1)
			continue
		}

		mint := Mint{
			Count:       event.Value.Uint64(),
			BlockNumber: event.BlockNumber,
		}
		if !periods.IsBlockBased() {
			timestamp, err := clock.timestamp(ctx, event.BlockNumber)
			if err != nil {
				return common.Hash{}, Counts{}, err
			}
			mint.Timestamp = timestamp
		}
		mints = append(mints, mint)
	}
	counts := CountMints(mints, periods)

	supply, err := e.chain.SupplyOf(ctx, id)
	if err != nil {
		return common.Hash{}, Counts{}, xerrors.Errorf("failed to get supply: %w", err)
	}

	newCost := ComputeBadge(previousCost, counts, supply)
	hash, err := e.chain.UpdateBadge(ctx, id, newCost)
	if err != nil {
		return common.Hash{}, Counts{}, xerrors.Errorf("failed to send badge update: %w", err)
	}

	logger.Info(
		"badge evolved",
		zap.String("from", toTSE(previousCost)),
		zap.String("to", toTSE(newCost)),
		zap.Uint64("total", counts.Total),
		zap.Uint64("current_week", counts.CurrentWeek),
		zap.Uint64("last_week", counts.LastWeek),
		zap.Stringer("supply", supply),
		zap.String("tx_hash", hash.Hex()),
	)
	return hash, counts, nil
}

// waitMined waits for every badge update. Failures are only logged.
func (e *Engine) waitMined(ctx context.Context, hashes []common.Hash) {
	group, groupCtx := syncgroup.New(ctx, syncgroup.WithThrottling(e.config.Parallelism))
	for _, hash := range hashes {
		hash := hash
		group.Go(func() error {
			receipt, err := e.chain.WaitMined(groupCtx, hash)
			if err != nil {
				e.metrics.txFailed.Inc(1)
				e.logger.Warn("badge update not mined", zap.String("tx_hash", hash.Hex()), zap.Error(err))
				return nil
			}

			e.logger.Debug(
				"badge update mined",
				zap.String("tx_hash", hash.Hex()),
				zap.Uint64("block_number", receipt.BlockNumber),
				zap.String("block_hash", receipt.BlockHash.Hex()),
			)
			return nil
		})
	}
	_ = group.Wait()
}

func (c *blockClock) timestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	c.mu.Lock()
	timestamp, ok := c.timestamps[blockNumber]
	c.mu.Unlock()
	if ok {
		return timestamp, nil
	}

	timestamp, err := c.chain.GetBlockTimestamp(ctx, blockNumber)
	if err != nil {
		return time.Time{}, xerrors.Errorf("failed to get timestamp of block %v: %w", blockNumber, err)
	}

	c.mu.Lock()
	c.timestamps[blockNumber] = timestamp
	c.mu.Unlock()
	return timestamp, nil
}

func toTSE(amount *big.Int) string {
	return decimal.NewFromBigInt(amount, -consts.TokenDecimals).String()
}
