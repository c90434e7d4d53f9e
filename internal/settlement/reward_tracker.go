package settlement

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/syncgroup"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	// RewardTracker confirms the listens whose payment has been mined.
	RewardTracker struct {
		logger        *zap.Logger
		config        config.SettlementConfig
		chain         chain.Client
		listenStorage storage.ListenStorage
		timeSource    timesource.TimeSource
		metrics       *trackerMetrics
	}

	RewardTrackerParams struct {
		fx.In
		fxparams.Params
		Chain         chain.Client
		ListenStorage storage.ListenStorage
		TimeSource    timesource.TimeSource
	}

	trackerMetrics struct {
		confirmed tally.Counter
		pending   tally.Counter
		stale     tally.Counter
		reverted  tally.Counter
		failed    tally.Counter
	}
)

func NewRewardTracker(params RewardTrackerParams) *RewardTracker {
	return &RewardTracker{
		logger:        log.WithPackage(params.Logger),
		config:        params.Config.Settlement,
		chain:         params.Chain,
		listenStorage: params.ListenStorage,
		timeSource:    params.TimeSource,
		metrics:       newTrackerMetrics(params.Scoped("reward_tracker")),
	}
}

func newTrackerMetrics(scope tally.Scope) *trackerMetrics {
	return &trackerMetrics{
		confirmed: scope.Counter("confirmed"),
		pending:   scope.Counter("pending"),
		stale:     scope.Counter("pending_stale"),
		reverted:  scope.Counter("reverted"),
		failed:    scope.Counter("failed"),
	}
}

// Run scans the listens stamped with a payment which is not confirmed yet.
// A failure on one transaction or one listen does not stop the scan.
func (t *RewardTracker) Run(ctx context.Context) error {
	listens, err := t.listenStorage.GetPendingRewardListens(ctx)
	if err != nil {
		return xerrors.Errorf("failed to get pending reward listens: %w", err)
	}

	// Listens paid by the same transaction are confirmed together.
	var txHashes []string
	listensByTx := make(map[string][]*model.ListenRecord)
	for _, listen := range listens {
		if _, ok := listensByTx[listen.RewardTxHash]; !ok {
			txHashes = append(txHashes, listen.RewardTxHash)
		}
		listensByTx[listen.RewardTxHash] = append(listensByTx[listen.RewardTxHash], listen)
	}

	t.logger.Info("checking pending payments", zap.Int("listens", len(listens)), zap.Int("transactions", len(txHashes)))

	now := t.timeSource.Now()
	group, groupCtx := syncgroup.New(ctx, syncgroup.WithThrottling(t.config.Parallelism))
	for _, txHash := range txHashes {
		txHash := txHash
		group.Go(func() error {
			t.check(groupCtx, txHash, listensByTx[txHash], now)
			return nil
		})
	}
	return group.Wait()
}

func (t *RewardTracker) check(ctx context.Context, txHash string, listens []*model.ListenRecord, now time.Time) {
	logger := t.logger.With(zap.String("tx_hash", txHash), zap.Int("listens", len(listens)))
	tx, err := t.chain.GetTransaction(ctx, common.HexToHash(txHash))
	if err != nil {
		t.metrics.failed.Inc(1)
		logger.Warn("failed to get payment transaction", zap.Error(err))
		t.checkAge(logger, listens, now)
		return
	}

	if !tx.IsMined() {
		t.metrics.pending.Inc(1)
		logger.Debug("payment is not mined yet")
		t.checkAge(logger, listens, now)
		return
	}

	if tx.Reverted {
		// The listens stay pending until an operator looks into it.
		t.metrics.reverted.Inc(1)
		logger.Error("payment reverted", zap.Uint64p("block_number", tx.BlockNumber))
		return
	}

	blockHash := tx.BlockHash.Hex()
	for _, listen := range listens {
		if err := t.listenStorage.ConfirmRewardListen(ctx, listen.ID, *tx.BlockNumber, blockHash); err != nil {
			t.metrics.failed.Inc(1)
			logger.Warn("failed to confirm listen", zap.String("listen_id", listen.ID), zap.Error(err))
			continue
		}
		t.metrics.confirmed.Inc(1)
	}

	logger.Debug("confirmed payment", zap.Uint64p("block_number", tx.BlockNumber), zap.String("block_hash", blockHash))
}

// checkAge flags the payments that have been pending for too long since their submission. There is no expiry.
func (t *RewardTracker) checkAge(logger *zap.Logger, listens []*model.ListenRecord, now time.Time) {
	var submittedAt time.Time
	for _, listen := range listens {
		if listen.RewardSubmittedAt.IsZero() {
			continue
		}
		if submittedAt.IsZero() || listen.RewardSubmittedAt.Before(submittedAt) {
			submittedAt = listen.RewardSubmittedAt
		}
	}
	if submittedAt.IsZero() {
		logger.Debug("unknown payment submission time")
		return
	}

	if age := now.Sub(submittedAt); age > t.config.PendingAgeWarning {
		t.metrics.stale.Inc(1)
		logger.Warn("payment has been pending for too long", zap.Duration("age", age), zap.Time("submitted_at", submittedAt))
	}
}
