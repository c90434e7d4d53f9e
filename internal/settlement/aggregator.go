package settlement

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	// Aggregator pays a wallet for all its unsettled listens with a single transaction.
	Aggregator struct {
		logger                 *zap.Logger
		chain                  chain.Client
		listenStorage          storage.ListenStorage
		podcastStorage         storage.PodcastStorage
		walletStorage          storage.WalletStorage
		consumedContentStorage storage.ConsumedContentStorage
		settlementStorage      storage.SettlementStorage
		timeSource             timesource.TimeSource
		metrics                *aggregatorMetrics
	}

	AggregatorParams struct {
		fx.In
		fxparams.Params
		Chain                  chain.Client
		ListenStorage          storage.ListenStorage
		PodcastStorage         storage.PodcastStorage
		WalletStorage          storage.WalletStorage
		ConsumedContentStorage storage.ConsumedContentStorage
		SettlementStorage      storage.SettlementStorage
		TimeSource             timesource.TimeSource
	}

	aggregatorMetrics struct {
		settled        tally.Counter
		replayed       tally.Counter
		paymentFailed  tally.Counter
		settledListens tally.Counter
	}

	// payment is the aggregation unit of one wallet.
	payment struct {
		baseIDs   []uint64
		counts    []uint64
		listenIDs []string
		total     uint64
	}
)

var (
	intentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://sybel.io/settlement/intent"))

	errNothingToSettle = xerrors.New("nothing to settle")
)

func NewAggregator(params AggregatorParams) *Aggregator {
	metrics := params.Scoped("aggregator")
	return &Aggregator{
		logger:                 log.WithPackage(params.Logger),
		chain:                  params.Chain,
		listenStorage:          params.ListenStorage,
		podcastStorage:         params.PodcastStorage,
		walletStorage:          params.WalletStorage,
		consumedContentStorage: params.ConsumedContentStorage,
		settlementStorage:      params.SettlementStorage,
		timeSource:             params.TimeSource,
		metrics: &aggregatorMetrics{
			settled:        metrics.Counter("settled"),
			replayed:       metrics.Counter("replayed"),
			paymentFailed:  metrics.Counter("payment_failed"),
			settledListens: metrics.Counter("settled_listens"),
		},
	}
}

// Settle returns the hash of the payment covering the unsettled listens of the wallet.
// It returns false when there is nothing to pay or when the payment could not be submitted.
func (a *Aggregator) Settle(ctx context.Context, wallet *model.Wallet) (string, bool) {
	txHash, err := a.settle(ctx, wallet)
	if err != nil {
		if xerrors.Is(err, errNothingToSettle) {
			a.logger.Debug("nothing to settle", zap.String("user_id", wallet.ID))
		} else {
			a.logger.Warn("failed to settle wallet", zap.String("user_id", wallet.ID), zap.String("wallet", wallet.Address), zap.Error(err))
		}
		return "", false
	}

	return txHash, true
}

// SettleUser settles the wallet of the user. An empty hash means there was nothing to pay.
func (a *Aggregator) SettleUser(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", invalidArgument("missing user id")
	}

	wallet, err := a.walletStorage.GetWallet(ctx, userID)
	if err != nil {
		return "", storageError(err, "failed to get the wallet of user %v", userID)
	}

	txHash, err := a.settle(ctx, wallet)
	if err != nil {
		if xerrors.Is(err, errNothingToSettle) {
			return "", nil
		}
		return "", internalError(err, "failed to settle user %v", userID)
	}

	return txHash, nil
}

func (a *Aggregator) settle(ctx context.Context, wallet *model.Wallet) (string, error) {
	logger := a.logger.With(zap.String("user_id", wallet.ID), zap.String("wallet", wallet.Address))
	if !common.IsHexAddress(wallet.Address) {
		return "", xerrors.Errorf("invalid wallet address %q", wallet.Address)
	}

	listens, err := a.listenStorage.GetUnsettledListens(ctx, wallet.ID)
	if err != nil {
		return "", xerrors.Errorf("failed to get unsettled listens: %w", err)
	}
	if len(listens) == 0 {
		return "", errNothingToSettle
	}

	podcasts, err := a.podcastStorage.GetMintedPodcasts(ctx)
	if err != nil {
		return "", xerrors.Errorf("failed to get minted podcasts: %w", err)
	}

	p := aggregate(listens, podcasts)
	if len(p.listenIDs) == 0 {
		logger.Debug("no listen of a minted podcast", zap.Int("listens", len(listens)))
		return "", errNothingToSettle
	}

	txHash, replayed, err := a.replay(ctx, logger, wallet, p.listenIDs)
	if err != nil {
		return "", err
	}
	if len(replayed) > 0 {
		p = aggregate(lo.Reject(listens, func(listen *model.ListenRecord, _ int) bool {
			return replayed[listen.ID]
		}), podcasts)
		if len(p.listenIDs) == 0 {
			return txHash, nil
		}
	}

	hash, err := a.chain.PayUser(ctx, common.HexToAddress(wallet.Address), p.baseIDs, p.counts)
	if err != nil {
		a.metrics.paymentFailed.Inc(1)
		return "", xerrors.Errorf("failed to submit payment: %w", err)
	}

	txHash = hash.Hex()
	submittedAt := a.timeSource.Now()
	logger.Info(
		"submitted payment",
		zap.String("tx_hash", txHash),
		zap.Uint64s("base_ids", p.baseIDs),
		zap.Uint64s("counts", p.counts),
		zap.Uint64("listens", p.total),
	)

	key := intentKey(wallet.ID, p.listenIDs)
	if err := a.settlementStorage.RecordSettlementIntent(ctx, &model.SettlementIntent{
		Key:       key,
		WalletID:  wallet.ID,
		Address:   wallet.Address,
		TxHash:    txHash,
		ListenIDs: p.listenIDs,
		CreatedAt: submittedAt,
	}); err != nil {
		logger.Error("failed to record settlement intent", zap.String("intent", key), zap.String("tx_hash", txHash), zap.Error(err))
	}

	a.complete(ctx, logger, wallet, p.listenIDs, txHash, submittedAt)
	return txHash, nil
}

// replay stamps the listens already covered by a submitted payment with the hash of that payment.
// Such a payment was submitted by a previous run which stopped before stamping its listens.
// It returns the hash of the last replayed payment and the ids of the replayed listens.
func (a *Aggregator) replay(ctx context.Context, logger *zap.Logger, wallet *model.Wallet, listenIDs []string) (string, map[string]bool, error) {
	intents, err := a.settlementStorage.GetSettlementIntentsByListens(ctx, wallet.ID, listenIDs)
	if err != nil {
		return "", nil, xerrors.Errorf("failed to get settlement intents: %w", err)
	}

	var txHash string
	replayed := make(map[string]bool)
	for _, intent := range intents {
		paid := lo.SliceToMap(intent.ListenIDs, func(id string) (string, bool) { return id, true })
		ids := lo.Filter(listenIDs, func(id string, _ int) bool {
			return paid[id] && !replayed[id]
		})
		if len(ids) == 0 {
			continue
		}

		logger.Warn(
			"replaying a submitted payment",
			zap.String("intent", intent.Key),
			zap.String("tx_hash", intent.TxHash),
			zap.Int("listens", len(ids)),
		)
		a.metrics.replayed.Inc(1)
		for _, id := range ids {
			replayed[id] = true
		}
		a.complete(ctx, logger, wallet, ids, intent.TxHash, intent.CreatedAt)
		txHash = intent.TxHash
	}

	return txHash, replayed, nil
}

// complete stamps the listens with the payment and counts them as consumed content.
// The payment is submitted at this point, so failures are only logged.
func (a *Aggregator) complete(
	ctx context.Context,
	logger *zap.Logger,
	wallet *model.Wallet,
	listenIDs []string,
	txHash string,
	submittedAt time.Time,
) {
	stamped, err := a.listenStorage.StampRewardTx(ctx, listenIDs, txHash, submittedAt)
	if err != nil {
		logger.Error("failed to stamp listens", zap.String("tx_hash", txHash), zap.Int("listens", len(listenIDs)), zap.Error(err))
		return
	}
	if stamped != len(listenIDs) {
		logger.Warn(
			"some listens were stamped concurrently",
			zap.String("tx_hash", txHash),
			zap.Int("listens", len(listenIDs)),
			zap.Int("stamped", stamped),
		)
	}

	if err := a.consumedContentStorage.IncrementConsumedContent(ctx, wallet.ID, int64(stamped)); err != nil {
		logger.Error("failed to increment consumed content", zap.Int("count", stamped), zap.Error(err))
	}

	a.metrics.settled.Inc(1)
	a.metrics.settledListens.Inc(int64(stamped))
}

// aggregate counts the listens per fraction base id. Listens of a podcast which is not minted yet are left out.
func aggregate(listens []*model.ListenRecord, podcasts []*model.MintedPodcast) *payment {
	baseIDs := make(map[string]uint64, len(podcasts))
	for _, podcast := range podcasts {
		if podcast.FractionBaseID != nil {
			baseIDs[podcast.SeriesID] = *podcast.FractionBaseID
		}
	}

	counts := make(map[uint64]uint64)
	p := &payment{}
	for _, listen := range listens {
		baseID, ok := baseIDs[listen.SeriesID]
		if !ok {
			continue
		}
		counts[baseID]++
		p.listenIDs = append(p.listenIDs, listen.ID)
		p.total++
	}

	p.baseIDs = lo.Keys(counts)
	sort.Slice(p.baseIDs, func(i, j int) bool { return p.baseIDs[i] < p.baseIDs[j] })
	p.counts = make([]uint64, len(p.baseIDs))
	for i, baseID := range p.baseIDs {
		p.counts[i] = counts[baseID]
	}
	return p
}

// intentKey names the intent of one payment. Replays match intents by listen, not by key.
func intentKey(walletID string, listenIDs []string) string {
	ids := append([]string(nil), listenIDs...)
	sort.Strings(ids)
	return uuid.NewSHA1(intentNamespace, []byte(walletID+"/"+strings.Join(ids, ","))).String()
}
