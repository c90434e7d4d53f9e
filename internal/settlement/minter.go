package settlement

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	// Minter submits the podcast and fraction mints requested by users.
	Minter struct {
		logger         *zap.Logger
		chain          chain.Client
		podcastStorage storage.PodcastStorage
		walletStorage  storage.WalletStorage
		timeSource     timesource.TimeSource
	}

	MinterParams struct {
		fx.In
		fxparams.Params
		Chain          chain.Client
		PodcastStorage storage.PodcastStorage
		WalletStorage  storage.WalletStorage
		TimeSource     timesource.TimeSource
	}
)

func NewMinter(params MinterParams) *Minter {
	return &Minter{
		logger:         log.WithPackage(params.Logger),
		chain:          params.Chain,
		podcastStorage: params.PodcastStorage,
		walletStorage:  params.WalletStorage,
		timeSource:     params.TimeSource,
	}
}

// LaunchPodcastMint submits the mint of a podcast owned by the user and stores it as pending.
// The mint tracker confirms it once mined.
func (m *Minter) LaunchPodcastMint(ctx context.Context, userID string, seriesID string, info model.PodcastInfo) (string, error) {
	if userID == "" || seriesID == "" || info.Name == "" {
		return "", invalidArgument("missing arguments")
	}

	wallet, err := m.getWallet(ctx, userID)
	if err != nil {
		return "", err
	}

	existing, err := m.podcastStorage.GetPodcastBySeriesID(ctx, seriesID)
	if err == nil {
		return "", alreadyExists("the podcast %v is already minted or waiting to be minted (tx_hash=%v)", seriesID, existing.TxHash)
	}
	if !xerrors.Is(err, storage.ErrItemNotFound) {
		return "", storageError(err, "failed to get podcast %v", seriesID)
	}

	hash, err := m.chain.AddPodcast(ctx, common.HexToAddress(wallet.Address))
	if err != nil {
		return "", internalError(err, "failed to submit the podcast mint")
	}

	txHash := hash.Hex()
	logger := m.logger.With(zap.String("series_id", seriesID), zap.String("tx_hash", txHash))
	logger.Info("submitted podcast mint", zap.String("wallet", wallet.Address))

	if _, err := m.podcastStorage.CreatePodcastMint(ctx, &model.MintedPodcast{
		SeriesID:  seriesID,
		OwnerID:   userID,
		TxHash:    txHash,
		Info:      info,
		CreatedAt: m.timeSource.Now(),
	}); err != nil {
		// The mint is on chain but nothing tracks it.
		logger.Error("failed to store pending podcast mint", zap.Error(err))
		return "", storageError(err, "failed to store the podcast mint submitted in %v", txHash)
	}

	return txHash, nil
}

// BuyFraction mints count fractions of the given tier to the user and records them on the wallet.
func (m *Minter) BuyFraction(ctx context.Context, userID string, seriesID string, tokenType fraction.TokenType, count uint64) (string, error) {
	if userID == "" || seriesID == "" || count == 0 {
		return "", invalidArgument("no series id, token type or count passed")
	}
	if !lo.Contains(fraction.BuyableTokenTypes, tokenType) {
		return "", invalidArgument("token type %v cannot be bought", tokenType)
	}

	podcast, err := m.podcastStorage.GetPodcastBySeriesID(ctx, seriesID)
	if err != nil {
		return "", storageError(err, "unable to find a minted podcast for the id %v", seriesID)
	}
	if !podcast.IsMinted() {
		return "", notFound("unable to find a minted podcast for the id %v", seriesID)
	}

	wallet, err := m.getWallet(ctx, userID)
	if err != nil {
		return "", err
	}

	id, err := podcast.FractionID(tokenType)
	if err != nil {
		return "", internalError(err, "failed to build the fraction id")
	}

	hash, err := m.chain.MintFraction(ctx, id, common.HexToAddress(wallet.Address), count)
	if err != nil {
		return "", internalError(err, "failed to submit the fraction mint")
	}

	txHash := hash.Hex()
	logger := m.logger.With(zap.String("user_id", userID), zap.Stringer("fraction_id", id), zap.String("tx_hash", txHash))
	logger.Info("submitted fraction mint", zap.Uint64("count", count))

	if err := m.walletStorage.AddFraction(ctx, userID, &model.OwnedFraction{
		SeriesID:  seriesID,
		TokenType: tokenType,
		Count:     count,
		TxHash:    txHash,
	}); err != nil {
		logger.Error("failed to record the fraction on the wallet", zap.Error(err))
	}

	return txHash, nil
}

func (m *Minter) getWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	wallet, err := m.walletStorage.GetWallet(ctx, userID)
	if err != nil {
		return nil, storageError(err, "no wallet found for user %v", userID)
	}
	if !common.IsHexAddress(wallet.Address) {
		return nil, internalError(nil, "invalid wallet address %q for user %v", wallet.Address, userID)
	}
	return wallet, nil
}
