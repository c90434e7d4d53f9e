package internal

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/storage/model"
)

//go:generate mockgen -source=docstore.go -destination=../mocks/mocks.go -package=mocks

type (
	WatermarkStorage interface {
		// GetLatestWatermark returns ErrItemNotFound when no import has run yet.
		GetLatestWatermark(ctx context.Context) (*model.Watermark, error)
		PersistWatermark(ctx context.Context, watermark *model.Watermark) error
	}

	ListenStorage interface {
		// AddListens writes at most MaxBatchWriteSize records in one atomic transaction.
		AddListens(ctx context.Context, listens []*model.ListenRecord) error
		// GetUnsettledListens returns the records of the user that are neither given nor stamped with a reward tx.
		GetUnsettledListens(ctx context.Context, userID string) ([]*model.ListenRecord, error)
		// StampRewardTx sets rewardTxHash and the payment submission time on every record which does not carry a hash yet.
		// It returns the number of records stamped.
		StampRewardTx(ctx context.Context, listenIDs []string, txHash string, submittedAt time.Time) (int, error)
		GetPendingRewardListens(ctx context.Context) ([]*model.ListenRecord, error)
		ConfirmRewardListen(ctx context.Context, listenID string, blockNumber uint64, blockHash string) error
		// DeleteExpiredListens removes the records dated before the given time that are confirmed or were never settled.
		DeleteExpiredListens(ctx context.Context, before time.Time) (int, error)
	}

	PodcastStorage interface {
		// CreatePodcastMint returns ErrAlreadyExists if the series has already been minted or is being minted.
		CreatePodcastMint(ctx context.Context, podcast *model.MintedPodcast) (*model.MintedPodcast, error)
		GetPodcastBySeriesID(ctx context.Context, seriesID string) (*model.MintedPodcast, error)
		GetMintedPodcasts(ctx context.Context) ([]*model.MintedPodcast, error)
		GetUnconfirmedPodcastMints(ctx context.Context) ([]*model.MintedPodcast, error)
		// GetMaturePodcasts returns the minted podcasts whose mint block is not later than the given time.
		GetMaturePodcasts(ctx context.Context, before time.Time) ([]*model.MintedPodcast, error)
		// ConfirmPodcastMint returns ErrAlreadyExists if another podcast of the same series holds a fraction base id.
		ConfirmPodcastMint(ctx context.Context, id string, confirmation *model.MintConfirmation) error
		SetUploadedMetadatas(ctx context.Context, id string, keys []string) error
		SetPreviousCostUpdate(ctx context.Context, id string, update *model.PreviousCostUpdate) error
	}

	WalletStorage interface {
		GetWallet(ctx context.Context, userID string) (*model.Wallet, error)
		// GetWallets skips the users without a wallet.
		GetWallets(ctx context.Context, userIDs []string) ([]*model.Wallet, error)
		// CreateIfAbsent creates the wallet keyed by its user id, or returns the stored one.
		CreateIfAbsent(ctx context.Context, wallet *model.Wallet) (*model.Wallet, error)
		AddFraction(ctx context.Context, userID string, owned *model.OwnedFraction) error
	}

	ConsumedContentStorage interface {
		IncrementConsumedContent(ctx context.Context, userID string, count int64) error
		GetConsumedContent(ctx context.Context, userID string) (*model.ConsumedContent, error)
	}

	SettlementStorage interface {
		// GetSettlementIntentsByListens returns the intents of the wallet covering at least one of the listens.
		GetSettlementIntentsByListens(ctx context.Context, walletID string, listenIDs []string) ([]*model.SettlementIntent, error)
		// RecordSettlementIntent returns ErrAlreadyExists if the key has been recorded before.
		RecordSettlementIntent(ctx context.Context, intent *model.SettlementIntent) error
	}

	Result struct {
		fx.Out
		WatermarkStorage       WatermarkStorage
		ListenStorage          ListenStorage
		PodcastStorage         PodcastStorage
		WalletStorage          WalletStorage
		ConsumedContentStorage ConsumedContentStorage
		SettlementStorage      SettlementStorage
	}
)

const (
	// MaxBatchWriteSize is the maximum number of writes in one transaction.
	MaxBatchWriteSize = 500
	// MaxInFilterSize is the maximum number of values of an "in" or "array-contains-any" filter.
	MaxInFilterSize = 10
)
