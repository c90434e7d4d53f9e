package settlement

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/pointer"
)

type (
	// MintTracker confirms the podcast mints and generates the metadata of their fractions.
	MintTracker struct {
		logger         *zap.Logger
		chain          chain.Client
		podcastStorage storage.PodcastStorage
		generator      *MetadataGenerator
		confirmed      tally.Counter
		pending        tally.Counter
		failed         tally.Counter
	}

	MintTrackerParams struct {
		fx.In
		fxparams.Params
		Chain          chain.Client
		PodcastStorage storage.PodcastStorage
		Generator      *MetadataGenerator
	}
)

func NewMintTracker(params MintTrackerParams) *MintTracker {
	metrics := params.Scoped("mint_tracker")
	return &MintTracker{
		logger:         log.WithPackage(params.Logger),
		chain:          params.Chain,
		podcastStorage: params.PodcastStorage,
		generator:      params.Generator,
		confirmed:      metrics.Counter("confirmed"),
		pending:        metrics.Counter("pending"),
		failed:         metrics.Counter("failed"),
	}
}

// Run confirms every pending mint, then regenerates the metadata that a previous run failed to upload.
func (t *MintTracker) Run(ctx context.Context) error {
	podcasts, err := t.podcastStorage.GetUnconfirmedPodcastMints(ctx)
	if err != nil {
		return xerrors.Errorf("failed to get unconfirmed podcast mints: %w", err)
	}

	t.logger.Info("checking pending podcast mints", zap.Int("podcasts", len(podcasts)))
	for _, podcast := range podcasts {
		if err := t.confirm(ctx, podcast); err != nil {
			t.failed.Inc(1)
			t.logger.Warn(
				"failed to confirm podcast mint",
				zap.String("series_id", podcast.SeriesID),
				zap.String("tx_hash", podcast.TxHash),
				zap.Error(err),
			)
		}
	}

	minted, err := t.podcastStorage.GetMintedPodcasts(ctx)
	if err != nil {
		return xerrors.Errorf("failed to get minted podcasts: %w", err)
	}

	for _, podcast := range minted {
		if len(podcast.UploadedMetadatas) > 0 {
			continue
		}

		if err := t.uploadMetadatas(ctx, podcast); err != nil {
			t.failed.Inc(1)
			t.logger.Warn("failed to upload podcast metadata", zap.String("series_id", podcast.SeriesID), zap.Error(err))
		}
	}

	return nil
}

func (t *MintTracker) confirm(ctx context.Context, podcast *model.MintedPodcast) error {
	logger := t.logger.With(zap.String("series_id", podcast.SeriesID), zap.String("tx_hash", podcast.TxHash))
	tx, err := t.chain.GetTransaction(ctx, common.HexToHash(podcast.TxHash))
	if err != nil {
		return xerrors.Errorf("failed to get mint transaction: %w", err)
	}

	if !tx.IsMined() {
		t.pending.Inc(1)
		logger.Debug("podcast mint is not mined yet")
		return nil
	}

	if tx.Reverted {
		return xerrors.Errorf("podcast mint reverted in block %v: %w", pointer.Deref(tx.BlockNumber), chain.ErrTransactionReverted)
	}

	events, err := t.chain.GetPodcastMintedEvents(ctx, *tx.BlockHash)
	if err != nil {
		return xerrors.Errorf("failed to get podcast minted events: %w", err)
	}

	var event *chain.PodcastMintedEvent
	for _, e := range events {
		if e.TxHash == tx.Hash {
			event = e
			break
		}
	}
	if event == nil {
		logger.Debug("podcast minted event not found in block", zap.String("block_hash", tx.BlockHash.Hex()))
		return nil
	}

	confirmation := &model.MintConfirmation{
		FractionBaseID:   event.BaseID,
		TxBlockNumber:    *tx.BlockNumber,
		TxBlockHash:      tx.BlockHash.Hex(),
		TxBlockTimestamp: pointer.Deref(tx.BlockTimestamp),
	}
	if err := t.podcastStorage.ConfirmPodcastMint(ctx, podcast.ID, confirmation); err != nil {
		return xerrors.Errorf("failed to confirm podcast mint with base id %v: %w", event.BaseID, err)
	}

	t.confirmed.Inc(1)
	logger.Info("confirmed podcast mint", zap.Uint64("base_id", event.BaseID), zap.Uint64("block_number", confirmation.TxBlockNumber))

	podcast.FractionBaseID = pointer.Ref(event.BaseID)
	return t.uploadMetadatas(ctx, podcast)
}

func (t *MintTracker) uploadMetadatas(ctx context.Context, podcast *model.MintedPodcast) error {
	urls, err := t.generator.Generate(ctx, podcast)
	if err != nil {
		return xerrors.Errorf("failed to generate metadata: %w", err)
	}

	if err := t.podcastStorage.SetUploadedMetadatas(ctx, podcast.ID, urls); err != nil {
		return xerrors.Errorf("failed to store uploaded metadata: %w", err)
	}
	return nil
}
