package firestore

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
	"github.com/sybel-io/settlement/internal/storage/internal/errors"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/pointer"
)

type (
	podcastStorageImpl struct {
		client                               *firestore.Client
		instrumentCreatePodcastMint          instrument.InstrumentWithResult[*model.MintedPodcast]
		instrumentGetPodcastBySeriesID       instrument.InstrumentWithResult[*model.MintedPodcast]
		instrumentGetMintedPodcasts          instrument.InstrumentWithResult[[]*model.MintedPodcast]
		instrumentGetUnconfirmedPodcastMints instrument.InstrumentWithResult[[]*model.MintedPodcast]
		instrumentGetMaturePodcasts          instrument.InstrumentWithResult[[]*model.MintedPodcast]
		instrumentConfirmPodcastMint         instrument.Instrument
		instrumentSetUploadedMetadatas       instrument.Instrument
		instrumentSetPreviousCostUpdate      instrument.Instrument
	}

	// firestore does not support storing uint64, hence we use int64 to store ids and block numbers.
	firestoreMintedPodcast struct {
		SeriesID           string                       `firestore:"seriesId"`
		OwnerID            string                       `firestore:"ownerId"`
		TxHash             string                       `firestore:"txHash"`
		PodcastInfo        firestorePodcastInfo         `firestore:"podcastInfo"`
		FractionBaseID     *int64                       `firestore:"fractionBaseId"`
		TxBlockNumber      *int64                       `firestore:"txBlockNumber"`
		TxBlockHash        *string                      `firestore:"txBlockHash"`
		TxBlockTimestamp   *time.Time                   `firestore:"txBlockTimestamp"`
		UploadedMetadatas  []string                     `firestore:"uploadedMetadatas"`
		PreviousCostUpdate *firestorePreviousCostUpdate `firestore:"previousCostUpdate"`
		CreatedAt          time.Time                    `firestore:"createdAt"`
	}

	firestorePodcastInfo struct {
		Name            string `firestore:"name"`
		Description     string `firestore:"description"`
		Image           string `firestore:"image"`
		BackgroundColor string `firestore:"backgroundColor"`
	}

	// firestorePreviousCostUpdate keys the periods by numeric token type. Documents written before
	// the periods were split per tier only hold the shared period, applied to every buyable tier.
	firestorePreviousCostUpdate struct {
		Periods   map[string]firestoreCostBadgeUpdatePeriod `firestore:"periods"`
		Period    *firestoreCostBadgeUpdatePeriod           `firestore:"period,omitempty"`
		TxHashes  []string                                  `firestore:"txHashes"`
		UpdatedAt time.Time                                 `firestore:"updatedAt"`
	}

	firestoreCostBadgeUpdatePeriod struct {
		LastWeekBlockStart    int64 `firestore:"lastWeekBlockStart"`
		CurrentWeekBlockStart int64 `firestore:"currentWeekBlockStart"`
		CurrentWeekBlockEnd   int64 `firestore:"currentWeekBlockEnd"`
	}
)

const (
	fieldSeriesID           = "seriesId"
	fieldFractionBaseID     = "fractionBaseId"
	fieldTxBlockTimestamp   = "txBlockTimestamp"
	fieldUploadedMetadatas  = "uploadedMetadatas"
	fieldPreviousCostUpdate = "previousCostUpdate"
)

func newPodcastStorage(params Params, client *firestore.Client) internal.PodcastStorage {
	metrics := params.Metrics.SubScope("podcast_storage").Tagged(map[string]string{
		storageTypeTag: storageType,
	})
	logger := log.WithPackage(params.Logger)
	return &podcastStorageImpl{
		client:                      client,
		instrumentCreatePodcastMint: instrument.NewWithResult[*model.MintedPodcast](metrics, "create_podcast_mint"),
		instrumentGetPodcastBySeriesID: instrument.NewWithResult[*model.MintedPodcast](metrics, "get_podcast_by_series_id", instrument.WithFilter(filterNotFound)).
			WithRetry(newReadRetry[*model.MintedPodcast](logger)),
		instrumentGetMintedPodcasts: instrument.NewWithResult[[]*model.MintedPodcast](metrics, "get_minted_podcasts").
			WithRetry(newReadRetry[[]*model.MintedPodcast](logger)),
		instrumentGetUnconfirmedPodcastMints: instrument.NewWithResult[[]*model.MintedPodcast](metrics, "get_unconfirmed_podcast_mints").
			WithRetry(newReadRetry[[]*model.MintedPodcast](logger)),
		instrumentGetMaturePodcasts: instrument.NewWithResult[[]*model.MintedPodcast](metrics, "get_mature_podcasts").
			WithRetry(newReadRetry[[]*model.MintedPodcast](logger)),
		instrumentConfirmPodcastMint:    instrument.New(metrics, "confirm_podcast_mint"),
		instrumentSetUploadedMetadatas:  instrument.New(metrics, "set_uploaded_metadatas"),
		instrumentSetPreviousCostUpdate: instrument.New(metrics, "set_previous_cost_update"),
	}
}

// CreatePodcastMint implements internal.PodcastStorage.
func (s *podcastStorageImpl) CreatePodcastMint(ctx context.Context, podcast *model.MintedPodcast) (*model.MintedPodcast, error) {
	if podcast.SeriesID == "" {
		return nil, xerrors.Errorf("missing series id: %w", errors.ErrInvalidArgument)
	}

	return s.instrumentCreatePodcastMint.Instrument(ctx, func(ctx context.Context) (*model.MintedPodcast, error) {
		collection := s.client.Collection(collectionPodcast)
		docRef := collection.NewDoc()
		err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
			existing, err := t.Documents(collection.Where(fieldSeriesID, "==", podcast.SeriesID).Limit(1)).GetAll()
			if err != nil {
				return xerrors.Errorf("failed to query podcast %v: %w", podcast.SeriesID, err)
			}
			if len(existing) > 0 {
				return xerrors.Errorf("podcast %v already minted: %w", podcast.SeriesID, errors.ErrAlreadyExists)
			}

			if err := t.Create(docRef, fromMintedPodcast(podcast)); err != nil {
				return xerrors.Errorf("failed to create podcast mint %v: %w", podcast.SeriesID, err)
			}
			return nil
		})
		if err != nil {
			return nil, xerrors.Errorf("failed to create podcast mint in firestore transaction: %w", err)
		}

		created := *podcast
		created.ID = docRef.ID
		return &created, nil
	})
}

// GetPodcastBySeriesID implements internal.PodcastStorage.
func (s *podcastStorageImpl) GetPodcastBySeriesID(ctx context.Context, seriesID string) (*model.MintedPodcast, error) {
	return s.instrumentGetPodcastBySeriesID.Instrument(ctx, func(ctx context.Context) (*model.MintedPodcast, error) {
		podcasts, err := s.queryPodcasts(ctx, s.client.Collection(collectionPodcast).Where(fieldSeriesID, "==", seriesID))
		if err != nil {
			return nil, err
		}
		if len(podcasts) == 0 {
			return nil, xerrors.Errorf("podcast %v not found: %w", seriesID, errors.ErrItemNotFound)
		}

		// Prefer the confirmed entry.
		for _, podcast := range podcasts {
			if podcast.IsMinted() {
				return podcast, nil
			}
		}
		return podcasts[0], nil
	})
}

// GetMintedPodcasts implements internal.PodcastStorage.
func (s *podcastStorageImpl) GetMintedPodcasts(ctx context.Context) ([]*model.MintedPodcast, error) {
	return s.instrumentGetMintedPodcasts.Instrument(ctx, func(ctx context.Context) ([]*model.MintedPodcast, error) {
		return s.queryPodcasts(ctx, s.client.Collection(collectionPodcast).Where(fieldFractionBaseID, "!=", nil))
	})
}

// GetUnconfirmedPodcastMints implements internal.PodcastStorage.
func (s *podcastStorageImpl) GetUnconfirmedPodcastMints(ctx context.Context) ([]*model.MintedPodcast, error) {
	return s.instrumentGetUnconfirmedPodcastMints.Instrument(ctx, func(ctx context.Context) ([]*model.MintedPodcast, error) {
		return s.queryPodcasts(ctx, s.client.Collection(collectionPodcast).Where(fieldFractionBaseID, "==", nil))
	})
}

// GetMaturePodcasts implements internal.PodcastStorage.
func (s *podcastStorageImpl) GetMaturePodcasts(ctx context.Context, before time.Time) ([]*model.MintedPodcast, error) {
	return s.instrumentGetMaturePodcasts.Instrument(ctx, func(ctx context.Context) ([]*model.MintedPodcast, error) {
		podcasts, err := s.queryPodcasts(ctx, s.client.Collection(collectionPodcast).Where(fieldTxBlockTimestamp, "<=", before))
		if err != nil {
			return nil, err
		}

		mature := make([]*model.MintedPodcast, 0, len(podcasts))
		for _, podcast := range podcasts {
			if podcast.IsMinted() {
				mature = append(mature, podcast)
			}
		}
		return mature, nil
	})
}

// ConfirmPodcastMint implements internal.PodcastStorage.
func (s *podcastStorageImpl) ConfirmPodcastMint(ctx context.Context, id string, confirmation *model.MintConfirmation) error {
	return s.instrumentConfirmPodcastMint.Instrument(ctx, func(ctx context.Context) error {
		collection := s.client.Collection(collectionPodcast)
		docRef := collection.Doc(id)
		err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
			doc, err := t.Get(docRef)
			if err != nil {
				if isNotFound(err) {
					return xerrors.Errorf("podcast mint %v not found: %w", id, errors.ErrItemNotFound)
				}
				return xerrors.Errorf("failed to get podcast mint %v: %w", id, err)
			}

			podcast, err := intoMintedPodcast(doc)
			if err != nil {
				return err
			}

			if podcast.FractionBaseID != nil {
				if *podcast.FractionBaseID == confirmation.FractionBaseID {
					return nil
				}
				return xerrors.Errorf(
					"podcast mint %v already confirmed with base id %v: %w",
					id, *podcast.FractionBaseID, errors.ErrAlreadyExists)
			}

			minted, err := t.Documents(collection.
				Where(fieldSeriesID, "==", podcast.SeriesID).
				Where(fieldFractionBaseID, "!=", nil)).GetAll()
			if err != nil {
				return xerrors.Errorf("failed to query minted podcasts of series %v: %w", podcast.SeriesID, err)
			}
			for _, other := range minted {
				if other.Ref.ID != id {
					return xerrors.Errorf(
						"series %v already has a fraction base id on %v: %w",
						podcast.SeriesID, other.Ref.ID, errors.ErrAlreadyExists)
				}
			}

			return t.Update(docRef, []firestore.Update{
				{Path: fieldFractionBaseID, Value: int64(confirmation.FractionBaseID)},
				{Path: fieldTxBlockNumber, Value: int64(confirmation.TxBlockNumber)},
				{Path: fieldTxBlockHash, Value: confirmation.TxBlockHash},
				{Path: fieldTxBlockTimestamp, Value: confirmation.TxBlockTimestamp},
			})
		})
		if err != nil {
			return xerrors.Errorf("failed to confirm podcast mint %v: %w", id, err)
		}

		return nil
	})
}

// SetUploadedMetadatas implements internal.PodcastStorage.
func (s *podcastStorageImpl) SetUploadedMetadatas(ctx context.Context, id string, keys []string) error {
	return s.instrumentSetUploadedMetadatas.Instrument(ctx, func(ctx context.Context) error {
		return s.update(ctx, id, firestore.Update{Path: fieldUploadedMetadatas, Value: keys})
	})
}

// SetPreviousCostUpdate implements internal.PodcastStorage.
func (s *podcastStorageImpl) SetPreviousCostUpdate(ctx context.Context, id string, update *model.PreviousCostUpdate) error {
	return s.instrumentSetPreviousCostUpdate.Instrument(ctx, func(ctx context.Context) error {
		return s.update(ctx, id, firestore.Update{Path: fieldPreviousCostUpdate, Value: fromPreviousCostUpdate(update)})
	})
}

func (s *podcastStorageImpl) update(ctx context.Context, id string, updates ...firestore.Update) error {
	_, err := s.client.Collection(collectionPodcast).Doc(id).Update(ctx, updates)
	if err != nil {
		if isNotFound(err) {
			return xerrors.Errorf("podcast %v not found: %w", id, errors.ErrItemNotFound)
		}
		return xerrors.Errorf("failed to update podcast %v: %w", id, err)
	}

	return nil
}

func (s *podcastStorageImpl) queryPodcasts(ctx context.Context, query firestore.Query) ([]*model.MintedPodcast, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, xerrors.Errorf("failed to query podcasts: %w", classify(err))
	}

	podcasts := make([]*model.MintedPodcast, len(docs))
	for i, doc := range docs {
		podcast, err := intoMintedPodcast(doc)
		if err != nil {
			return nil, err
		}
		podcasts[i] = podcast
	}

	return podcasts, nil
}

func fromMintedPodcast(podcast *model.MintedPodcast) *firestoreMintedPodcast {
	p := &firestoreMintedPodcast{
		SeriesID: podcast.SeriesID,
		OwnerID:  podcast.OwnerID,
		TxHash:   podcast.TxHash,
		PodcastInfo: firestorePodcastInfo{
			Name:            podcast.Info.Name,
			Description:     podcast.Info.Description,
			Image:           podcast.Info.Image,
			BackgroundColor: podcast.Info.BackgroundColor,
		},
		TxBlockTimestamp:   podcast.TxBlockTimestamp,
		UploadedMetadatas:  podcast.UploadedMetadatas,
		PreviousCostUpdate: fromPreviousCostUpdate(podcast.PreviousCostUpdate),
		CreatedAt:          podcast.CreatedAt,
	}
	if podcast.FractionBaseID != nil {
		p.FractionBaseID = pointer.Ref(int64(*podcast.FractionBaseID))
	}
	if podcast.TxBlockNumber != nil {
		p.TxBlockNumber = pointer.Ref(int64(*podcast.TxBlockNumber))
	}
	if podcast.TxBlockHash != "" {
		p.TxBlockHash = pointer.String(podcast.TxBlockHash)
	}
	return p
}

func fromPreviousCostUpdate(update *model.PreviousCostUpdate) *firestorePreviousCostUpdate {
	if update == nil {
		return nil
	}

	periods := make(map[string]firestoreCostBadgeUpdatePeriod, len(update.Periods))
	for tokenType, period := range update.Periods {
		periods[strconv.FormatUint(uint64(tokenType), 10)] = firestoreCostBadgeUpdatePeriod{
			LastWeekBlockStart:    int64(period.LastWeekBlockStart),
			CurrentWeekBlockStart: int64(period.CurrentWeekBlockStart),
			CurrentWeekBlockEnd:   int64(period.CurrentWeekBlockEnd),
		}
	}
	return &firestorePreviousCostUpdate{
		Periods:   periods,
		TxHashes:  update.TxHashes,
		UpdatedAt: update.UpdatedAt,
	}
}

func intoPreviousCostUpdate(u *firestorePreviousCostUpdate) (*model.PreviousCostUpdate, error) {
	update := &model.PreviousCostUpdate{
		Periods:   make(map[fraction.TokenType]model.CostBadgeUpdatePeriod),
		TxHashes:  u.TxHashes,
		UpdatedAt: u.UpdatedAt.UTC(),
	}
	for key, period := range u.Periods {
		tokenType, err := fraction.ParseTokenType(key)
		if err != nil {
			return nil, xerrors.Errorf("invalid key in previousCostUpdate.periods: %w", err)
		}
		update.Periods[tokenType] = intoCostBadgeUpdatePeriod(period)
	}
	if len(u.Periods) == 0 && u.Period != nil {
		for _, tokenType := range fraction.BuyableTokenTypes {
			update.Periods[tokenType] = intoCostBadgeUpdatePeriod(*u.Period)
		}
	}
	return update, nil
}

func intoCostBadgeUpdatePeriod(p firestoreCostBadgeUpdatePeriod) model.CostBadgeUpdatePeriod {
	return model.CostBadgeUpdatePeriod{
		LastWeekBlockStart:    uint64(p.LastWeekBlockStart),
		CurrentWeekBlockStart: uint64(p.CurrentWeekBlockStart),
		CurrentWeekBlockEnd:   uint64(p.CurrentWeekBlockEnd),
	}
}

func intoMintedPodcast(doc *firestore.DocumentSnapshot) (*model.MintedPodcast, error) {
	var p firestoreMintedPodcast
	if err := doc.DataTo(&p); err != nil {
		return nil, xerrors.Errorf("failed to parse document %v into MintedPodcast: %w", doc.Ref.ID, err)
	}

	podcast := &model.MintedPodcast{
		ID:       doc.Ref.ID,
		SeriesID: p.SeriesID,
		OwnerID:  p.OwnerID,
		TxHash:   p.TxHash,
		Info: model.PodcastInfo{
			Name:            p.PodcastInfo.Name,
			Description:     p.PodcastInfo.Description,
			Image:           p.PodcastInfo.Image,
			BackgroundColor: p.PodcastInfo.BackgroundColor,
		},
		TxBlockHash:       pointer.StringDeref(p.TxBlockHash),
		UploadedMetadatas: p.UploadedMetadatas,
		CreatedAt:         p.CreatedAt.UTC(),
	}

	if p.FractionBaseID != nil {
		if *p.FractionBaseID < 0 {
			return nil, xerrors.Errorf("expecting fractionBaseId to be uint64, but got %d", *p.FractionBaseID)
		}
		podcast.FractionBaseID = pointer.Ref(uint64(*p.FractionBaseID))
	}
	if p.TxBlockNumber != nil {
		if *p.TxBlockNumber < 0 {
			return nil, xerrors.Errorf("expecting txBlockNumber to be uint64, but got %d", *p.TxBlockNumber)
		}
		podcast.TxBlockNumber = pointer.Ref(uint64(*p.TxBlockNumber))
	}
	if p.TxBlockTimestamp != nil {
		podcast.TxBlockTimestamp = pointer.Ref(p.TxBlockTimestamp.UTC())
	}
	if p.PreviousCostUpdate != nil {
		update, err := intoPreviousCostUpdate(p.PreviousCostUpdate)
		if err != nil {
			return nil, xerrors.Errorf("failed to parse document %v into MintedPodcast: %w", doc.Ref.ID, err)
		}
		podcast.PreviousCostUpdate = update
	}

	return podcast, nil
}
