package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
	"github.com/sybel-io/settlement/internal/storage/internal/errors"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/instrument"
)

type (
	consumedContentStorageImpl struct {
		client                             *firestore.Client
		instrumentIncrementConsumedContent instrument.Instrument
		instrumentGetConsumedContent       instrument.InstrumentWithResult[*model.ConsumedContent]
	}

	firestoreConsumedContent struct {
		UserID         string `firestore:"userId"`
		CurrentWeekCcu int64  `firestore:"currentWeekCcu"`
	}
)

const (
	fieldCurrentWeekCcu = "currentWeekCcu"
)

func newConsumedContentStorage(params Params, client *firestore.Client) internal.ConsumedContentStorage {
	metrics := params.Metrics.SubScope("consumed_content_storage").Tagged(map[string]string{
		storageTypeTag: storageType,
	})
	return &consumedContentStorageImpl{
		client:                             client,
		instrumentIncrementConsumedContent: instrument.New(metrics, "increment_consumed_content"),
		instrumentGetConsumedContent:       instrument.NewWithResult[*model.ConsumedContent](metrics, "get_consumed_content", instrument.WithFilter(filterNotFound)),
	}
}

// IncrementConsumedContent implements internal.ConsumedContentStorage.
func (s *consumedContentStorageImpl) IncrementConsumedContent(ctx context.Context, userID string, count int64) error {
	if count == 0 {
		return nil
	}

	return s.instrumentIncrementConsumedContent.Instrument(ctx, func(ctx context.Context) error {
		_, err := s.client.Collection(collectionConsumedContent).Doc(userID).Set(ctx, map[string]any{
			fieldUserID:         userID,
			fieldCurrentWeekCcu: firestore.Increment(count),
		}, firestore.MergeAll)
		if err != nil {
			return xerrors.Errorf("failed to increment consumed content of %v: %w", userID, err)
		}

		return nil
	})
}

// GetConsumedContent implements internal.ConsumedContentStorage.
func (s *consumedContentStorageImpl) GetConsumedContent(ctx context.Context, userID string) (*model.ConsumedContent, error) {
	return s.instrumentGetConsumedContent.Instrument(ctx, func(ctx context.Context) (*model.ConsumedContent, error) {
		doc, err := s.client.Collection(collectionConsumedContent).Doc(userID).Get(ctx)
		if err != nil && !isNotFound(err) {
			return nil, xerrors.Errorf("failed to get consumed content of %v: %w", userID, err)
		}
		if !doc.Exists() {
			return nil, xerrors.Errorf("consumed content of %v not found: %w", userID, errors.ErrItemNotFound)
		}

		var c firestoreConsumedContent
		if err := doc.DataTo(&c); err != nil {
			return nil, xerrors.Errorf("failed to parse document %v into ConsumedContent: %w", doc.Ref.ID, err)
		}

		return &model.ConsumedContent{
			UserID:         userID,
			CurrentWeekCcu: c.CurrentWeekCcu,
		}, nil
	})
}
