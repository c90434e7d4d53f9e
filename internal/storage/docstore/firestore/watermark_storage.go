package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"
	"google.golang.org/api/iterator"

	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
	"github.com/sybel-io/settlement/internal/storage/internal/errors"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
)

type (
	watermarkStorageImpl struct {
		client                       *firestore.Client
		instrumentGetLatestWatermark instrument.InstrumentWithResult[*model.Watermark]
		instrumentPersistWatermark   instrument.Instrument
	}

	// The timestamp is kept in epoch milliseconds, the unit of the warehouse query.
	firestoreWatermark struct {
		Timestamp   int64 `firestore:"timestamp"`
		ImportCount int   `firestore:"importCount"`
	}
)

func newWatermarkStorage(params Params, client *firestore.Client) internal.WatermarkStorage {
	metrics := params.Metrics.SubScope("watermark_storage").Tagged(map[string]string{
		storageTypeTag: storageType,
	})
	logger := log.WithPackage(params.Logger)
	return &watermarkStorageImpl{
		client: client,
		instrumentGetLatestWatermark: instrument.NewWithResult[*model.Watermark](metrics, "get_latest_watermark", instrument.WithFilter(filterNotFound)).
			WithRetry(newReadRetry[*model.Watermark](logger)),
		instrumentPersistWatermark: instrument.New(metrics, "persist_watermark"),
	}
}

// GetLatestWatermark implements internal.WatermarkStorage.
func (s *watermarkStorageImpl) GetLatestWatermark(ctx context.Context) (*model.Watermark, error) {
	return s.instrumentGetLatestWatermark.Instrument(ctx, func(ctx context.Context) (*model.Watermark, error) {
		docs := s.client.Collection(collectionWatermark).
			OrderBy("timestamp", firestore.Desc).
			Limit(1).
			Documents(ctx)
		defer docs.Stop()

		doc, err := docs.Next()
		if err == iterator.Done {
			return nil, errors.ErrItemNotFound
		}
		if err != nil {
			return nil, xerrors.Errorf("failed to get latest watermark: %w", classify(err))
		}

		var w firestoreWatermark
		if err := doc.DataTo(&w); err != nil {
			return nil, xerrors.Errorf("failed to parse watermark %v: %w", doc.Ref.ID, err)
		}

		return &model.Watermark{
			Timestamp:   time.UnixMilli(w.Timestamp).UTC(),
			ImportCount: w.ImportCount,
		}, nil
	})
}

// PersistWatermark implements internal.WatermarkStorage.
func (s *watermarkStorageImpl) PersistWatermark(ctx context.Context, watermark *model.Watermark) error {
	return s.instrumentPersistWatermark.Instrument(ctx, func(ctx context.Context) error {
		_, _, err := s.client.Collection(collectionWatermark).Add(ctx, &firestoreWatermark{
			Timestamp:   watermark.Timestamp.UnixMilli(),
			ImportCount: watermark.ImportCount,
		})
		if err != nil {
			return xerrors.Errorf("failed to persist watermark: %w", err)
		}

		return nil
	})
}
