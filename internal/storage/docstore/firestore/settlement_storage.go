package firestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
	"github.com/sybel-io/settlement/internal/storage/internal/errors"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/syncgroup"
)

type (
	settlementStorageImpl struct {
		client                           *firestore.Client
		instrumentGetSettlementIntents   instrument.InstrumentWithResult[[]*model.SettlementIntent]
		instrumentRecordSettlementIntent instrument.Instrument
	}

	// Intents are looked up by wallet and by any of their listens.
	firestoreSettlementIntent struct {
		WalletID  string    `firestore:"walletId"`
		Address   string    `firestore:"address"`
		TxHash    string    `firestore:"txHash"`
		ListenIDs []string  `firestore:"listenIds"`
		CreatedAt time.Time `firestore:"createdAt"`
	}
)

const (
	fieldWalletID  = "walletId"
	fieldListenIDs = "listenIds"
)

func newSettlementStorage(params Params, client *firestore.Client) internal.SettlementStorage {
	metrics := params.Metrics.SubScope("settlement_storage").Tagged(map[string]string{
		storageTypeTag: storageType,
	})
	logger := log.WithPackage(params.Logger)
	return &settlementStorageImpl{
		client: client,
		instrumentGetSettlementIntents: instrument.NewWithResult[[]*model.SettlementIntent](metrics, "get_settlement_intents").
			WithRetry(newReadRetry[[]*model.SettlementIntent](logger)),
		instrumentRecordSettlementIntent: instrument.New(metrics, "record_settlement_intent"),
	}
}

// GetSettlementIntentsByListens implements internal.SettlementStorage.
func (s *settlementStorageImpl) GetSettlementIntentsByListens(ctx context.Context, walletID string, listenIDs []string) ([]*model.SettlementIntent, error) {
	if len(listenIDs) == 0 {
		return nil, nil
	}

	return s.instrumentGetSettlementIntents.Instrument(ctx, func(ctx context.Context) ([]*model.SettlementIntent, error) {
		var mu sync.Mutex
		intents := make(map[string]*model.SettlementIntent)
		group, ctx := syncgroup.New(ctx)
		for _, chunk := range lo.Chunk(lo.Uniq(listenIDs), internal.MaxInFilterSize) {
			chunk := chunk
			group.Go(func() error {
				docs, err := s.client.Collection(collectionSettlement).
					Where(fieldWalletID, "==", walletID).
					Where(fieldListenIDs, "array-contains-any", chunk).
					Documents(ctx).
					GetAll()
				if err != nil {
					return xerrors.Errorf("failed to query settlement intents of wallet %v: %w", walletID, classify(err))
				}

				mu.Lock()
				defer mu.Unlock()
				for _, doc := range docs {
					// An intent covering listens of several chunks is returned once per chunk.
					if _, ok := intents[doc.Ref.ID]; ok {
						continue
					}

					intent, err := intoSettlementIntent(doc)
					if err != nil {
						return err
					}
					intents[doc.Ref.ID] = intent
				}
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return nil, xerrors.Errorf("failed to get settlement intents: %w", err)
		}

		result := lo.Values(intents)
		sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
		return result, nil
	})
}

// RecordSettlementIntent implements internal.SettlementStorage.
func (s *settlementStorageImpl) RecordSettlementIntent(ctx context.Context, intent *model.SettlementIntent) error {
	if intent.Key == "" || intent.TxHash == "" {
		return xerrors.Errorf("missing intent key or tx hash: %w", errors.ErrInvalidArgument)
	}

	return s.instrumentRecordSettlementIntent.Instrument(ctx, func(ctx context.Context) error {
		_, err := s.client.Collection(collectionSettlement).Doc(intent.Key).Create(ctx, &firestoreSettlementIntent{
			WalletID:  intent.WalletID,
			Address:   intent.Address,
			TxHash:    intent.TxHash,
			ListenIDs: intent.ListenIDs,
			CreatedAt: intent.CreatedAt,
		})
		if err != nil {
			if isAlreadyExists(err) {
				return xerrors.Errorf("settlement intent %v: %w", intent.Key, errors.ErrAlreadyExists)
			}
			return xerrors.Errorf("failed to record settlement intent %v: %w", intent.Key, err)
		}

		return nil
	})
}

func intoSettlementIntent(doc *firestore.DocumentSnapshot) (*model.SettlementIntent, error) {
	var i firestoreSettlementIntent
	if err := doc.DataTo(&i); err != nil {
		return nil, xerrors.Errorf("failed to parse document %v into SettlementIntent: %w", doc.Ref.ID, err)
	}

	return &model.SettlementIntent{
		Key:       doc.Ref.ID,
		WalletID:  i.WalletID,
		Address:   i.Address,
		TxHash:    i.TxHash,
		ListenIDs: i.ListenIDs,
		CreatedAt: i.CreatedAt.UTC(),
	}, nil
}
