package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
	"github.com/sybel-io/settlement/internal/storage/internal/errors"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/pointer"
)

type (
	listenStorageImpl struct {
		client                            *firestore.Client
		instrumentAddListens              instrument.Instrument
		instrumentGetUnsettledListens     instrument.InstrumentWithResult[[]*model.ListenRecord]
		instrumentStampRewardTx           instrument.InstrumentWithResult[int]
		instrumentGetPendingRewardListens instrument.InstrumentWithResult[[]*model.ListenRecord]
		instrumentConfirmRewardListen     instrument.Instrument
		instrumentDeleteExpiredListens    instrument.InstrumentWithResult[int]
	}

	// Absent hashes are stored as null so that they can be matched by equality filters.
	firestoreListenRecord struct {
		UserID            string     `firestore:"userId"`
		SeriesID          string     `firestore:"seriesId"`
		Date              time.Time  `firestore:"date"`
		GivenToUser       bool       `firestore:"givenToUser"`
		RewardTxHash      *string    `firestore:"rewardTxHash"`
		RewardSubmittedAt *time.Time `firestore:"rewardSubmittedAt"`
		TxBlockNumber     *int64     `firestore:"txBlockNumber"`
		TxBlockHash       *string    `firestore:"txBlockHash"`
	}
)

const (
	fieldUserID            = "userId"
	fieldDate              = "date"
	fieldGivenToUser       = "givenToUser"
	fieldRewardTxHash      = "rewardTxHash"
	fieldRewardSubmittedAt = "rewardSubmittedAt"
	fieldTxBlockNumber     = "txBlockNumber"
	fieldTxBlockHash       = "txBlockHash"
)

func newListenStorage(params Params, client *firestore.Client) internal.ListenStorage {
	metrics := params.Metrics.SubScope("listen_storage").Tagged(map[string]string{
		storageTypeTag: storageType,
	})
	logger := log.WithPackage(params.Logger)
	return &listenStorageImpl{
		client:               client,
		instrumentAddListens: instrument.New(metrics, "add_listens"),
		instrumentGetUnsettledListens: instrument.NewWithResult[[]*model.ListenRecord](metrics, "get_unsettled_listens").
			WithRetry(newReadRetry[[]*model.ListenRecord](logger)),
		instrumentStampRewardTx: instrument.NewWithResult[int](metrics, "stamp_reward_tx"),
		instrumentGetPendingRewardListens: instrument.NewWithResult[[]*model.ListenRecord](metrics, "get_pending_reward_listens").
			WithRetry(newReadRetry[[]*model.ListenRecord](logger)),
		instrumentConfirmRewardListen:  instrument.New(metrics, "confirm_reward_listen", instrument.WithFilter(filterNotFound)),
		instrumentDeleteExpiredListens: instrument.NewWithResult[int](metrics, "delete_expired_listens"),
	}
}

// AddListens implements internal.ListenStorage.
func (s *listenStorageImpl) AddListens(ctx context.Context, listens []*model.ListenRecord) error {
	if len(listens) == 0 {
		return nil
	}
	if len(listens) > maxBulkWriteSize {
		return xerrors.Errorf("cannot add %d listens in one transaction (max=%d): %w", len(listens), maxBulkWriteSize, errors.ErrInvalidArgument)
	}

	return s.instrumentAddListens.Instrument(ctx, func(ctx context.Context) error {
		collection := s.client.Collection(collectionListen)
		// Document ids are assigned up front so that a retried transaction does not duplicate records.
		docRefs := make([]*firestore.DocumentRef, len(listens))
		for i := range listens {
			docRefs[i] = collection.NewDoc()
		}

		err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
			for i, listen := range listens {
				if err := t.Create(docRefs[i], fromListenRecord(listen)); err != nil {
					return xerrors.Errorf("failed to add listen %+v in firestore transaction: %w", listen, err)
				}
			}
			return nil
		})
		if err != nil {
			return xerrors.Errorf("failed to add listens in firestore transaction: %w", err)
		}

		for i, listen := range listens {
			listen.ID = docRefs[i].ID
		}
		return nil
	})
}

// GetUnsettledListens implements internal.ListenStorage.
func (s *listenStorageImpl) GetUnsettledListens(ctx context.Context, userID string) ([]*model.ListenRecord, error) {
	return s.instrumentGetUnsettledListens.Instrument(ctx, func(ctx context.Context) ([]*model.ListenRecord, error) {
		// The importer always writes givenToUser explicitly, so "== false" selects the same records as "!= true".
		query := s.client.Collection(collectionListen).
			Where(fieldUserID, "==", userID).
			Where(fieldGivenToUser, "==", false).
			Where(fieldRewardTxHash, "==", nil)
		return s.queryListens(ctx, query)
	})
}

// StampRewardTx implements internal.ListenStorage.
func (s *listenStorageImpl) StampRewardTx(ctx context.Context, listenIDs []string, txHash string, submittedAt time.Time) (int, error) {
	if txHash == "" {
		return 0, xerrors.Errorf("missing tx hash: %w", errors.ErrInvalidArgument)
	}

	return s.instrumentStampRewardTx.Instrument(ctx, func(ctx context.Context) (int, error) {
		collection := s.client.Collection(collectionListen)
		stamped := 0
		for _, chunk := range lo.Chunk(listenIDs, maxBulkWriteSize) {
			docRefs := make([]*firestore.DocumentRef, len(chunk))
			for i, id := range chunk {
				docRefs[i] = collection.Doc(id)
			}

			var chunkStamped int
			err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
				chunkStamped = 0
				docs, err := t.GetAll(docRefs)
				if err != nil {
					return xerrors.Errorf("failed to read listens: %w", err)
				}

				for _, doc := range docs {
					if !doc.Exists() {
						continue
					}

					listen, err := intoListenRecord(doc)
					if err != nil {
						return err
					}

					// Never overwrite a hash stamped by a concurrent run.
					if listen.RewardTxHash != "" {
						continue
					}

					if err := t.Update(doc.Ref, []firestore.Update{
						{Path: fieldRewardTxHash, Value: txHash},
						{Path: fieldRewardSubmittedAt, Value: submittedAt},
					}); err != nil {
						return xerrors.Errorf("failed to stamp listen %v: %w", doc.Ref.ID, err)
					}
					chunkStamped += 1
				}
				return nil
			})
			if err != nil {
				return stamped, xerrors.Errorf("failed to stamp reward tx %v: %w", txHash, err)
			}
			stamped += chunkStamped
		}

		return stamped, nil
	})
}

// GetPendingRewardListens implements internal.ListenStorage.
func (s *listenStorageImpl) GetPendingRewardListens(ctx context.Context) ([]*model.ListenRecord, error) {
	return s.instrumentGetPendingRewardListens.Instrument(ctx, func(ctx context.Context) ([]*model.ListenRecord, error) {
		query := s.client.Collection(collectionListen).
			Where(fieldRewardTxHash, "!=", nil).
			Where(fieldTxBlockHash, "==", nil)
		return s.queryListens(ctx, query)
	})
}

// ConfirmRewardListen implements internal.ListenStorage.
func (s *listenStorageImpl) ConfirmRewardListen(ctx context.Context, listenID string, blockNumber uint64, blockHash string) error {
	return s.instrumentConfirmRewardListen.Instrument(ctx, func(ctx context.Context) error {
		_, err := s.client.Collection(collectionListen).Doc(listenID).Update(ctx, []firestore.Update{
			{Path: fieldTxBlockNumber, Value: int64(blockNumber)},
			{Path: fieldTxBlockHash, Value: blockHash},
			{Path: fieldGivenToUser, Value: true},
		})
		if err != nil {
			if isNotFound(err) {
				return xerrors.Errorf("listen %v not found: %w", listenID, errors.ErrItemNotFound)
			}
			return xerrors.Errorf("failed to confirm listen %v: %w", listenID, err)
		}

		return nil
	})
}

// DeleteExpiredListens implements internal.ListenStorage.
func (s *listenStorageImpl) DeleteExpiredListens(ctx context.Context, before time.Time) (int, error) {
	return s.instrumentDeleteExpiredListens.Instrument(ctx, func(ctx context.Context) (int, error) {
		collection := s.client.Collection(collectionListen)
		queries := []firestore.Query{
			// Confirmed.
			collection.Where(fieldGivenToUser, "==", true).Where(fieldDate, "<", before),
			// Never settled. Pending records are kept until confirmed.
			collection.Where(fieldRewardTxHash, "==", nil).Where(fieldDate, "<", before),
		}

		deleted := 0
		for _, query := range queries {
			for {
				docs, err := query.Limit(maxBulkWriteSize).Documents(ctx).GetAll()
				if err != nil {
					return deleted, xerrors.Errorf("failed to query expired listens: %w", err)
				}
				if len(docs) == 0 {
					break
				}

				bulkWriter := s.client.BulkWriter(ctx)
				jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
				for _, doc := range docs {
					job, err := bulkWriter.Delete(doc.Ref)
					if err != nil {
						return deleted, xerrors.Errorf("failed to add listen %v to BulkWriter: %w", doc.Ref.ID, err)
					}
					jobs = append(jobs, job)
				}
				bulkWriter.End()

				for _, job := range jobs {
					if _, err := job.Results(); err != nil {
						return deleted, xerrors.Errorf("failed to delete expired listen: %w", err)
					}
					deleted += 1
				}
			}
		}

		return deleted, nil
	})
}

func (s *listenStorageImpl) queryListens(ctx context.Context, query firestore.Query) ([]*model.ListenRecord, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, xerrors.Errorf("failed to query listens: %w", classify(err))
	}

	listens := make([]*model.ListenRecord, len(docs))
	for i, doc := range docs {
		listen, err := intoListenRecord(doc)
		if err != nil {
			return nil, err
		}
		listens[i] = listen
	}

	return listens, nil
}

func fromListenRecord(listen *model.ListenRecord) *firestoreListenRecord {
	r := &firestoreListenRecord{
		UserID:      listen.UserID,
		SeriesID:    listen.SeriesID,
		Date:        listen.Date,
		GivenToUser: listen.GivenToUser,
	}
	if listen.RewardTxHash != "" {
		r.RewardTxHash = pointer.String(listen.RewardTxHash)
	}
	if !listen.RewardSubmittedAt.IsZero() {
		r.RewardSubmittedAt = pointer.Ref(listen.RewardSubmittedAt)
	}
	if listen.TxBlockHash != "" {
		r.TxBlockHash = pointer.String(listen.TxBlockHash)
		r.TxBlockNumber = pointer.Ref(int64(listen.TxBlockNumber))
	}
	return r
}

func intoListenRecord(doc *firestore.DocumentSnapshot) (*model.ListenRecord, error) {
	var r firestoreListenRecord
	if err := doc.DataTo(&r); err != nil {
		return nil, xerrors.Errorf("failed to parse document %v into ListenRecord: %w", doc.Ref.ID, err)
	}

	blockNumber := pointer.Deref(r.TxBlockNumber)
	if blockNumber < 0 {
		return nil, xerrors.Errorf("expecting txBlockNumber to be uint64, but got %d", blockNumber)
	}

	record := &model.ListenRecord{
		ID:            doc.Ref.ID,
		UserID:        r.UserID,
		SeriesID:      r.SeriesID,
		Date:          r.Date.UTC(),
		GivenToUser:   r.GivenToUser,
		RewardTxHash:  pointer.StringDeref(r.RewardTxHash),
		TxBlockNumber: uint64(blockNumber),
		TxBlockHash:   pointer.StringDeref(r.TxBlockHash),
	}
	if r.RewardSubmittedAt != nil {
		record.RewardSubmittedAt = r.RewardSubmittedAt.UTC()
	}
	return record, nil
}
