package firestore

import (
	"context"
	"math/big"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
	"github.com/sybel-io/settlement/internal/storage/internal/errors"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/syncgroup"
)

type (
	walletStorageImpl struct {
		client                   *firestore.Client
		chunkSize                int
		instrumentGetWallet      instrument.InstrumentWithResult[*model.Wallet]
		instrumentGetWallets     instrument.InstrumentWithResult[[]*model.Wallet]
		instrumentCreateIfAbsent instrument.InstrumentWithResult[*model.Wallet]
		instrumentAddFraction    instrument.Instrument
	}

	firestoreWallet struct {
		ID              string                    `firestore:"id"`
		Address         string                    `firestore:"address"`
		EncryptedWallet string                    `firestore:"encryptedWallet"`
		TseBalance      string                    `firestore:"tseBalance,omitempty"`
		Fractions       []*firestoreOwnedFraction `firestore:"fractions"`
	}

	firestoreOwnedFraction struct {
		SeriesID  string `firestore:"seriesId"`
		TokenType int64  `firestore:"tokenType"`
		Count     int64  `firestore:"count"`
		TxHash    string `firestore:"txHash"`
	}
)

const (
	fieldID        = "id"
	fieldFractions = "fractions"
)

func newWalletStorage(params Params, client *firestore.Client) internal.WalletStorage {
	metrics := params.Metrics.SubScope("wallet_storage").Tagged(map[string]string{
		storageTypeTag: storageType,
	})
	logger := log.WithPackage(params.Logger)
	chunkSize := params.Config.Settlement.WalletChunkSize
	if chunkSize <= 0 || chunkSize > internal.MaxInFilterSize {
		chunkSize = internal.MaxInFilterSize
	}
	return &walletStorageImpl{
		client:    client,
		chunkSize: chunkSize,
		instrumentGetWallet: instrument.NewWithResult[*model.Wallet](metrics, "get_wallet", instrument.WithFilter(filterNotFound)).
			WithRetry(newReadRetry[*model.Wallet](logger)),
		instrumentGetWallets: instrument.NewWithResult[[]*model.Wallet](metrics, "get_wallets").
			WithRetry(newReadRetry[[]*model.Wallet](logger)),
		instrumentCreateIfAbsent: instrument.NewWithResult[*model.Wallet](metrics, "create_if_absent"),
		instrumentAddFraction:    instrument.New(metrics, "add_fraction"),
	}
}

// GetWallet implements internal.WalletStorage.
func (s *walletStorageImpl) GetWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	return s.instrumentGetWallet.Instrument(ctx, func(ctx context.Context) (*model.Wallet, error) {
		return s.getWallet(ctx, userID)
	})
}

// GetWallets implements internal.WalletStorage.
func (s *walletStorageImpl) GetWallets(ctx context.Context, userIDs []string) ([]*model.Wallet, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	return s.instrumentGetWallets.Instrument(ctx, func(ctx context.Context) ([]*model.Wallet, error) {
		var mu sync.Mutex
		wallets := make([]*model.Wallet, 0, len(userIDs))
		group, ctx := syncgroup.New(ctx)
		for _, chunk := range lo.Chunk(lo.Uniq(userIDs), s.chunkSize) {
			chunk := chunk
			group.Go(func() error {
				docs, err := s.client.Collection(collectionWallet).
					Where(fieldID, "in", chunk).
					Documents(ctx).
					GetAll()
				if err != nil {
					return xerrors.Errorf("failed to query wallets %v: %w", chunk, classify(err))
				}

				result := make([]*model.Wallet, 0, len(docs))
				for _, doc := range docs {
					wallet, err := intoWallet(doc)
					if err != nil {
						return err
					}
					result = append(result, wallet)
				}

				mu.Lock()
				defer mu.Unlock()
				wallets = append(wallets, result...)
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return nil, xerrors.Errorf("failed to get wallets: %w", err)
		}

		return wallets, nil
	})
}

// CreateIfAbsent implements internal.WalletStorage.
func (s *walletStorageImpl) CreateIfAbsent(ctx context.Context, wallet *model.Wallet) (*model.Wallet, error) {
	if wallet.ID == "" || wallet.Address == "" {
		return nil, xerrors.Errorf("missing wallet id or address: %w", errors.ErrInvalidArgument)
	}

	return s.instrumentCreateIfAbsent.Instrument(ctx, func(ctx context.Context) (*model.Wallet, error) {
		// The document id is the user id, so the store rejects a second wallet for the same user.
		_, err := s.client.Collection(collectionWallet).Doc(wallet.ID).Create(ctx, fromWallet(wallet))
		if err == nil {
			return wallet, nil
		}
		if !isAlreadyExists(err) {
			return nil, xerrors.Errorf("failed to create wallet %v: %w", wallet.ID, err)
		}

		existing, err := s.getWallet(ctx, wallet.ID)
		if err != nil {
			return nil, xerrors.Errorf("failed to get existing wallet %v: %w", wallet.ID, err)
		}
		return existing, nil
	})
}

// AddFraction implements internal.WalletStorage.
func (s *walletStorageImpl) AddFraction(ctx context.Context, userID string, owned *model.OwnedFraction) error {
	return s.instrumentAddFraction.Instrument(ctx, func(ctx context.Context) error {
		_, err := s.client.Collection(collectionWallet).Doc(userID).Update(ctx, []firestore.Update{
			{Path: fieldFractions, Value: firestore.ArrayUnion(fromOwnedFraction(owned))},
		})
		if err != nil {
			if isNotFound(err) {
				return xerrors.Errorf("wallet %v not found: %w", userID, errors.ErrItemNotFound)
			}
			return xerrors.Errorf("failed to add fraction to wallet %v: %w", userID, err)
		}

		return nil
	})
}

func (s *walletStorageImpl) getWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	doc, err := s.client.Collection(collectionWallet).Doc(userID).Get(ctx)
	if err != nil && !isNotFound(err) {
		return nil, xerrors.Errorf("failed to get wallet %v: %w", userID, classify(err))
	}
	if !doc.Exists() {
		return nil, xerrors.Errorf("wallet %v not found: %w", userID, errors.ErrItemNotFound)
	}

	return intoWallet(doc)
}

func fromWallet(wallet *model.Wallet) *firestoreWallet {
	w := &firestoreWallet{
		ID:              wallet.ID,
		Address:         wallet.Address,
		EncryptedWallet: wallet.EncryptedWallet,
		Fractions:       make([]*firestoreOwnedFraction, len(wallet.Fractions)),
	}
	if wallet.TseBalance != nil {
		w.TseBalance = wallet.TseBalance.String()
	}
	for i, owned := range wallet.Fractions {
		w.Fractions[i] = fromOwnedFraction(owned)
	}
	return w
}

func fromOwnedFraction(owned *model.OwnedFraction) *firestoreOwnedFraction {
	return &firestoreOwnedFraction{
		SeriesID:  owned.SeriesID,
		TokenType: int64(owned.TokenType),
		Count:     int64(owned.Count),
		TxHash:    owned.TxHash,
	}
}

func intoWallet(doc *firestore.DocumentSnapshot) (*model.Wallet, error) {
	var w firestoreWallet
	if err := doc.DataTo(&w); err != nil {
		return nil, xerrors.Errorf("failed to parse document %v into Wallet: %w", doc.Ref.ID, err)
	}

	wallet := &model.Wallet{
		ID:              w.ID,
		Address:         w.Address,
		EncryptedWallet: w.EncryptedWallet,
		Fractions:       make([]*model.OwnedFraction, len(w.Fractions)),
	}
	if wallet.ID == "" {
		wallet.ID = doc.Ref.ID
	}
	if w.TseBalance != "" {
		balance, ok := new(big.Int).SetString(w.TseBalance, 10)
		if !ok {
			return nil, xerrors.Errorf("invalid tseBalance %q of wallet %v", w.TseBalance, wallet.ID)
		}
		wallet.TseBalance = balance
	}
	for i, owned := range w.Fractions {
		if owned.Count < 0 {
			return nil, xerrors.Errorf("expecting fraction count to be uint64, but got %d", owned.Count)
		}
		wallet.Fractions[i] = &model.OwnedFraction{
			SeriesID:  owned.SeriesID,
			TokenType: fraction.TokenType(owned.TokenType),
			Count:     uint64(owned.Count),
			TxHash:    owned.TxHash,
		}
	}

	return wallet, nil
}
