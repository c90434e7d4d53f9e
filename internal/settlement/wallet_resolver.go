package settlement

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
)

type (
	// WalletResolver maps user ids to their wallets.
	WalletResolver struct {
		logger        *zap.Logger
		walletStorage storage.WalletStorage
	}

	WalletResolverParams struct {
		fx.In
		fxparams.Params
		WalletStorage storage.WalletStorage
	}
)

func NewWalletResolver(params WalletResolverParams) *WalletResolver {
	return &WalletResolver{
		logger:        log.WithPackage(params.Logger),
		walletStorage: params.WalletStorage,
	}
}

// Resolve skips the users without a wallet and the wallets without a valid address.
func (r *WalletResolver) Resolve(ctx context.Context, userIDs []string) []*model.Wallet {
	if len(userIDs) == 0 {
		return nil
	}

	wallets, err := r.walletStorage.GetWallets(ctx, userIDs)
	if err != nil {
		r.logger.Warn("failed to resolve wallets", zap.Int("users", len(userIDs)), zap.Error(err))
		return nil
	}

	result := make([]*model.Wallet, 0, len(wallets))
	for _, wallet := range wallets {
		if !common.IsHexAddress(wallet.Address) {
			r.logger.Warn("invalid wallet address", zap.String("user_id", wallet.ID), zap.String("wallet", wallet.Address))
			continue
		}
		result = append(result, wallet)
	}

	if len(result) < len(userIDs) {
		r.logger.Debug("some users have no usable wallet", zap.Int("users", len(userIDs)), zap.Int("wallets", len(result)))
	}
	return result
}

// Register creates the wallet of the user, or returns the one already registered.
func (r *WalletResolver) Register(ctx context.Context, userID string, address string) (*model.Wallet, error) {
	if userID == "" {
		return nil, invalidArgument("missing user id")
	}
	if !common.IsHexAddress(address) {
		return nil, invalidArgument("invalid wallet address %q", address)
	}

	wallet, err := r.walletStorage.CreateIfAbsent(ctx, &model.Wallet{
		ID:      userID,
		Address: common.HexToAddress(address).Hex(),
	})
	if err != nil {
		return nil, storageError(err, "failed to register the wallet of user %v", userID)
	}

	if !strings.EqualFold(wallet.Address, address) {
		r.logger.Warn("user already has another wallet", zap.String("user_id", userID), zap.String("wallet", wallet.Address))
	}
	return wallet, nil
}
