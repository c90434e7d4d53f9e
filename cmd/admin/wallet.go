package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/storage"
)

const (
	addressFlagName = "address"
)

var (
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "tool for managing the user wallets",
	}

	getWalletCmd = &cobra.Command{
		Use:   "get",
		Short: "print the wallet and the consumed content of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps struct {
				fx.In
				WalletStorage          storage.WalletStorage
				ConsumedContentStorage storage.ConsumedContentStorage
			}
			app := startApp(storage.Module, fx.Populate(&deps))
			defer app.Close()

			ctx := context.Background()
			wallet, err := deps.WalletStorage.GetWallet(ctx, walletFlags.user)
			if err != nil {
				return xerrors.Errorf("failed to get wallet of user %v: %w", walletFlags.user, err)
			}

			var consumed int64
			content, err := deps.ConsumedContentStorage.GetConsumedContent(ctx, walletFlags.user)
			if err == nil {
				consumed = content.CurrentWeekCcu
			} else if !xerrors.Is(err, storage.ErrItemNotFound) {
				return xerrors.Errorf("failed to get consumed content of user %v: %w", walletFlags.user, err)
			}

			logger.Info(
				"wallet",
				zap.String("user_id", wallet.ID),
				zap.String("address", wallet.Address),
				zap.Reflect("fractions", wallet.Fractions),
				zap.Int64("consumed_content", consumed),
			)
			return nil
		},
	}

	registerWalletCmd = &cobra.Command{
		Use:   "register",
		Short: "register the wallet of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps struct {
				fx.In
				WalletResolver *settlement.WalletResolver
			}
			app := startApp(storage.Module, settlement.Module, fx.Populate(&deps))
			defer app.Close()

			if !confirm("register "+walletFlags.address+" to user "+walletFlags.user, app.Config().ConfigName) {
				return nil
			}

			wallet, err := deps.WalletResolver.Register(context.Background(), walletFlags.user, walletFlags.address)
			if err != nil {
				return xerrors.Errorf("failed to register wallet: %w", err)
			}

			logger.Info("registered wallet", zap.String("user_id", wallet.ID), zap.String("address", wallet.Address))
			return nil
		},
	}

	walletFlags struct {
		user    string
		address string
	}
)

func init() {
	for _, cmd := range []*cobra.Command{getWalletCmd, registerWalletCmd} {
		cmd.Flags().StringVar(&walletFlags.user, userFlagName, "", "user id")
		markFlagsRequired(cmd, userFlagName)
	}

	registerWalletCmd.Flags().StringVar(&walletFlags.address, addressFlagName, "", "wallet address")
	markFlagsRequired(registerWalletCmd, addressFlagName)

	walletCmd.AddCommand(getWalletCmd)
	walletCmd.AddCommand(registerWalletCmd)
	rootCmd.AddCommand(walletCmd)
}
