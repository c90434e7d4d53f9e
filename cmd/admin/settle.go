package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/warehouse"
)

const (
	userFlagName = "user"
)

var (
	settleCmd = &cobra.Command{
		Use:   "settle",
		Short: "pay the unsettled listens of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps struct {
				fx.In
				Aggregator *settlement.Aggregator
			}
			app := startSettlementApp(fx.Populate(&deps))
			defer app.Close()

			if !confirm("settle the listens of user "+settleFlags.user, app.Config().ConfigName) {
				return nil
			}

			txHash, err := deps.Aggregator.SettleUser(context.Background(), settleFlags.user)
			if err != nil {
				return xerrors.Errorf("failed to settle user %v: %w", settleFlags.user, err)
			}

			if txHash == "" {
				logger.Info("nothing to settle", zap.String("user_id", settleFlags.user))
				return nil
			}

			logger.Info("settled user", zap.String("user_id", settleFlags.user), zap.String("tx_hash", txHash))
			return nil
		},
	}

	settleFlags struct {
		user string
	}
)

func init() {
	settleCmd.Flags().StringVar(&settleFlags.user, userFlagName, "", "user id")
	markFlagsRequired(settleCmd, userFlagName)

	rootCmd.AddCommand(settleCmd)
}

func startSettlementApp(opts ...fx.Option) CmdApp {
	opts = append(
		opts,
		chain.Module,
		settlement.Module,
		storage.Module,
		warehouse.Module,
	)
	return startApp(opts...)
}
