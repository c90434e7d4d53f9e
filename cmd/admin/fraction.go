package main

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/utils/consts"
)

const (
	baseFlagName = "base"
	typeFlagName = "type"
	idFlagName   = "id"
)

type chainDeps struct {
	fx.In
	Chain chain.Client
}

var (
	fractionCmd = &cobra.Command{
		Use:   "fraction",
		Short: "tool for inspecting the fraction tokens",
	}

	packFractionCmd = &cobra.Command{
		Use:   "pack",
		Short: "print the fraction id of a podcast tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := fractionFromFlags()
			if err != nil {
				return err
			}

			logger.Info("fraction id", zap.String("id", id.String()))
			return nil
		},
	}

	unpackFractionCmd = &cobra.Command{
		Use:   "unpack",
		Short: "print the base id and the token type of a fraction id",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(fractionFlags.id, 10, 64)
			if err != nil {
				return xerrors.Errorf("failed to parse fraction id %q: %w", fractionFlags.id, err)
			}

			baseID, tokenType := fraction.ID(v).Unpack()
			logger.Info(
				"fraction",
				zap.Uint64("base_id", baseID),
				zap.Uint8("token_type", uint8(tokenType)),
				zap.String("rarity", tokenType.Rarity()),
			)
			return nil
		},
	}

	supplyFractionCmd = &cobra.Command{
		Use:   "supply",
		Short: "print the current supply and badge of a fraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := fractionFromFlags()
			if err != nil {
				return err
			}

			var deps chainDeps
			app := startApp(chain.Module, fx.Populate(&deps))
			defer app.Close()

			ctx := context.Background()
			supply, err := deps.Chain.SupplyOf(ctx, id)
			if err != nil {
				return xerrors.Errorf("failed to get supply of %v: %w", id, err)
			}

			cost, err := deps.Chain.GetBadge(ctx, id)
			if err != nil {
				return xerrors.Errorf("failed to get badge of %v: %w", id, err)
			}

			logger.Info(
				"fraction supply",
				zap.String("id", id.String()),
				zap.String("supply", supply.String()),
				zap.String("cost", decimal.NewFromBigInt(cost, -consts.TokenDecimals).String()),
			)
			return nil
		},
	}

	eventsFractionCmd = &cobra.Command{
		Use:   "events",
		Short: "print the supply updates of a fraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := fractionFromFlags()
			if err != nil {
				return err
			}

			var deps chainDeps
			app := startApp(chain.Module, fx.Populate(&deps))
			defer app.Close()

			events, err := deps.Chain.GetSupplyUpdatedEvents(context.Background(), id)
			if err != nil {
				return xerrors.Errorf("failed to get supply updates of %v: %w", id, err)
			}

			for _, event := range events {
				logger.Info(
					"supply updated",
					zap.Uint64("block_number", event.BlockNumber),
					zap.String("tx_hash", event.TxHash.Hex()),
					zap.String("supply", event.Supply.String()),
				)
			}
			logger.Info("fetched supply updates", zap.String("id", id.String()), zap.Int("events", len(events)))
			return nil
		},
	}

	fractionFlags struct {
		base      uint64
		tokenType string
		id        string
	}
)

func init() {
	for _, cmd := range []*cobra.Command{packFractionCmd, supplyFractionCmd, eventsFractionCmd} {
		cmd.Flags().Uint64Var(&fractionFlags.base, baseFlagName, 0, "podcast base id")
		cmd.Flags().StringVar(&fractionFlags.tokenType, typeFlagName, "", "token type, either the tier (1-6) or its rarity name")
		markFlagsRequired(cmd, baseFlagName, typeFlagName)
	}

	unpackFractionCmd.Flags().StringVar(&fractionFlags.id, idFlagName, "", "fraction id")
	markFlagsRequired(unpackFractionCmd, idFlagName)

	fractionCmd.AddCommand(packFractionCmd)
	fractionCmd.AddCommand(unpackFractionCmd)
	fractionCmd.AddCommand(supplyFractionCmd)
	fractionCmd.AddCommand(eventsFractionCmd)
	rootCmd.AddCommand(fractionCmd)
}

func fractionFromFlags() (fraction.ID, error) {
	tokenType, err := fraction.ParseTokenType(fractionFlags.tokenType)
	if err != nil {
		return 0, xerrors.Errorf("failed to parse token type: %w", err)
	}

	return fraction.Pack(fractionFlags.base, tokenType)
}
