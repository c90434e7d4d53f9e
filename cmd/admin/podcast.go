package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/storage/model"
)

const (
	seriesFlagName      = "series"
	nameFlagName        = "name"
	descriptionFlagName = "description"
	imageFlagName       = "image"
	colorFlagName       = "color"
	countFlagName       = "count"
)

type minterDeps struct {
	fx.In
	Minter *settlement.Minter
}

var (
	podcastCmd = &cobra.Command{
		Use:   "podcast",
		Short: "tool for minting podcasts and their fractions",
	}

	mintPodcastCmd = &cobra.Command{
		Use:   "mint",
		Short: "mint a podcast owned by a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps minterDeps
			app := startSettlementApp(fx.Populate(&deps))
			defer app.Close()

			if !confirm("mint the podcast "+podcastFlags.series, app.Config().ConfigName) {
				return nil
			}

			txHash, err := deps.Minter.LaunchPodcastMint(context.Background(), podcastFlags.user, podcastFlags.series, model.PodcastInfo{
				Name:            podcastFlags.name,
				Description:     podcastFlags.description,
				Image:           podcastFlags.image,
				BackgroundColor: podcastFlags.color,
			})
			if err != nil {
				return xerrors.Errorf("failed to mint podcast %v: %w", podcastFlags.series, err)
			}

			logger.Info("submitted podcast mint", zap.String("series_id", podcastFlags.series), zap.String("tx_hash", txHash))
			return nil
		},
	}

	buyFractionCmd = &cobra.Command{
		Use:   "buy",
		Short: "mint fractions of a podcast to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenType, err := fraction.ParseTokenType(podcastFlags.tokenType)
			if err != nil {
				return xerrors.Errorf("failed to parse token type: %w", err)
			}

			var deps minterDeps
			app := startSettlementApp(fx.Populate(&deps))
			defer app.Close()

			if !confirm("mint "+tokenType.Rarity()+" fractions of "+podcastFlags.series, app.Config().ConfigName) {
				return nil
			}

			txHash, err := deps.Minter.BuyFraction(context.Background(), podcastFlags.user, podcastFlags.series, tokenType, podcastFlags.count)
			if err != nil {
				return xerrors.Errorf("failed to buy fractions of %v: %w", podcastFlags.series, err)
			}

			logger.Info(
				"submitted fraction mint",
				zap.String("series_id", podcastFlags.series),
				zap.String("rarity", tokenType.Rarity()),
				zap.Uint64("count", podcastFlags.count),
				zap.String("tx_hash", txHash),
			)
			return nil
		},
	}

	podcastFlags struct {
		user        string
		series      string
		name        string
		description string
		image       string
		color       string
		tokenType   string
		count       uint64
	}
)

func init() {
	for _, cmd := range []*cobra.Command{mintPodcastCmd, buyFractionCmd} {
		cmd.Flags().StringVar(&podcastFlags.user, userFlagName, "", "user id")
		cmd.Flags().StringVar(&podcastFlags.series, seriesFlagName, "", "series id")
		markFlagsRequired(cmd, userFlagName, seriesFlagName)
	}

	mintPodcastCmd.Flags().StringVar(&podcastFlags.name, nameFlagName, "", "podcast name")
	mintPodcastCmd.Flags().StringVar(&podcastFlags.description, descriptionFlagName, "", "podcast description")
	mintPodcastCmd.Flags().StringVar(&podcastFlags.image, imageFlagName, "", "cover url")
	mintPodcastCmd.Flags().StringVar(&podcastFlags.color, colorFlagName, "", "background color, e.g. rgb(255, 0, 128)")
	markFlagsRequired(mintPodcastCmd, nameFlagName)

	buyFractionCmd.Flags().StringVar(&podcastFlags.tokenType, typeFlagName, "", "token type, either the tier (3-6) or its rarity name")
	buyFractionCmd.Flags().Uint64Var(&podcastFlags.count, countFlagName, 1, "number of fractions")
	markFlagsRequired(buyFractionCmd, typeFlagName)

	podcastCmd.AddCommand(mintPodcastCmd)
	podcastCmd.AddCommand(buyFractionCmd)
	rootCmd.AddCommand(podcastCmd)
}
