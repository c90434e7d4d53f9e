package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
)

const (
	timestampFlagName = "timestamp"
)

type watermarkDeps struct {
	fx.In
	WatermarkStorage storage.WatermarkStorage
}

var (
	watermarkCmd = &cobra.Command{
		Use:   "watermark",
		Short: "tool for managing the listen import watermark",
	}

	getWatermarkCmd = &cobra.Command{
		Use:   "get",
		Short: "print the latest watermark",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps watermarkDeps
			app := startApp(storage.Module, fx.Populate(&deps))
			defer app.Close()

			watermark, err := deps.WatermarkStorage.GetLatestWatermark(context.Background())
			if err != nil {
				return xerrors.Errorf("failed to get latest watermark: %w", err)
			}

			logger.Info(
				"latest watermark",
				zap.Time("timestamp", watermark.Timestamp),
				zap.Int("import_count", watermark.ImportCount),
			)
			return nil
		},
	}

	resetWatermarkCmd = &cobra.Command{
		Use:   "reset",
		Short: "move the watermark, the next import starts from the given timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			timestamp, err := time.Parse(time.RFC3339, watermarkFlags.timestamp)
			if err != nil {
				return xerrors.Errorf("failed to parse timestamp %q: %w", watermarkFlags.timestamp, err)
			}

			var deps watermarkDeps
			app := startApp(storage.Module, fx.Populate(&deps))
			defer app.Close()

			if !confirm("reset the watermark to "+timestamp.UTC().Format(time.RFC3339), app.Config().ConfigName) {
				return nil
			}

			if err := deps.WatermarkStorage.PersistWatermark(context.Background(), &model.Watermark{
				Timestamp: timestamp.UTC(),
			}); err != nil {
				return xerrors.Errorf("failed to persist watermark: %w", err)
			}

			logger.Info("reset watermark", zap.Time("timestamp", timestamp.UTC()))
			return nil
		},
	}

	watermarkFlags struct {
		timestamp string
	}
)

func init() {
	resetWatermarkCmd.Flags().StringVar(&watermarkFlags.timestamp, timestampFlagName, "", "RFC 3339 timestamp, e.g. 2023-03-20T12:00:00Z")
	markFlagsRequired(resetWatermarkCmd, timestampFlagName)

	watermarkCmd.AddCommand(getWatermarkCmd)
	watermarkCmd.AddCommand(resetWatermarkCmd)
	rootCmd.AddCommand(watermarkCmd)
}
