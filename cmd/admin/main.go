package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/utils/log"
)

var (
	rootCmd = &cobra.Command{
		Use:               "admin",
		Short:             "admin is a utility for operating the settlement pipeline",
		Long:              "admin runs the settlement tasks by hand and inspects or repairs the state they keep in firestore and on chain.",
		SilenceUsage:      true,
		PersistentPreRunE: validateEnv,
	}

	commonFlags struct {
		env string
	}

	logger = log.NewDevelopment()
)

const envFlagName = "env"

func init() {
	rootCmd.PersistentFlags().StringVar(&commonFlags.env, envFlagName, "", "one of [local, development, production]")
	if err := rootCmd.MarkPersistentFlagRequired(envFlagName); err != nil {
		logger.Fatal("failed to mark flag required", zap.String("flag", envFlagName), zap.Error(err))
	}
}

func validateEnv(_ *cobra.Command, _ []string) error {
	switch config.Env(commonFlags.env) {
	case config.EnvLocal, config.EnvDevelopment, config.EnvProduction:
		env = config.Env(commonFlags.env)
		return nil
	default:
		return xerrors.Errorf("unknown env %q", commonFlags.env)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("admin command failed", zap.Error(err))
		os.Exit(1)
	}
}
