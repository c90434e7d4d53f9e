package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/services"
	"github.com/sybel-io/settlement/internal/tracer"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	CmdApp interface {
		Close()
		Manager() services.SystemManager
		Config() *config.Config
	}

	cmdAppImpl struct {
		app     *fx.App
		manager services.SystemManager
		config  *config.Config
	}
)

// env is set from --env before any command runs.
var env config.Env

func startApp(opts ...fx.Option) CmdApp {
	manager := services.NewManager(services.WithLogger(logger))

	cfg, err := config.New(config.WithEnvironment(env))
	if err != nil {
		panic(xerrors.Errorf("failed to create service config: %w", err))
	}

	finalOpts := []fx.Option{
		config.Module,
		config.WithCustomConfig(cfg),
		fxparams.Module,
		timesource.Module,
		tracer.Module,
		fx.NopLogger,
		fx.Provide(func() *zap.Logger { return logger }),
		fx.Provide(func() tally.Scope { return tally.NoopScope }),
		fx.Provide(func() services.SystemManager { return manager }),
	}
	finalOpts = append(finalOpts, opts...)

	app := fx.New(finalOpts...)
	if err := app.Start(manager.Context()); err != nil {
		logger.Fatal("failed to start app", zap.Error(err))
	}

	return &cmdAppImpl{
		app:     app,
		manager: manager,
		config:  cfg,
	}
}

func (a *cmdAppImpl) Close() {
	if err := a.app.Stop(a.manager.Context()); err != nil {
		logger.Error("failed to stop app", zap.Error(err))
	}

	a.manager.Shutdown()
}

func (a *cmdAppImpl) Manager() services.SystemManager {
	return a.manager
}

func (a *cmdAppImpl) Config() *config.Config {
	return a.config
}

// confirm asks before an operation that writes to the chain or to the database.
// Local runs are never prompted.
func confirm(action string, target string) bool {
	if env == config.EnvLocal {
		return true
	}

	fmt.Printf(
		"%v%v%v%v%v",
		color.CyanString("Are you sure you want to "),
		color.MagentaString(action),
		color.CyanString(" for "),
		color.MagentaString(fmt.Sprintf("%v::%v", env, target)),
		color.CyanString("? (y/N) "),
	)

	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		logger.Error("failed to read from console", zap.Error(err))
		return false
	}

	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

func markFlagsRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
