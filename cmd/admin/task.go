package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/badge"
	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/cron"
	"github.com/sybel-io/settlement/internal/settlement"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/warehouse"
)

const (
	taskFlagName = "task"
)

var (
	taskCmd = &cobra.Command{
		Use:   "task",
		Short: "tool for running the scheduled tasks on demand",
	}

	listTasksCmd = &cobra.Command{
		Use:   "list",
		Short: "list the scheduled tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps cron.TasksParams
			app := startTaskApp(fx.Populate(&deps))
			defer app.Close()

			for _, task := range deps.Tasks {
				logger.Info(
					"task",
					zap.String("name", task.Name()),
					zap.String("spec", task.Spec()),
					zap.Bool("enabled", task.Enabled()),
				)
			}
			return nil
		},
	}

	runTaskCmd = &cobra.Command{
		Use:   "run",
		Short: "run a task once, whether it is enabled or not",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps cron.TasksParams
			app := startTaskApp(fx.Populate(&deps))
			defer app.Close()

			task, err := cron.FindTask(deps.Tasks, taskFlags.task)
			if err != nil {
				return xerrors.Errorf("failed to find task: %w", err)
			}

			if !confirm("run "+task.Name(), app.Config().ConfigName) {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), app.Config().Cron.TaskTimeout)
			defer cancel()

			logger.Info("running task", zap.String("task", task.Name()))
			if err := task.Run(ctx); err != nil {
				return xerrors.Errorf("failed to run task %v: %w", task.Name(), err)
			}

			logger.Info("finished task", zap.String("task", task.Name()))
			return nil
		},
	}

	taskFlags struct {
		task string
	}
)

func init() {
	runTaskCmd.Flags().StringVar(&taskFlags.task, taskFlagName, "", "task name, e.g. listen_import")
	markFlagsRequired(runTaskCmd, taskFlagName)

	taskCmd.AddCommand(listTasksCmd)
	taskCmd.AddCommand(runTaskCmd)
	rootCmd.AddCommand(taskCmd)
}

func startTaskApp(opts ...fx.Option) CmdApp {
	opts = append(
		opts,
		badge.Module,
		chain.Module,
		cron.Module,
		settlement.Module,
		storage.Module,
		warehouse.Module,
	)
	return startApp(opts...)
}
