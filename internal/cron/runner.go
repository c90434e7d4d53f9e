package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/services"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
)

type (
	RunnerParams struct {
		fx.In
		fxparams.Params
		Lifecycle fx.Lifecycle
		Manager   services.SystemManager
		Tasks     []Task `group:"task"`
	}

	// TasksParams collects every task, e.g. to run one of them outside of the scheduler.
	TasksParams struct {
		fx.In
		Tasks []Task `group:"task"`
	}
)

const (
	subScope    = "cron"
	stopTimeout = time.Second * 5
)

var ErrTaskNotFound = xerrors.New("task not found")

// RegisterRunner schedules every enabled task in UTC. The jobs share the service context of the manager,
// canceled together with the in-flight runs when the app stops.
func RegisterRunner(params RunnerParams) error {
	logger := log.WithPackage(params.Logger)
	metrics := params.Scoped(subScope)

	scheduler := cron.New(cron.WithLocation(time.UTC))
	jobCtx, cancel := context.WithCancel(params.Manager.ServiceContext())

	for _, task := range params.Tasks {
		name := task.Name()
		if !task.Enabled() {
			logger.Warn("task is disabled", zap.String("task", name))
			continue
		}

		job := NewJob(jobCtx, logger, metrics, task, params.Config.Cron.TaskTimeout)
		if _, err := scheduler.AddJob(task.Spec(), job); err != nil {
			cancel()
			return xerrors.Errorf("invalid spec %q for task %v: %w", task.Spec(), name, err)
		}
		logger.Info("scheduled task", zap.String("task", name), zap.String("spec", task.Spec()))
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting cron", zap.Int("num_jobs", len(scheduler.Entries())))
			scheduler.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return waitForJobs(scheduler.Stop(), logger)
		},
	})

	return nil
}

// waitForJobs gives the canceled runs stopTimeout to return. A run still going after that is abandoned.
func waitForJobs(done context.Context, logger *zap.Logger) error {
	timer := time.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-done.Done():
		logger.Info("stopped cron")
	case <-timer.C:
		logger.Error("timed out waiting for running tasks", zap.Duration("timeout", stopTimeout))
	}
	return nil
}

// FindTask returns the task with the given name, whether it is enabled or not.
func FindTask(tasks []Task, name string) (Task, error) {
	for _, task := range tasks {
		if task.Name() == name {
			return task, nil
		}
	}
	return nil, xerrors.Errorf("unknown task %q: %w", name, ErrTaskNotFound)
}
