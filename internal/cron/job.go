package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
)

type (
	// Job runs a task on behalf of the scheduler. A run is skipped while the previous run of the same task is in progress.
	Job struct {
		ctx        context.Context
		logger     *zap.Logger
		instrument instrument.Instrument
		task       Task
		timeout    time.Duration
		semaphore  *semaphore.Weighted
	}
)

const (
	taskTag   = "task"
	loggerMsg = "cron.job"
)

var _ cron.Job = (*Job)(nil)

func NewJob(ctx context.Context, logger *zap.Logger, metrics tally.Scope, task Task, timeout time.Duration) *Job {
	taskName := task.Name()
	return &Job{
		ctx:    ctx,
		logger: log.WithPackage(logger),
		instrument: instrument.New(
			metrics,
			taskName,
			instrument.WithLogger(logger.With(zap.String(taskTag, taskName)), loggerMsg),
		),
		task:      task,
		timeout:   timeout,
		semaphore: semaphore.NewWeighted(1),
	}
}

func (j *Job) Run() {
	_ = j.run()
}

// run returns false if the task was skipped.
func (j *Job) run() bool {
	taskName := j.task.Name()
	if !j.semaphore.TryAcquire(1) {
		j.logger.Info("skipped task", zap.String(taskTag, taskName))
		return false
	}
	defer j.semaphore.Release(1)

	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()

	_ = j.instrument.Instrument(ctx, func(ctx context.Context) error {
		return j.task.Run(ctx)
	})
	return true
}
