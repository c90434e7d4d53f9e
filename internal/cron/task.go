package cron

import (
	"context"

	"github.com/sybel-io/settlement/internal/config"
)

type (
	// Task is a unit of periodic work registered in the "task" group.
	Task interface {
		Name() string
		// Spec is a standard five-field cron expression, evaluated in UTC.
		Spec() string
		Run(ctx context.Context) error
		Enabled() bool
	}

	// schedule implements the scheduling half of Task from the cron section of the config.
	schedule struct {
		name   string
		config config.TaskConfig
	}
)

func newSchedule(name string, cfg config.TaskConfig) schedule {
	return schedule{name: name, config: cfg}
}

func (s schedule) Name() string {
	return s.name
}

func (s schedule) Spec() string {
	return s.config.Spec
}

func (s schedule) Enabled() bool {
	return !s.config.Disabled
}
