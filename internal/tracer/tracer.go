package tracer

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/opentracer"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/sybel-io/settlement/internal/config"
)

type (
	Params struct {
		fx.In
		Config    *config.Config
		Lifecycle fx.Lifecycle
	}
)

// NewTracer starts the datadog tracer which receives the spans of every instrumented operation.
// Tests and local runs get a no-op tracer.
func NewTracer(params Params) opentracing.Tracer {
	cfg := params.Config
	if cfg.IsTest() || cfg.Env() == config.EnvLocal {
		return opentracing.NoopTracer{}
	}

	t := opentracer.New(
		tracer.WithService(cfg.ConfigName),
		tracer.WithEnv(string(cfg.Env())),
		tracer.WithGlobalTag("namespace", cfg.Namespace()),
	)
	opentracing.SetGlobalTracer(t)
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.Stop()
			return nil
		},
	})
	return t
}
