package tracer

import (
	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewTracer),
	fx.Invoke(func(opentracing.Tracer) {}),
)
