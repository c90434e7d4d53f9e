package log

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// EnvVarLogLevel overrides the level of the production logger, e.g. "debug".
const EnvVarLogLevel = "SETTLEMENT_LOG_LEVEL"

// New returns the JSON logger used by the deployed binaries.
func New() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(zapcore.InfoLevel))
	return build(cfg, zap.FatalLevel)
}

// NewDevelopment returns the console logger used by tests and the admin tool.
func NewDevelopment() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return build(cfg, zap.ErrorLevel)
}

func build(cfg zap.Config, stacktraceLevel zapcore.Level) *zap.Logger {
	logger, err := cfg.Build(zap.AddStacktrace(stacktraceLevel))
	if err != nil {
		panic(err)
	}
	return logger
}

func levelFromEnv(fallback zapcore.Level) zapcore.Level {
	value, ok := os.LookupEnv(EnvVarLogLevel)
	if !ok {
		return fallback
	}
	level, err := zapcore.ParseLevel(value)
	if err != nil {
		return fallback
	}
	return level
}

// WithPackage tags the logger with the package of its caller.
func WithPackage(logger *zap.Logger) *zap.Logger {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return logger
	}
	return logger.With(zap.String("package", filepath.Base(filepath.Dir(file))))
}

// WithSpan correlates the log lines with the datadog span carried by ctx, if any.
// See https://docs.datadoghq.com/tracing/other_telemetry/connect_logs_and_traces/go/
func WithSpan(ctx context.Context, logger *zap.Logger) *zap.Logger {
	span, ok := tracer.SpanFromContext(ctx)
	if !ok {
		return logger
	}
	spanCtx := span.Context()
	return logger.With(
		zap.String("dd.trace_id", strconv.FormatUint(spanCtx.TraceID(), 10)),
		zap.String("dd.span_id", strconv.FormatUint(spanCtx.SpanID(), 10)),
	)
}
