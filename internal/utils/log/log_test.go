package log

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestWithPackage(t *testing.T) {
	require := testutil.Require(t)

	core, logs := observer.New(zap.InfoLevel)
	WithPackage(zap.New(core)).Info("hello")

	entries := logs.All()
	require.Len(entries, 1)
	require.Equal("log", entries[0].ContextMap()["package"])
}

func TestWithSpan_NoSpan(t *testing.T) {
	require := testutil.Require(t)

	logger := zap.NewNop()
	require.Same(logger, WithSpan(context.Background(), logger))
}

func TestLevelFromEnv(t *testing.T) {
	require := testutil.Require(t)

	t.Setenv(EnvVarLogLevel, "debug")
	require.Equal(zapcore.DebugLevel, levelFromEnv(zapcore.InfoLevel))

	t.Setenv(EnvVarLogLevel, "verbose")
	require.Equal(zapcore.InfoLevel, levelFromEnv(zapcore.InfoLevel))
}
