package tracer

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestNewTracer_Local(t *testing.T) {
	require := testutil.Require(t)

	cfg, err := config.New(config.WithEnvironment(config.EnvLocal))
	require.NoError(err)

	var tr opentracing.Tracer
	app := fxtest.New(
		t,
		Module,
		config.Module,
		config.WithCustomConfig(cfg),
		fx.Populate(&tr),
	)
	app.RequireStart()
	defer app.RequireStop()
	require.Equal(opentracing.NoopTracer{}, tr)
}
