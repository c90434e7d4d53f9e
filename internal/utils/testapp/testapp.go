package testapp

import (
	"testing"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/services"
	"github.com/sybel-io/settlement/internal/tracer"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/testutil"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	// TestApp is a started fx app holding the ambient dependencies of the pipeline.
	// Components under test and their mocks are added through the options of New.
	TestApp interface {
		Close()
		Logger() *zap.Logger
		Config() *config.Config
	}

	TestFn func(t *testing.T, cfg *config.Config)

	testApp struct {
		app     *fxtest.App
		manager services.SystemManager
		config  *config.Config
	}
)

// EnvsToTest are the environments shipped in config/settlement.
var EnvsToTest = []config.Env{
	config.EnvLocal,
	config.EnvDevelopment,
	config.EnvProduction,
}

func New(t testing.TB, opts ...fx.Option) TestApp {
	a := &testApp{manager: services.NewMockSystemManager()}
	a.app = fxtest.New(t, append(opts, a.ambient(t), fx.Populate(&a.config))...)
	a.app.RequireStart()
	return a
}

func (a *testApp) ambient(t testing.TB) fx.Option {
	return fx.Options(
		config.Module,
		fxparams.Module,
		tracer.Module,
		fx.NopLogger,
		fx.Supply(a.manager.Logger()),
		fx.Provide(
			func() testing.TB { return t },
			func() tally.Scope { return tally.NoopScope },
			func() services.SystemManager { return a.manager },
		),
	)
}

// WithConfig replaces the config loaded for the current environment.
func WithConfig(cfg *config.Config) fx.Option {
	return config.WithCustomConfig(cfg)
}

// WithTimeSource replaces the wall clock, usually with a timesource.EventTimeSource.
func WithTimeSource(timeSource timesource.TimeSource) fx.Option {
	return fx.Provide(func() timesource.TimeSource { return timeSource })
}

// WithIntegration skips the test unless $TEST_TYPE is integration.
func WithIntegration() fx.Option {
	return fx.Invoke(func(tb testing.TB, cfg *config.Config, logger *zap.Logger) {
		if cfg.IsIntegrationTest() {
			return
		}
		logger.Warn("skipping integration test", zap.String("test", tb.Name()))
		tb.Skip()
	})
}

func (a *testApp) Close() {
	a.app.RequireStop()
}

func (a *testApp) Logger() *zap.Logger {
	return a.manager.Logger()
}

func (a *testApp) Config() *config.Config {
	return a.config
}

// TestAllEnvs runs fn once per environment with the config of that environment.
func TestAllEnvs(t *testing.T, fn TestFn) {
	for _, env := range EnvsToTest {
		env := env
		t.Run(string(env), func(t *testing.T) {
			require := testutil.Require(t)

			cfg, err := config.New(config.WithEnvironment(env))
			require.NoError(err)
			require.Equal(env, cfg.Env())

			fn(t, cfg)
		})
	}
}
