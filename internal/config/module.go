package config

import (
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In
		CustomConfig *customConfig `optional:"true"`
	}

	customConfig struct {
		config *Config
	}
)

var Module = fx.Options(
	fx.Provide(NewFacade),
)

// NewFacade returns the injected custom config if any, or loads the config of the current environment.
func NewFacade(params Params) (*Config, error) {
	if params.CustomConfig != nil {
		return params.CustomConfig.config, nil
	}

	return New()
}

// WithCustomConfig injects a custom config to replace the default one.
func WithCustomConfig(config *Config) fx.Option {
	return fx.Provide(func() *customConfig {
		return &customConfig{
			config: config,
		}
	})
}
