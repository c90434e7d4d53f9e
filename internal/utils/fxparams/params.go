package fxparams

import (
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/config"
)

// Params bundles the dependencies shared by every component.
// Embed it in a parameter struct next to fx.In:
//
//	ImporterParams struct {
//	  fx.In
//	  fxparams.Params
//	  Warehouse warehouse.Warehouse
//	}
type Params struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics tally.Scope
}

var Module = fx.Provide(New)

func New(cfg *config.Config, logger *zap.Logger, metrics tally.Scope) Params {
	return Params{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}
}

// Scoped returns the metrics scope of a component, e.g. "importer".
func (p Params) Scoped(component string) tally.Scope {
	return p.Metrics.SubScope(component)
}
