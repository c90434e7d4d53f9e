package tally

import (
	"context"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/utils/consts"
)

type ScopeParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Reporter  tally.StatsReporter
}

// NewRootScope prefixes every metric with the service name and tags it with the env and namespace.
// The scope is closed, and its last values reported, when the app stops.
func NewRootScope(params ScopeParams) tally.Scope {
	// The reporter owns the flush interval.
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   consts.ServiceName,
		Tags:     params.Config.GetCommonTags(),
		Reporter: params.Reporter,
	}, 0)
	params.Lifecycle.Append(fx.StopHook(func(context.Context) error {
		return closer.Close()
	}))
	return scope
}
