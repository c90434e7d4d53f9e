package tally

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewReporter),
	fx.Provide(NewRootScope),
)
