package settlement

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewImporter),
	fx.Provide(NewWalletResolver),
	fx.Provide(NewAggregator),
	fx.Provide(NewRewardTracker),
	fx.Provide(NewMetadataGenerator),
	fx.Provide(NewMintTracker),
	fx.Provide(NewMinter),
	fx.Provide(NewCleaner),
)
