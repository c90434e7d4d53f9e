package docstore

import (
	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/storage/docstore/firestore"
	"github.com/sybel-io/settlement/internal/storage/docstore/internal"
)

type (
	WatermarkStorage       = internal.WatermarkStorage
	ListenStorage          = internal.ListenStorage
	PodcastStorage         = internal.PodcastStorage
	WalletStorage          = internal.WalletStorage
	ConsumedContentStorage = internal.ConsumedContentStorage
	SettlementStorage      = internal.SettlementStorage
)

const (
	MaxBatchWriteSize = internal.MaxBatchWriteSize
	MaxInFilterSize   = internal.MaxInFilterSize
)

var Module = fx.Options(
	firestore.Module,
)
