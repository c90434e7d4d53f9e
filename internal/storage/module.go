package storage

import (
	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/storage/blobstorage"
	"github.com/sybel-io/settlement/internal/storage/docstore"
	"github.com/sybel-io/settlement/internal/storage/internal/errors"
)

type (
	BlobStorage            = blobstorage.BlobStorage
	WatermarkStorage       = docstore.WatermarkStorage
	ListenStorage          = docstore.ListenStorage
	PodcastStorage         = docstore.PodcastStorage
	WalletStorage          = docstore.WalletStorage
	ConsumedContentStorage = docstore.ConsumedContentStorage
	SettlementStorage      = docstore.SettlementStorage
)

var Module = fx.Options(
	blobstorage.Module,
	docstore.Module,
)

var (
	ErrItemNotFound    = errors.ErrItemNotFound
	ErrAlreadyExists   = errors.ErrAlreadyExists
	ErrInvalidArgument = errors.ErrInvalidArgument
)
