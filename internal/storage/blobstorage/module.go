package blobstorage

import (
	"go.uber.org/fx"

	"github.com/sybel-io/settlement/internal/storage/blobstorage/gcs"
)

var Module = fx.Options(
	fx.Provide(NewTemplates),
	gcs.Module,
)
