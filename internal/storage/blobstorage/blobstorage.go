package blobstorage

import (
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/storage/blobstorage/internal"
)

type (
	BlobStorage = internal.BlobStorage
	Templates   = internal.Templates
)

func NewTemplates(cfg *config.Config) (*Templates, error) {
	if cfg.GCP == nil {
		return nil, xerrors.Errorf("GCP bucket not configured")
	}

	templates, err := internal.NewTemplates(cfg.GCP.Bucket, cfg.Metadata.ObjectKeyTemplate, cfg.Metadata.PublicURLTemplate)
	if err != nil {
		return nil, xerrors.Errorf("failed to create metadata templates: %w", err)
	}

	return templates, nil
}

