package gcs

import (
	"bytes"
	"context"
	"crypto/md5" // #nosec G501
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage/blobstorage/internal"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
)

type (
	BlobStorageParams struct {
		fx.In
		fxparams.Params
		Lifecycle fx.Lifecycle
		Templates *internal.Templates
	}

	blobStorageImpl struct {
		logger             *zap.Logger
		bucket             string
		client             *storage.Client
		templates          *internal.Templates
		blobStorageMetrics *blobStorageMetrics
		instrumentUpload   instrument.InstrumentWithResult[string]
		instrumentDownload instrument.InstrumentWithResult[[]byte]
	}

	blobStorageMetrics struct {
		blobDownloadedSize tally.Timer
		blobUploadedSize   tally.Timer
	}
)

const (
	blobUploaderScopeName   = "uploader"
	blobDownloaderScopeName = "downloader"
	blobSizeMetricName      = "blob_size"
)

var _ internal.BlobStorage = (*blobStorageImpl)(nil)

func New(params BlobStorageParams) (internal.BlobStorage, error) {
	metrics := params.Scoped("blob_storage").Tagged(map[string]string{
		"storage_type": "gcs",
	})
	if params.Config.GCP == nil {
		return nil, xerrors.Errorf("GCP project id not configured")
	}
	if len(params.Config.GCP.Bucket) == 0 {
		return nil, xerrors.Errorf("GCP bucket not configure for blob storage")
	}
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to create GCS client: %w", err)
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	blobStorageMetrics := &blobStorageMetrics{
		blobDownloadedSize: metrics.SubScope(blobDownloaderScopeName).Timer(blobSizeMetricName),
		blobUploadedSize:   metrics.SubScope(blobUploaderScopeName).Timer(blobSizeMetricName),
	}
	return &blobStorageImpl{
		logger:             log.WithPackage(params.Logger),
		bucket:             params.Config.GCP.Bucket,
		client:             client,
		templates:          params.Templates,
		blobStorageMetrics: blobStorageMetrics,
		instrumentUpload:   instrument.NewWithResult[string](metrics, "upload"),
		instrumentDownload: instrument.NewWithResult[[]byte](metrics, "download"),
	}, nil
}

func (s *blobStorageImpl) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	return s.instrumentUpload.Instrument(ctx, func(ctx context.Context) (string, error) {
		defer s.logDuration("upload", time.Now())

		// #nosec G401
		h := md5.New()
		size, err := h.Write(data)
		if err != nil {
			return "", xerrors.Errorf("failed to compute checksum: %w", err)
		}

		checksum := h.Sum(nil)

		object := s.client.Bucket(s.bucket).Object(key)

		// Canceling the writer context aborts a partial upload.
		writeCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		w := object.NewWriter(writeCtx)
		w.ContentType = contentType
		if _, err := w.Write(data); err != nil {
			return "", xerrors.Errorf("failed to upload object %v: %w", key, err)
		}
		if err := w.Close(); err != nil {
			return "", xerrors.Errorf("failed to upload object %v: %w", key, err)
		}

		attrs := w.Attrs()
		if !bytes.Equal(checksum, attrs.MD5) {
			return "", xerrors.Errorf("uploaded object md5 checksum %x is different from expected %x", attrs.MD5, checksum)
		}

		if err := object.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
			return "", xerrors.Errorf("failed to make object %v public: %w", key, err)
		}

		// a workaround to use timer
		s.blobStorageMetrics.blobUploadedSize.Record(time.Duration(size) * time.Millisecond)

		return s.templates.PublicURL(key), nil
	})
}

func (s *blobStorageImpl) Download(ctx context.Context, key string) ([]byte, error) {
	return s.instrumentDownload.Instrument(ctx, func(ctx context.Context) ([]byte, error) {
		defer s.logDuration("download", time.Now())

		object := s.client.Bucket(s.bucket).Object(key)
		reader, err := object.NewReader(ctx)
		if err != nil {
			return nil, xerrors.Errorf("failed to download from gcs (bucket=%s, key=%s): %w", s.bucket, key, err)
		}
		defer reader.Close()

		buf, err := io.ReadAll(reader)
		if err != nil {
			return nil, xerrors.Errorf("failed to download from gcs (bucket=%s, key=%s): %w", s.bucket, key, err)
		}

		// a workaround to use timer
		s.blobStorageMetrics.blobDownloadedSize.Record(time.Duration(len(buf)) * time.Millisecond)

		return buf, nil
	})
}

func (s *blobStorageImpl) logDuration(method string, start time.Time) {
	s.logger.Debug(
		"blob_storage",
		zap.String("storage_type", "gcs"),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
}
