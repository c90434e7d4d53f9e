package internal

import (
	"context"

	"github.com/valyala/fasttemplate"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/fraction"
)

//go:generate mockgen -source=blobstorage.go -destination=../mocks/mocks.go -package=mocks

type (
	BlobStorage interface {
		// Upload writes the object, makes it publicly readable and returns its public url.
		Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
		Download(ctx context.Context, key string) ([]byte, error)
	}

	// Templates renders object keys and public urls from the configured templates.
	Templates struct {
		bucket    string
		objectKey *fasttemplate.Template
		publicURL *fasttemplate.Template
	}
)

const (
	startTag = "{"
	endTag   = "}"

	tagFractionID = "fraction_id"
	tagBucket     = "bucket"
	tagObjectKey  = "object_key"
)

func NewTemplates(bucket string, objectKeyTemplate string, publicURLTemplate string) (*Templates, error) {
	objectKey, err := fasttemplate.NewTemplate(objectKeyTemplate, startTag, endTag)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse object key template %q: %w", objectKeyTemplate, err)
	}

	publicURL, err := fasttemplate.NewTemplate(publicURLTemplate, startTag, endTag)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse public url template %q: %w", publicURLTemplate, err)
	}

	return &Templates{
		bucket:    bucket,
		objectKey: objectKey,
		publicURL: publicURL,
	}, nil
}

// ObjectKey returns the key of the metadata object of a fraction, e.g. json/83.json.
func (t *Templates) ObjectKey(id fraction.ID) string {
	return t.objectKey.ExecuteString(map[string]any{
		tagFractionID: id.String(),
	})
}

func (t *Templates) PublicURL(key string) string {
	return t.publicURL.ExecuteString(map[string]any{
		tagBucket:    t.bucket,
		tagObjectKey: key,
	})
}
