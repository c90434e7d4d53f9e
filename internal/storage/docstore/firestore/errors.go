package firestore

import (
	"github.com/gogo/status"
	"golang.org/x/xerrors"
	"google.golang.org/grpc/codes"

	"github.com/sybel-io/settlement/internal/storage/internal/errors"
	"github.com/sybel-io/settlement/internal/utils/retry"
)

// classify marks the transient Firestore errors so that the read instruments retry them.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted:
		return retry.Retryable(err)
	case codes.ResourceExhausted:
		return retry.RateLimit(err)
	default:
		return err
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// filterNotFound keeps expected misses out of the error counters.
func filterNotFound(err error) bool {
	return xerrors.Is(err, errors.ErrItemNotFound)
}
