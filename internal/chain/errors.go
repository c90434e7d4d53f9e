package chain

import (
	"io"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/utils/retry"
)

var (
	ErrTransactionNotFound = xerrors.New("transaction not found")
	ErrTransactionReverted = xerrors.New("transaction reverted")
	ErrNoOperator          = xerrors.New("no operator wallet configured")
)

// classify marks the transport failures of the RPC node so that the read instruments retry them.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var httpErr rpc.HTTPError
	if xerrors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return retry.RateLimit(err)
		case httpErr.StatusCode >= http.StatusInternalServerError:
			return retry.Retryable(err)
		default:
			return err
		}
	}

	var netErr net.Error
	if xerrors.As(err, &netErr) || xerrors.Is(err, io.EOF) || xerrors.Is(err, io.ErrUnexpectedEOF) {
		return retry.Retryable(err)
	}

	return err
}

func isNotFound(err error) bool {
	return xerrors.Is(err, ethereum.NotFound)
}

func filterNotFound(err error) bool {
	return xerrors.Is(err, ErrTransactionNotFound)
}
