package chain

import (
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/utils/retry"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil", err: nil},
		{name: "rateLimited", err: rpc.HTTPError{StatusCode: http.StatusTooManyRequests}, retryable: true},
		{name: "serverError", err: rpc.HTTPError{StatusCode: http.StatusBadGateway}, retryable: true},
		{name: "badRequest", err: rpc.HTTPError{StatusCode: http.StatusBadRequest}},
		{name: "eof", err: xerrors.Errorf("read: %w", io.EOF), retryable: true},
		{name: "netError", err: &net.OpError{Op: "dial", Err: xerrors.New("connection refused")}, retryable: true},
		{name: "reverted", err: xerrors.New("execution reverted")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := testutil.Require(t)

			err := classify(test.err)
			require.Equal(test.err == nil, err == nil)
			require.Equal(test.retryable, retry.IsRetryable(err))
		})
	}
}
