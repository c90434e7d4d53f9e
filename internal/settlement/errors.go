package settlement

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage"
)

type (
	// Error is returned by the synchronous paths. Kind is meant to be shown to the caller as is.
	Error struct {
		Kind    ErrorKind
		Message string
		cause   error
	}

	ErrorKind string
)

const (
	KindInvalidArgument ErrorKind = "invalid-argument"
	KindNotFound        ErrorKind = "not-found"
	KindAlreadyExists   ErrorKind = "already-exists"
	KindInternal        ErrorKind = "internal"
)

var _ xerrors.Wrapper = (*Error)(nil)

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Message)
	}
	return fmt.Sprintf("%v: %v: %v", e.Kind, e.Message, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) ErrorKind {
	var target *Error
	if xerrors.As(err, &target) {
		return target.Kind
	}
	return KindInternal
}

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func invalidArgument(format string, args ...any) *Error {
	return newError(KindInvalidArgument, nil, format, args...)
}

func notFound(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func alreadyExists(format string, args ...any) *Error {
	return newError(KindAlreadyExists, nil, format, args...)
}

func internalError(cause error, format string, args ...any) *Error {
	return newError(KindInternal, cause, format, args...)
}

// storageError maps the storage sentinels to a kind.
func storageError(err error, format string, args ...any) *Error {
	switch {
	case xerrors.Is(err, storage.ErrItemNotFound):
		return newError(KindNotFound, err, format, args...)
	case xerrors.Is(err, storage.ErrAlreadyExists):
		return newError(KindAlreadyExists, err, format, args...)
	case xerrors.Is(err, storage.ErrInvalidArgument):
		return newError(KindInvalidArgument, err, format, args...)
	default:
		return internalError(err, format, args...)
	}
}
