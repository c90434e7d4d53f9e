package errors

import "errors"

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrAlreadyExists   = errors.New("item already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)
