package domain

import "errors"

var (
	// ErrInvalidArgument signals malformed user input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStorageUnavailable signals that no storage backend could be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
