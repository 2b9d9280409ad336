package repository

import "errors"

var (
	// ErrNotFound is returned when no cache entry or queued log matches.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for a missing owner or a log that cannot be stored.
	ErrInvalidInput = errors.New("invalid input")
)
