package mediavault

import "errors"

var (
	// ErrNotFound is returned when no object exists for the requested name
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when creating an object whose name is already taken
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized is returned when the claimed owner does not match the stored owner
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal is returned when a storage-layer failure cannot be classified further
	ErrInternal = errors.New("internal error")
)
