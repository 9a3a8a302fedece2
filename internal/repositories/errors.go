package repositories

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on a unique-constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)
