package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrValidation      = errors.New("validation failed")
	ErrUnavailable     = errors.New("not enough available copies")
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrForbidden       = errors.New("forbidden")
)
