package domain

import "errors"

// Engine error kinds. The HTTP layer maps these to status codes, the engine
// itself only distinguishes them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidRange    = errors.New("end time must be after start time")
	ErrAlreadyTerminal = errors.New("booking is already in a terminal state")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidAmount   = errors.New("amount must be positive")
)
