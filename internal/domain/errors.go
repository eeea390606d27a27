package domain

import "errors"

// Sentinel errors shared across services and repositories. Repositories map
// driver-level failures to these; controllers map them to HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
