package domain

import "errors"

// Sentinel errors shared by the service layer. The HTTP layer maps them
// to status codes, nothing else inspects error text.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("already exists")
	ErrInvalid        = errors.New("invalid input")
	ErrBadCredentials = errors.New("bad credentials")
)
