package domain

import "errors"

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidParameter signals a malformed request parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidAddress signals an address filter that is not valid JSON.
	ErrInvalidAddress = errors.New("invalid address filter")
	// ErrNotAuthenticated signals an operation that needs a known viewer.
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")
	// ErrPermissionDenied signals an operation disabled by configuration.
	ErrPermissionDenied = errors.New("permission denied")
)
