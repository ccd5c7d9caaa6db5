package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("data not found")
	ErrUnreadable       = errors.New("data unreadable")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")
)
