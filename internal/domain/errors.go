package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRange       = errors.New("invalid range")
	ErrEmptyDescription   = errors.New("empty description")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrFetchInFlight      = errors.New("fetch already in flight")
	ErrPermissionDenied   = errors.New("notification permission denied")
	ErrChannelUnavailable = errors.New("delivery channel unavailable")
)
