package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrDuplicateSource = errors.New("source already registered")
	ErrUnknownSource   = errors.New("unknown source")
	ErrBadStatus       = errors.New("unexpected response status")
	ErrInvalidJob      = errors.New("invalid raw job")
)
