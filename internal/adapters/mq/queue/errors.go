package queue

import "errors"

// ErrInvalidTask is returned when a task cannot be keyed by its pair.
var ErrInvalidTask = errors.New("invalid task")
