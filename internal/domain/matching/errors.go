package matching

import "errors"

var (
	// ErrInvalidWeights is returned when weights are negative or do not sum to 1.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrMissingStudent is returned when no student profile is given.
	ErrMissingStudent = errors.New("student profile is required")
	// ErrMissingJob is returned when no job is given.
	ErrMissingJob = errors.New("job data is required")
)
