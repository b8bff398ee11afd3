package schedule

import "time"

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithCommuteTime sets the travel time needed between a commitment and a shift.
func WithCommuteTime(d time.Duration) Option {
	return func(a *Analyzer) {
		if d >= 0 {
			a.commuteTime = d
		}
	}
}

// WithMinBuffer sets the personal margin required on top of the commute.
func WithMinBuffer(d time.Duration) Option {
	return func(a *Analyzer) {
		if d >= 0 {
			a.minBuffer = d
		}
	}
}
