package matching

import "github.com/Goutamchandnani/UniHustle/internal/domain/schedule"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights replaces the default weights. They are validated by NewEngine.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithScheduleAnalyzer sets the analyzer used for the schedule sub-score.
func WithScheduleAnalyzer(a *schedule.Analyzer) Option {
	return func(e *Engine) {
		if a != nil {
			e.analyzer = a
		}
	}
}
