package matching

import (
	"fmt"
	"math"
)

const weightSumTolerance = 1e-9

// Weights sets how much each sub-score contributes to the total.
type Weights struct {
	Location    float64 `json:"location"`
	Schedule    float64 `json:"schedule"`
	Skills      float64 `json:"skills"`
	Preferences float64 `json:"preferences"`
	Salary      float64 `json:"salary"`
}

// DefaultWeights favours location, then schedule.
func DefaultWeights() Weights {
	return Weights{
		Location:    0.45,
		Schedule:    0.25,
		Skills:      0.15,
		Preferences: 0.10,
		Salary:      0.05,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Location + w.Schedule + w.Skills + w.Preferences + w.Salary
}

// String formats the weights for logs.
func (w Weights) String() string {
	return fmt.Sprintf("location=%.2f schedule=%.2f skills=%.2f preferences=%.2f salary=%.2f",
		w.Location, w.Schedule, w.Skills, w.Preferences, w.Salary)
}

// Validate checks that no weight is negative and that they sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"location":    w.Location,
		"schedule":    w.Schedule,
		"skills":      w.Skills,
		"preferences": w.Preferences,
		"salary":      w.Salary,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s weight is %v", ErrInvalidWeights, name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}
