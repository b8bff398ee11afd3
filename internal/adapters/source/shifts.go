package source

import (
	"strings"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

// ExtractShifts guesses shift times from a posting description. Only the
// weekend pattern is recognised: a mention of "weekend" yields Saturday and
// Sunday 10:00-16:00. Anything else yields no shifts, which the schedule
// analyzer treats as flexible.
func ExtractShifts(text string) []model.TimeInterval {
	if !strings.Contains(strings.ToLower(text), "weekend") {
		return nil
	}
	return []model.TimeInterval{
		model.NewTimeInterval("Saturday", "10:00", "16:00"),
		model.NewTimeInterval("Sunday", "10:00", "16:00"),
	}
}
