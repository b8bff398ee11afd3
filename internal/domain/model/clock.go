package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Accepted textual layouts, tried in order.
var clockLayouts = []string{"15:04:05", "15:04"}

// Clock is a time of day with second precision, stored as seconds since midnight.
type Clock int

// Midnight is the zero Clock and the fallback for unparsable input.
const Midnight Clock = 0

// NewClock builds a Clock from its components. Out of range components are
// normalized into a single day.
func NewClock(hour, minute, second int) Clock {
	total := hour*secondsPerHour + minute*secondsPerMinute + second
	total %= secondsPerDay
	if total < 0 {
		total += secondsPerDay
	}
	return Clock(total)
}

// ClockFromTime extracts the wall clock of t.
func ClockFromTime(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock parses "HH:MM:SS" or "HH:MM". Missing or malformed input yields
// Midnight instead of an error.
func ParseClock(s string) Clock {
	s = strings.TrimSpace(s)
	if s == "" {
		return Midnight
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockFromTime(t)
		}
	}
	return Midnight
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / secondsPerHour }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % secondsPerHour / secondsPerMinute }

// Second returns the second component.
func (c Clock) Second() int { return int(c) % secondsPerMinute }

// Sub returns the duration from other to c.
func (c Clock) Sub(other Clock) time.Duration {
	return time.Duration(int(c)-int(other)) * time.Second
}

// String formats as HH:MM, or HH:MM:SS when seconds are set.
func (c Clock) String() string {
	if c.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalJSON encodes the clock as its string form.
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a time string; anything unparsable decodes to Midnight.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = Midnight
		return nil //nolint:nilerr // malformed times degrade to midnight
	}
	*c = ParseClock(s)
	return nil
}
