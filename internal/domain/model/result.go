package model

// LocationMetadata explains how a job location was classified.
type LocationMetadata struct {
	Tier            int    `json:"tier"`
	Badge           string `json:"badge"`
	BadgeColor      string `json:"badge_color"`
	Priority        string `json:"priority"`
	Reason          string `json:"reason"`
	HiddenByDefault bool   `json:"hidden_by_default,omitempty"`
	Excluded        bool   `json:"excluded,omitempty"`
}

// MatchBreakdown keeps each raw sub-score in [0,100].
// LocationMetadata is nil when location was scored by distance.
type MatchBreakdown struct {
	Schedule         float64           `json:"schedule"`
	Location         float64           `json:"location"`
	Skills           float64           `json:"skills"`
	Salary           float64           `json:"salary"`
	Preferences      float64           `json:"preferences"`
	LocationMetadata *LocationMetadata `json:"location_metadata,omitempty"`
}

// Hidden reports whether a feed should hide this match by default.
func (b MatchBreakdown) Hidden() bool {
	return b.LocationMetadata != nil && b.LocationMetadata.HiddenByDefault
}

// Excluded reports whether the location tier excludes the match entirely.
func (b MatchBreakdown) Excluded() bool {
	return b.LocationMetadata != nil && b.LocationMetadata.Excluded
}

// MatchResult is the engine output for one student-job pair.
type MatchResult struct {
	TotalScore       float64        `json:"total_score"`
	Breakdown        MatchBreakdown `json:"breakdown"`
	ScheduleStatus   string         `json:"schedule_status"`
	ScheduleAnalysis []string       `json:"schedule_analysis"`
}
