// Package location classifies a job's location relative to a student's city
// preferences, and scores raw coordinates when no preference is known.
package location

import (
	"fmt"
	"strings"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

// Tier scores.
const (
	scoreTopTier      = 100
	scorePreferred    = 95
	scoreNearbyOpen   = 70
	scoreNearbyClosed = 40
	scoreOtherRegion  = 30
	scoreTooFar       = 0

	tierRemote       = 1
	tierPrimary      = 1
	tierPreferred    = 2
	tierNearbyOpen   = 3
	tierNearbyClosed = 4
	tierOtherRegion  = 5
	tierTooFar       = 6
)

// Badges.
const (
	BadgeRemote    = "REMOTE"
	BadgeYourCity  = "YOUR CITY"
	BadgePreferred = "PREFERRED"
	BadgeNearby    = "NEARBY"
	BadgeOther     = "OTHER"
	BadgeTooFar    = "TOO FAR"
)

// Score is the location sub-score with its classification.
type Score struct {
	Score float64 `json:"score"`
	model.LocationMetadata
}

// CityMatcher classifies job locations for one student. It is immutable once
// built and safe for concurrent use.
type CityMatcher struct {
	primaryCity     string
	preferredCities []string
	openToOther     bool
}

// NewCityMatcher builds a matcher from a student's preferences. When no
// primary city is given the first preferred city takes its place, and the
// primary city is always part of the preferred set.
func NewCityMatcher(pref model.CityPreference) *CityMatcher {
	preferred := make([]string, 0, len(pref.PreferredCities)+1)
	for _, c := range pref.PreferredCities {
		if c = strings.TrimSpace(c); c != "" {
			preferred = append(preferred, c)
		}
	}

	primary := strings.TrimSpace(pref.PrimaryCity)
	if primary == "" && len(preferred) > 0 {
		primary = preferred[0]
	}
	if primary != "" && !contains(preferred, primary) {
		preferred = append(preferred, primary)
	}

	return &CityMatcher{
		primaryCity:     primary,
		preferredCities: preferred,
		openToOther:     pref.OpenToOtherCities,
	}
}

// PrimaryCity returns the effective primary city.
func (m *CityMatcher) PrimaryCity() string { return m.primaryCity }

// PreferredCities returns a copy of the effective preferred set.
func (m *CityMatcher) PreferredCities() []string {
	return append([]string(nil), m.preferredCities...)
}

// CalculateLocationScore assigns the job to a priority tier.
func (m *CityMatcher) CalculateLocationScore(job *model.JobData) Score {
	if job != nil && job.IsRemote {
		return newScore(scoreTopTier, tierRemote, BadgeRemote, "purple", "highest", "Work from anywhere", false, false)
	}

	city := ExtractCity(job.LocationName())

	if matchesAny(city, m.preferredCities) {
		if matchesAny(city, []string{m.primaryCity}) {
			return newScore(scoreTopTier, tierPrimary, BadgeYourCity, "green", "highest",
				fmt.Sprintf("In %s (your city)", city), false, false)
		}
		return newScore(scorePreferred, tierPreferred, BadgePreferred, "blue", "high",
			fmt.Sprintf("In %s (preferred location)", city), false, false)
	}

	if region, ok := LookupRegion(m.primaryCity); ok && matchesAny(city, region.Nearby) {
		if m.openToOther {
			return newScore(scoreNearbyOpen, tierNearbyOpen, BadgeNearby, "yellow", "medium",
				fmt.Sprintf("%s (near %s)", city, m.primaryCity), false, false)
		}
		return newScore(scoreNearbyClosed, tierNearbyClosed, BadgeNearby, "gray", "low",
			fmt.Sprintf("%s (outside preferred area)", city), true, false)
	}

	if m.openToOther {
		return newScore(scoreOtherRegion, tierOtherRegion, BadgeOther, "gray", "very-low",
			fmt.Sprintf("%s (different region)", city), true, false)
	}
	return newScore(scoreTooFar, tierTooFar, BadgeTooFar, "gray", "excluded",
		fmt.Sprintf("%s (too far)", city), true, true)
}

// ExtractCity returns the text before the first comma of a location label.
func ExtractCity(label string) string {
	city, _, _ := strings.Cut(label, ",")
	return strings.TrimSpace(city)
}

// matchesAny reports whether any non-empty target is contained in city,
// ignoring case, so "London" matches "Central London".
func matchesAny(city string, targets []string) bool {
	if city == "" {
		return false
	}
	lower := strings.ToLower(city)
	for _, t := range targets {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newScore(score float64, tier int, badge, color, priority, reason string, hidden, excluded bool) Score {
	return Score{
		Score: score,
		LocationMetadata: model.LocationMetadata{
			Tier:            tier,
			Badge:           badge,
			BadgeColor:      color,
			Priority:        priority,
			Reason:          reason,
			HiddenByDefault: hidden,
			Excluded:        excluded,
		},
	}
}
