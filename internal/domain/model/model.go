// Package model contains domain models passed between layers.
//
// All values are transient and constructed per call; nothing here carries
// behavior beyond construction and parsing.
package model

import (
	"strings"
	"time"
)

// TimeInterval is one weekly occurrence of a time range on a given day.
// Start is expected to be before End; overnight ranges are not supported.
type TimeInterval struct {
	Day   string `json:"day"`
	Start Clock  `json:"start"`
	End   Clock  `json:"end"`
}

// NewTimeInterval parses start and end with ParseClock.
func NewTimeInterval(day, start, end string) TimeInterval {
	return TimeInterval{Day: day, Start: ParseClock(start), End: ParseClock(end)}
}

// SameDay reports whether both intervals fall on the same weekday, ignoring case.
func (t TimeInterval) SameDay(other TimeInterval) bool {
	return strings.EqualFold(strings.TrimSpace(t.Day), strings.TrimSpace(other.Day))
}

// GeoPoint is a latitude/longitude pair. A nil *GeoPoint means unknown.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// CityPreference captures where a student wants to work.
type CityPreference struct {
	PrimaryCity       string   `json:"primary_city,omitempty"`
	PreferredCities   []string `json:"preferred_cities,omitempty"`
	OpenToOtherCities bool     `json:"open_to_other_cities"`
}

// HasContext reports whether the preference names at least one city.
func (p *CityPreference) HasContext() bool {
	if p == nil {
		return false
	}
	if strings.TrimSpace(p.PrimaryCity) != "" {
		return true
	}
	for _, c := range p.PreferredCities {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// ParseCityList splits a comma separated list of cities, dropping blanks.
func ParseCityList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Preferences holds role preferences.
type Preferences struct {
	Roles []string `json:"roles,omitempty"`
}

// StudentProfile is the read-only student input to the engine.
type StudentProfile struct {
	ID          string          `json:"id,omitempty"`
	Location    *GeoPoint       `json:"location,omitempty"`
	Timetable   []TimeInterval  `json:"timetable,omitempty"`
	MinSalary   *float64        `json:"min_salary,omitempty"`
	Skills      []string        `json:"skills,omitempty"`
	Preferences *Preferences    `json:"preferences,omitempty"`
	Cities      *CityPreference `json:"cities,omitempty"`
}

// DesiredRoles returns the non-blank desired roles.
func (s *StudentProfile) DesiredRoles() []string {
	if s == nil || s.Preferences == nil {
		return nil
	}
	roles := make([]string, 0, len(s.Preferences.Roles))
	for _, r := range s.Preferences.Roles {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// Salary types understood by the engine.
const (
	SalaryHourly = "hourly"
	SalaryYearly = "yearly"
)

// JobLocation is where a job takes place.
type JobLocation struct {
	Point *GeoPoint `json:"point,omitempty"`
	Name  string    `json:"name,omitempty"`
}

// JobData is the read-only job input to the engine. Source metadata fields
// are carried for callers and ignored by scoring.
type JobData struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Company     string         `json:"company,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    *JobLocation   `json:"location,omitempty"`
	IsRemote    bool           `json:"is_remote,omitempty"`
	Shifts      []TimeInterval `json:"shifts,omitempty"`
	SalaryMin   *float64       `json:"salary_min,omitempty"`
	SalaryMax   *float64       `json:"salary_max,omitempty"`
	SalaryType  string         `json:"salary_type,omitempty"`
	Skills      []string       `json:"skills,omitempty"`

	Source      string    `json:"source,omitempty"`
	ExternalID  string    `json:"external_id,omitempty"`
	ExternalURL string    `json:"external_url,omitempty"`
	PostedAt    time.Time `json:"posted_at,omitempty"`
}

// LocationName returns the location label, or "" when unknown.
func (j *JobData) LocationName() string {
	if j == nil || j.Location == nil {
		return ""
	}
	return j.Location.Name
}

// LocationPoint returns the job coordinates, or nil when unknown.
func (j *JobData) LocationPoint() *GeoPoint {
	if j == nil || j.Location == nil {
		return nil
	}
	return j.Location.Point
}

// Float64 returns a pointer to v, for optional numeric fields.
func Float64(v float64) *float64 { return &v }
