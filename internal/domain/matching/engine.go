// Package matching combines the schedule, location, skills, salary and
// preference sub-scores into a single compatibility score for a
// student-job pair.
package matching

import (
	"math"

	"github.com/Goutamchandnani/UniHustle/internal/domain/location"
	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/internal/domain/schedule"
)

// dealbreakerFactor scales the total when a hard filter scores zero.
const dealbreakerFactor = 0.1

// Dealbreaker names.
const (
	DealbreakerPreferences = "preferences"
	DealbreakerLocation    = "location"
)

// Engine scores student-job pairs. It holds only immutable configuration and
// is safe for concurrent use.
type Engine struct {
	weights  Weights
	analyzer *schedule.Analyzer
}

// NewEngine creates an engine with default weights and a default schedule
// analyzer unless overridden.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		weights:  DefaultWeights(),
		analyzer: schedule.NewAnalyzer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Weights returns the engine weights.
func (e *Engine) Weights() Weights { return e.weights }

// ScheduleAnalyzer returns the analyzer used for the schedule sub-score.
func (e *Engine) ScheduleAnalyzer() *schedule.Analyzer { return e.analyzer }

// CalculateMatch scores one pair. Missing optional fields degrade to neutral
// sub-scores; only a nil student or job is an error.
func (e *Engine) CalculateMatch(student *model.StudentProfile, job *model.JobData) (model.MatchResult, error) {
	if student == nil {
		return model.MatchResult{}, ErrMissingStudent
	}
	if job == nil {
		return model.MatchResult{}, ErrMissingJob
	}

	fit := e.analyzer.AnalyzeFit(student.Timetable, job.Shifts)
	locScore, locMeta := LocationScore(student, job)
	roles := student.DesiredRoles()

	b := model.MatchBreakdown{
		Schedule:         float64(fit.Score),
		Location:         locScore,
		Skills:           SkillsScore(student.Skills, job.Skills, job.Description),
		Salary:           SalaryScore(student.MinSalary, job.SalaryMin, job.SalaryMax, job.SalaryType),
		Preferences:      PreferenceScore(roles, job.Title),
		LocationMetadata: locMeta,
	}

	total := b.Schedule*e.weights.Schedule +
		b.Location*e.weights.Location +
		b.Skills*e.weights.Skills +
		b.Salary*e.weights.Salary +
		b.Preferences*e.weights.Preferences

	for range Dealbreakers(roles, b) {
		total *= dealbreakerFactor
	}

	return model.MatchResult{
		TotalScore:       round1(total),
		Breakdown:        b,
		ScheduleStatus:   fit.Status,
		ScheduleAnalysis: fit.Analysis,
	}, nil
}

// LocationScore uses the student's city preferences when they name a city,
// and falls back to coordinate distance otherwise. Metadata is nil for the
// distance fallback.
func LocationScore(student *model.StudentProfile, job *model.JobData) (float64, *model.LocationMetadata) {
	if student.Cities.HasContext() {
		s := location.NewCityMatcher(*student.Cities).CalculateLocationScore(job)
		md := s.LocationMetadata
		return s.Score, &md
	}
	return location.DistanceScore(student.Location, job.LocationPoint()), nil
}

// Dealbreakers lists the hard filters that collapsed a score, in the order
// they are applied.
func Dealbreakers(roles []string, b model.MatchBreakdown) []string {
	var out []string
	if b.Preferences == 0 && len(roles) > 0 {
		out = append(out, DealbreakerPreferences)
	}
	if b.Location == 0 {
		out = append(out, DealbreakerLocation)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
