// Package schedule detects conflicts between a student's fixed weekly
// commitments and a job's shift pattern.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

// Defaults used when no option overrides them.
const (
	DefaultCommuteTime = 30 * time.Minute
	DefaultMinBuffer   = 15 * time.Minute
)

const (
	perfectScore       = 100
	conflictBaseScore  = 50
	penaltyPerIssue    = 10
	maxConflictRatio   = 0.5
	goodFitThreshold   = 80
	challengeThreshold = 60
)

// Status labels.
const (
	StatusPerfectFit = "Perfect Fit"
	StatusGoodFit    = "Good Fit"
	StatusChallenge  = "Challenge"
	StatusConflict   = "Conflict"
)

// Fit is the outcome of comparing commitments against shifts.
type Fit struct {
	Score    int      `json:"score"`
	Status   string   `json:"status"`
	Analysis []string `json:"analysis"`
}

// Analyzer compares weekly time intervals. It holds only immutable
// configuration and is safe for concurrent use.
type Analyzer struct {
	commuteTime time.Duration
	minBuffer   time.Duration
}

// NewAnalyzer creates an analyzer with a 30 minute commute and a 15 minute buffer
// unless overridden.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		commuteTime: DefaultCommuteTime,
		minBuffer:   DefaultMinBuffer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CommuteTime returns the configured commute time.
func (a *Analyzer) CommuteTime() time.Duration { return a.commuteTime }

// RequiredGap is the commute plus the personal buffer.
func (a *Analyzer) RequiredGap() time.Duration { return a.commuteTime + a.minBuffer }

// AnalyzeFit scores how well shifts fit around commitments.
func (a *Analyzer) AnalyzeFit(commitments, shifts []model.TimeInterval) Fit {
	if len(shifts) == 0 {
		return Fit{
			Score:    perfectScore,
			Status:   StatusPerfectFit,
			Analysis: []string{"Flexible schedule - no fixed shifts."},
		}
	}

	var conflicts, warnings []string
	conflicting, tight := 0, 0

	for _, shift := range shifts {
		day := strings.ToLower(strings.TrimSpace(shift.Day))
		for _, c := range commitments {
			if !shift.SameDay(c) {
				continue
			}
			msg, conflict, warned := a.compare(day, shift, c)
			if conflict {
				conflicts = append(conflicts, msg)
				conflicting++
				break
			}
			if warned {
				warnings = append(warnings, msg)
				tight++
			}
		}
	}

	analysis := make([]string, 0, len(conflicts)+len(warnings))
	analysis = append(analysis, conflicts...)
	analysis = append(analysis, warnings...)

	score := calculateScore(len(shifts), conflicting, tight)
	return Fit{
		Score:    score,
		Status:   statusLabel(score),
		Analysis: analysis,
	}
}

// compare checks one shift against one commitment on the same day. It returns
// the message for a conflict or a tight-timing warning, if any.
func (a *Analyzer) compare(day string, shift, c model.TimeInterval) (msg string, conflict, warned bool) {
	if overlaps(shift, c) {
		return fmt.Sprintf("Shift on %s (%s-%s) overlaps with commitment (%s-%s)",
			day, shift.Start, shift.End, c.Start, c.End), true, false
	}

	if shift.Start > c.End {
		gap := shift.Start.Sub(c.End)
		switch {
		case gap < a.commuteTime:
			return fmt.Sprintf("Impossible commute on %s: only %dm between commitment end and shift start (need %dm)",
				day, minutes(gap), minutes(a.commuteTime)), true, false
		case gap < a.RequiredGap():
			return fmt.Sprintf("Tight timing on %s: %dm gap before shift (commute is %dm)",
				day, minutes(gap), minutes(a.commuteTime)), false, true
		}
	}

	if c.Start > shift.End {
		gap := c.Start.Sub(shift.End)
		switch {
		case gap < a.commuteTime:
			return fmt.Sprintf("Impossible commute on %s: shift ends %dm before commitment starts (need %dm)",
				day, minutes(gap), minutes(a.commuteTime)), true, false
		case gap < a.RequiredGap():
			return fmt.Sprintf("Tight timing on %s: %dm to get from work to commitment (commute is %dm)",
				day, minutes(gap), minutes(a.commuteTime)), false, true
		}
	}

	return "", false, false
}

func overlaps(x, y model.TimeInterval) bool {
	return max(x.Start, y.Start) < min(x.End, y.End)
}

func minutes(d time.Duration) int { return int(d / time.Minute) }

func calculateScore(total, conflicting, tight int) int {
	if conflicting > 0 {
		if float64(conflicting)/float64(total) > maxConflictRatio {
			return 0
		}
		return max(0, conflictBaseScore-penaltyPerIssue*conflicting)
	}
	return max(0, perfectScore-penaltyPerIssue*tight)
}

func statusLabel(score int) string {
	switch {
	case score == perfectScore:
		return StatusPerfectFit
	case score >= goodFitThreshold:
		return StatusGoodFit
	case score >= challengeThreshold:
		return StatusChallenge
	default:
		return StatusConflict
	}
}
