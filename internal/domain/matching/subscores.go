package matching

import (
	"strings"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

const (
	hoursPerYear    = 1950
	closeCallFactor = 0.9

	neutralSalaryScore = 50
)

// SkillsScore compares student skills with the job's declared skills. When the
// job declares none, student skills are searched for in the description.
func SkillsScore(studentSkills, jobSkills []string, description string) float64 {
	student := lowerSet(studentSkills)
	job := lowerSet(jobSkills)

	if len(job) > 0 {
		if len(student) == 0 {
			return 0
		}
		overlap := 0
		for s := range student {
			if _, ok := job[s]; ok {
				overlap++
			}
		}
		return min(100, 100*float64(overlap)/float64(len(job)))
	}

	if len(student) == 0 {
		return 100
	}

	desc := strings.ToLower(description)
	found := 0
	for s := range student {
		if strings.Contains(desc, s) {
			found++
		}
	}
	switch {
	case found >= 3:
		return 100
	case found == 2:
		return 80
	case found == 1:
		return 60
	default:
		return 40
	}
}

// SalaryScore compares the job's pay against the student's hourly minimum.
// Yearly figures are converted to hourly. Nil or zero values count as unknown.
func SalaryScore(minNeeded, jobMin, jobMax *float64, salaryType string) float64 {
	if !known(minNeeded) {
		return 100
	}
	if !known(jobMin) {
		return neutralSalaryScore
	}

	need := *minNeeded
	low := hourly(*jobMin, salaryType)

	switch {
	case low >= need:
		return 100
	case known(jobMax) && hourly(*jobMax, salaryType) >= need:
		return 85
	case low >= need*closeCallFactor:
		return 60
	default:
		return 0
	}
}

// PreferenceScore is 0 when roles are given and none appears in the title.
func PreferenceScore(roles []string, title string) float64 {
	wanted := false
	lowerTitle := strings.ToLower(title)
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		wanted = true
		if strings.Contains(lowerTitle, strings.ToLower(r)) {
			return 100
		}
	}
	if wanted {
		return 0
	}
	return 100
}

func hourly(v float64, salaryType string) float64 {
	if strings.EqualFold(strings.TrimSpace(salaryType), model.SalaryYearly) {
		return v / hoursPerYear
	}
	return v
}

func known(v *float64) bool { return v != nil && *v != 0 }

func lowerSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}
