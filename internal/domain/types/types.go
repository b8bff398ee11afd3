// Package types contains read shapes shared by the service and its adapters.
package types

import (
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

// Entry is one row of a student's match feed.
type Entry struct {
	Rank         int                  `json:"rank"`
	JobID        string               `json:"job_id"`
	Score        float64              `json:"score"`
	Breakdown    model.MatchBreakdown `json:"breakdown"`
	Analysis     []string             `json:"schedule_analysis,omitempty"`
	CalculatedAt time.Time            `json:"calculated_at"`
}

// Badge returns the location badge, or "" when location was scored by distance.
func (e Entry) Badge() string {
	if e.Breakdown.LocationMetadata == nil {
		return ""
	}
	return e.Breakdown.LocationMetadata.Badge
}

// Stats summarizes the recompute pipeline.
type Stats struct {
	QueueLength   int   `json:"queue_length"`
	QueueCapacity int   `json:"queue_capacity"`
	Workers       int   `json:"workers"`
	InFlight      int64 `json:"in_flight"`
	StoredMatches int   `json:"stored_matches"`
}

// SubmitResult counts what happened to each pair of a recompute request.
type SubmitResult struct {
	Accepted  int `json:"accepted"`
	Duplicate int `json:"duplicate"`
	Rejected  int `json:"rejected"`
}

// Total returns the number of pairs considered.
func (r SubmitResult) Total() int { return r.Accepted + r.Duplicate + r.Rejected }
