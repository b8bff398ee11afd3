// Package repository persists match results keyed by student and job.
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

// Record is the stored outcome of scoring one pair.
type Record struct {
	StudentID      string               `json:"student_id"`
	JobID          string               `json:"job_id"`
	Score          float64              `json:"score"`
	Breakdown      model.MatchBreakdown `json:"breakdown"`
	ScheduleStatus string               `json:"schedule_status"`
	Analysis       []string             `json:"schedule_analysis"`
	CalculatedAt   time.Time            `json:"calculated_at"`
	// SubmittedAt orders versions of the same pair. A store keeps the record
	// with the latest SubmittedAt.
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewRecord builds a record from an engine result.
func NewRecord(studentID, jobID string, res model.MatchResult, at time.Time) Record { //nolint:gocritic // result is copied into the record
	return Record{
		StudentID:      studentID,
		JobID:          jobID,
		Score:          res.TotalScore,
		Breakdown:      res.Breakdown,
		ScheduleStatus: res.ScheduleStatus,
		Analysis:       res.ScheduleAnalysis,
		CalculatedAt:   at.UTC(),
		SubmittedAt:    at.UTC(),
	}
}

// Submitted sets the time the pair was queued for scoring.
func (r Record) Submitted(at time.Time) Record { //nolint:gocritic // records are passed by value
	r.SubmittedAt = at.UTC()
	return r
}

// supersedes reports whether r may replace prev. Ties go to the later write.
func (r *Record) supersedes(prev *Record) bool {
	return !r.SubmittedAt.Before(prev.SubmittedAt)
}

func (r *Record) validate() error {
	if strings.TrimSpace(r.StudentID) == "" || strings.TrimSpace(r.JobID) == "" {
		return fmt.Errorf("%w: student and job ids are required", ErrInvalidRecord)
	}
	return nil
}

// Store holds at most one record per (student, job) pair.
type Store interface {
	// Upsert inserts the record or replaces the one for the same pair.
	// A record submitted before the stored one is dropped without error.
	Upsert(ctx context.Context, rec Record) error

	// Get returns the record for a pair, or ErrNotFound.
	Get(ctx context.Context, studentID, jobID string) (Record, error)

	// ListForStudent returns every record of a student ordered by score desc,
	// then job id asc.
	ListForStudent(ctx context.Context, studentID string) ([]Record, error)

	// Count returns the number of stored pairs.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// SortRecords orders records by score desc, then job id asc.
func SortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].JobID < recs[j].JobID
	})
}

func observe(backend, op string, start time.Time, err error) {
	metrics.RecordStoreOperation(backend, op, float64(time.Since(start).Microseconds())/1000, err)
}
