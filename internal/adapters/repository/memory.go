package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

const backendMemory = "memory"

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	byStudent map[string]map[string]Record
	count     int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byStudent: make(map[string]map[string]Record)}
}

// Upsert inserts or replaces the record for its pair unless the stored one
// was submitted later.
func (s *MemoryStore) Upsert(_ context.Context, rec Record) (err error) { //nolint:gocritic // records are stored by value
	defer func(start time.Time) { observe(backendMemory, "upsert", start, err) }(time.Now())
	if err = rec.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	jobs, ok := s.byStudent[rec.StudentID]
	if !ok {
		jobs = make(map[string]Record)
		s.byStudent[rec.StudentID] = jobs
	}
	if prev, exists := jobs[rec.JobID]; exists {
		if !rec.supersedes(&prev) {
			s.mu.Unlock()
			return nil
		}
	} else {
		s.count++
	}
	rec.Analysis = append([]string(nil), rec.Analysis...)
	jobs[rec.JobID] = rec
	n := s.count
	s.mu.Unlock()

	metrics.UpdateStoreRecords(n)
	return nil
}

// Get returns the record for a pair.
func (s *MemoryStore) Get(_ context.Context, studentID, jobID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byStudent[studentID][jobID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// ListForStudent returns the student's records in feed order.
func (s *MemoryStore) ListForStudent(_ context.Context, studentID string) ([]Record, error) {
	s.mu.RLock()
	jobs := s.byStudent[studentID]
	out := make([]Record, 0, len(jobs))
	for _, rec := range jobs {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	SortRecords(out)
	return out, nil
}

// Count returns the number of stored pairs.
func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
