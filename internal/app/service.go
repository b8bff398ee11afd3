// Package service wires the matching engine to the recompute pipeline and
// the match store. It implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/adapters/mq/queue"
	"github.com/Goutamchandnani/UniHustle/internal/adapters/mq/worker"
	"github.com/Goutamchandnani/UniHustle/internal/adapters/repository"
	"github.com/Goutamchandnani/UniHustle/internal/adapters/source"
	"github.com/Goutamchandnani/UniHustle/internal/domain/dedupe"
	"github.com/Goutamchandnani/UniHustle/internal/domain/matching"
	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/internal/domain/schedule"
	"github.com/Goutamchandnani/UniHustle/internal/domain/types"
	"github.com/Goutamchandnani/UniHustle/pkg/logger"
	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

const (
	defaultMaxFeedLimit = 100
	defaultQueueSize    = 10_000
	defaultDedupeSize   = 100_000
)

// Service owns the engine and the recompute pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   *matching.Engine
	analyzer *schedule.Analyzer
	store    repository.Store
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	sources  *source.Registry

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	maxFeedLimit int
	weights      matching.Weights
	commute      time.Duration
	buffer       time.Duration
	keywords     []string

	started bool
	logger  logger.Logger
}

// New builds a service. It fails when the weights are invalid.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    defaultQueueSize,
		dedupeSize:   defaultDedupeSize,
		maxFeedLimit: defaultMaxFeedLimit,
		weights:      matching.DefaultWeights(),
		commute:      schedule.DefaultCommuteTime,
		buffer:       schedule.DefaultMinBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.analyzer = schedule.NewAnalyzer(
		schedule.WithCommuteTime(s.commute),
		schedule.WithMinBuffer(s.buffer),
	)
	engine, err := matching.NewEngine(
		matching.WithWeights(s.weights),
		matching.WithScheduleAnalyzer(s.analyzer),
	)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	s.engine = engine

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.sources == nil {
		s.sources = source.NewRegistry()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s, nil
}

// Start creates the queue and launches the worker pool. Cancelling ctx does
// not stop the workers; Stop drains them.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.engine, s.store,
		worker.WithReleaser(s.deduper),
		worker.WithLogger(s.logger.Named("worker")),
	)
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.String("weights", s.weights.String()),
	)
	return nil
}

// Stop closes the queue, waits for queued tasks to drain and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping matching service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
	return errors.Join(errs...)
}

// Match scores one pair synchronously.
func (s *Service) Match(_ context.Context, student *model.StudentProfile, job *model.JobData) (model.MatchResult, error) {
	start := time.Now()
	res, err := s.engine.CalculateMatch(student, job)
	if err != nil {
		metrics.RecordMatchError()
		return model.MatchResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var badge string
	if md := res.Breakdown.LocationMetadata; md != nil {
		badge = md.Badge
	}
	metrics.RecordMatch(res.TotalScore, float64(time.Since(start).Microseconds())/1000,
		badge, res.ScheduleStatus, matching.Dealbreakers(student.DesiredRoles(), res.Breakdown))
	return res, nil
}

// AnalyzeFit checks shifts against commitments with the configured analyzer.
func (s *Service) AnalyzeFit(commitments, shifts []model.TimeInterval) schedule.Fit {
	return s.analyzer.AnalyzeFit(commitments, shifts)
}

// LocationScore returns the location sub-score and, for city preferences,
// its classification.
func (s *Service) LocationScore(student *model.StudentProfile, job *model.JobData) (float64, *model.LocationMetadata, error) {
	if student == nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidInput, matching.ErrMissingStudent)
	}
	if job == nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidInput, matching.ErrMissingJob)
	}
	score, md := matching.LocationScore(student, job)
	return score, md, nil
}

// Submit queues every student-job pair for scoring. Pairs already queued
// count as duplicates; pairs the queue cannot take, or without ids, count as
// rejected.
func (s *Service) Submit(ctx context.Context, students []model.StudentProfile, jobs []model.JobData) (types.SubmitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res types.SubmitResult
	if !s.started {
		return res, ErrNotStarted
	}

	for i := range students {
		for j := range jobs {
			t, err := queue.NewTask(students[i], jobs[j])
			if err != nil {
				s.logger.Warn(ctx, "rejecting recompute pair", logger.Error(err))
				res.Rejected++
				continue
			}
			if s.deduper.SeenAndRecord(ctx, t.Fingerprint) {
				res.Duplicate++
				continue
			}
			if !s.queue.Enqueue(ctx, t) {
				s.deduper.Unrecord(ctx, t.Fingerprint)
				res.Rejected++
				continue
			}
			res.Accepted++
		}
	}

	metrics.RecordRecomputeSubmitted("accepted", res.Accepted)
	metrics.RecordRecomputeSubmitted("duplicate", res.Duplicate)
	metrics.RecordRecomputeSubmitted("rejected", res.Rejected)
	s.logger.Debug(ctx, "recompute submitted",
		logger.Int("accepted", res.Accepted),
		logger.Int("duplicate", res.Duplicate),
		logger.Int("rejected", res.Rejected),
	)
	return res, nil
}

// Feed returns a student's stored matches, best first. Excluded matches are
// never returned; hidden-by-default ones only when includeHidden is set.
// A limit outside 1..max is clamped to max.
func (s *Service) Feed(ctx context.Context, studentID string, limit int, includeHidden bool) ([]types.Entry, error) {
	if limit < 1 || limit > s.maxFeedLimit {
		limit = s.maxFeedLimit
	}

	recs, err := s.store.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]types.Entry, 0, min(limit, len(recs)))
	for i := range recs {
		r := &recs[i]
		if r.Breakdown.Excluded() || (r.Breakdown.Hidden() && !includeHidden) {
			continue
		}
		out = append(out, types.Entry{
			Rank:         len(out) + 1,
			JobID:        r.JobID,
			Score:        r.Score,
			Breakdown:    r.Breakdown,
			Analysis:     r.Analysis,
			CalculatedAt: r.CalculatedAt,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// FetchJobs runs every registered job source with the default keywords plus
// the given desired roles.
func (s *Service) FetchJobs(ctx context.Context, roles []string) ([]model.JobData, error) {
	if len(s.sources.Names()) == 0 {
		return nil, ErrNoSources
	}
	return s.sources.Run(ctx, source.Keywords(s.keywords, roles))
}

// GetStats returns pipeline statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{QueueCapacity: s.queueSize, Workers: s.workerCount}
	n, err := s.store.Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("count matches: %w", err)
	}
	stats.StoredMatches = n

	if s.started {
		stats.QueueLength = s.queue.Len()
		stats.InFlight = s.pool.InFlight()
		metrics.UpdateStoreRecords(n)
	}
	return stats, nil
}
