// Package worker drains recompute tasks: each task is scored by the matching
// engine and the result is upserted into the match store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/adapters/mq/queue"
	"github.com/Goutamchandnani/UniHustle/internal/adapters/repository"
	"github.com/Goutamchandnani/UniHustle/internal/domain/matching"
	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/pkg/logger"
	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Matcher scores one student-job pair.
type Matcher interface {
	CalculateMatch(student *model.StudentProfile, job *model.JobData) (model.MatchResult, error)
}

// Store persists match records.
type Store interface {
	Upsert(ctx context.Context, rec repository.Record) error
}

// Releaser forgets a task fingerprint.
type Releaser interface {
	Unrecord(ctx context.Context, id string)
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue() <-chan queue.Task
}

// Worker processes tasks until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called,
	// or the queue channel is closed.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current task.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	matcher  Matcher
	store    Store
	releaser Releaser
	now      func() time.Time
	name     string

	inFlight  *atomic.Int64
	processed *atomic.Int64
	failed    *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

type nopReleaser struct{}

func (nopReleaser) Unrecord(context.Context, string) {}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, matcher Matcher, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		matcher:   matcher,
		store:     store,
		releaser:  nopReleaser{},
		now:       time.Now,
		name:      "worker",
		inFlight:  &atomic.Int64{},
		processed: &atomic.Int64{},
		failed:    &atomic.Int64{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case t, ok := <-tasks:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, t); err != nil {
				w.logger.Error(ctx, "recompute task failed",
					logger.String("task_id", t.ID),
					logger.String("student_id", t.Student.ID),
					logger.String("job_id", t.Job.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for its loop to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores and stores one task. A failed task never stops the loop.
func (w *InMemoryWorker) process(ctx context.Context, t queue.Task) (err error) { //nolint:gocritic // hugeParam: tasks travel by value
	start := time.Now()
	w.inFlight.Add(1)
	metrics.AddWorkerActive(1)
	defer func() {
		w.inFlight.Add(-1)
		metrics.AddWorkerActive(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
		w.releaser.Unrecord(ctx, t.Fingerprint)
		if err != nil {
			w.failed.Add(1)
			metrics.RecordWorkerError()
			return
		}
		w.processed.Add(1)
	}()

	scoreStart := time.Now()
	res, err := w.matcher.CalculateMatch(&t.Student, &t.Job)
	if err != nil {
		metrics.RecordMatchError()
		return fmt.Errorf("score task %s: %w", t.ID, err)
	}
	var badge string
	if md := res.Breakdown.LocationMetadata; md != nil {
		badge = md.Badge
	}
	metrics.RecordMatch(res.TotalScore, float64(time.Since(scoreStart).Microseconds())/1000,
		badge, res.ScheduleStatus, matching.Dealbreakers(t.Student.DesiredRoles(), res.Breakdown))

	rec := repository.NewRecord(t.Student.ID, t.Job.ID, res, w.now())
	if !t.EnqueuedAt.IsZero() {
		rec = rec.Submitted(t.EnqueuedAt)
	}
	if err = w.store.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("store task %s: %w", t.ID, err)
	}

	w.logger.Debug(ctx, "match stored",
		logger.String("student_id", t.Student.ID),
		logger.String("job_id", t.Job.ID),
		logger.Float64("score", res.TotalScore),
	)
	return nil
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	inFlight  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewPool creates workerCount workers. A count below 1 uses twice the CPU count.
// Options are applied to every worker.
func NewPool(workerCount int, q Queue, matcher Matcher, store Store, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, matcher, store, wopts...)
		w.inFlight = &p.inFlight
		w.processed = &p.processed
		w.failed = &p.failed
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// InFlight returns the number of tasks being processed right now.
func (p *Pool) InFlight() int64 { return p.inFlight.Load() }

// Processed returns the number of tasks scored and stored.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Failed returns the number of tasks that could not be scored or stored.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Shutdown closes the queue, lets workers drain what is already queued, and
// waits for them to exit or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
