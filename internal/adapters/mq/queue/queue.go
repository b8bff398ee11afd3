// Package queue carries recompute tasks from producers to the worker pool.
package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Goutamchandnani/UniHustle/internal/domain/dedupe"
	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Task asks for one student-job pair to be scored and stored.
type Task struct {
	ID          string
	Student     model.StudentProfile
	Job         model.JobData
	Fingerprint string
	EnqueuedAt  time.Time
}

// NewTask builds a task with a fresh id and a content fingerprint. Both the
// student and the job need an id since results are stored per pair.
func NewTask(student model.StudentProfile, job model.JobData) (Task, error) { //nolint:gocritic // records are copied into the task
	if strings.TrimSpace(student.ID) == "" || strings.TrimSpace(job.ID) == "" {
		return Task{}, fmt.Errorf("%w: student and job ids are required", ErrInvalidTask)
	}
	fp, err := dedupe.Fingerprint(student, job)
	if err != nil {
		return Task{}, fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}
	return Task{
		ID:          uuid.NewString(),
		Student:     student,
		Job:         job,
		Fingerprint: fp,
		EnqueuedAt:  time.Now(),
	}, nil
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a task. It returns false if the queue is full or closed.
	Enqueue(ctx context.Context, t Task) bool

	// Dequeue returns the channel tasks are delivered on. It is closed once
	// the queue is closed and drained.
	Dequeue() <-chan Task

	// Len returns the number of waiting tasks.
	Len() int

	// Cap returns the queue capacity.
	Cap() int

	// Close stops accepting tasks.
	Close() error

	// IsClosed reports whether Close has been called.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a task without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) bool { //nolint:gocritic // hugeParam: tasks travel by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		metrics.RecordQueueRejected()
		return false
	}

	select {
	case q.tasks <- t:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.tasks))
		return true
	default:
		metrics.RecordQueueRejected()
		return false
	}
}

// Dequeue returns the task channel.
func (q *InMemoryQueue) Dequeue() <-chan Task {
	return q.tasks
}

// Len returns the number of waiting tasks.
func (q *InMemoryQueue) Len() int {
	n := len(q.tasks)
	metrics.UpdateQueueSize(n)
	return n
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close stops accepting tasks. Waiting tasks remain readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
