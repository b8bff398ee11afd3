package service

import (
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/adapters/repository"
	"github.com/Goutamchandnani/UniHustle/internal/adapters/source"
	"github.com/Goutamchandnani/UniHustle/internal/domain/matching"
	"github.com/Goutamchandnani/UniHustle/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the recompute queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize caps the in-flight fingerprint set. Zero means unbounded.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxFeedLimit caps the number of feed entries one call may return.
func WithMaxFeedLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFeedLimit = n
		}
	}
}

// WithWeights sets the engine weights. They are validated by New.
func WithWeights(w matching.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithScheduleTimes sets the commute time and personal buffer used by the
// schedule analyzer.
func WithScheduleTimes(commute, buffer time.Duration) Option {
	return func(s *Service) {
		if commute >= 0 {
			s.commute = commute
		}
		if buffer >= 0 {
			s.buffer = buffer
		}
	}
}

// WithStore sets the match store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSources sets the job source registry.
func WithSources(r *source.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.sources = r
		}
	}
}

// WithSourceKeywords sets the default keywords searched by FetchJobs.
func WithSourceKeywords(keywords []string) Option {
	return func(s *Service) {
		if len(keywords) > 0 {
			s.keywords = append([]string(nil), keywords...)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
