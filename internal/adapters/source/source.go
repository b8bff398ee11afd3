// Package source fetches job postings from external boards and normalizes
// them into model.JobData.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/pkg/logger"
	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

// RawJob is one posting as returned by a source, before normalization.
type RawJob struct {
	Source     string
	ExternalID string
	Payload    json.RawMessage
}

// Source is an external job board.
type Source interface {
	// Name identifies the source in logs, metrics and job ids.
	Name() string

	// Fetch searches the board once per keyword. Postings returned for more
	// than one keyword appear once.
	Fetch(ctx context.Context, keywords []string) ([]RawJob, error)

	// Normalize converts a raw posting into a job.
	Normalize(raw RawJob) (model.JobData, error)
}

// Registry holds sources by name.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	logger  logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
		logger:  logger.Get().Named("source"),
	}
}

// Register adds s. Names must be unique.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, ok := r.sources[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSource, name)
	}
	r.sources[name] = s
	return nil
}

// Get returns the source registered under name.
func (r *Registry) Get(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return s, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for n := range r.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run fetches from every source, normalizes the postings, and drops
// duplicates. A posting is a duplicate when its source and external id, or
// its title and company, were already seen. A failing source does not stop
// the others; its error is joined into the returned error alongside the
// jobs that were collected.
func (r *Registry) Run(ctx context.Context, keywords []string) ([]model.JobData, error) {
	var (
		jobs   []model.JobData
		errs   []error
		byID   = make(map[string]struct{})
		byName = make(map[string]struct{})
	)

	for _, name := range r.Names() {
		s, err := r.Get(name)
		if err != nil {
			continue
		}

		raws, err := s.Fetch(ctx, keywords)
		if err != nil {
			metrics.RecordSourceError(name)
			r.logger.Error(ctx, "source fetch failed", logger.String("source", name), logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			if len(raws) == 0 {
				continue
			}
		}

		kept := 0
		for _, raw := range raws {
			job, nerr := s.Normalize(raw)
			if nerr != nil {
				metrics.RecordSourceError(name)
				r.logger.Warn(ctx, "skipping posting",
					logger.String("source", name),
					logger.String("external_id", raw.ExternalID),
					logger.Error(nerr),
				)
				continue
			}

			idKey := job.Source + "\x00" + job.ExternalID
			nameKey := strings.ToLower(strings.TrimSpace(job.Title)) + "\x00" + strings.ToLower(strings.TrimSpace(job.Company))
			if _, dup := byID[idKey]; dup {
				continue
			}
			if _, dup := byName[nameKey]; dup {
				continue
			}
			byID[idKey] = struct{}{}
			byName[nameKey] = struct{}{}

			jobs = append(jobs, job)
			kept++
		}

		metrics.RecordSourceJobs(name, kept)
		r.logger.Info(ctx, "source run finished",
			logger.String("source", name),
			logger.Int("fetched", len(raws)),
			logger.Int("kept", kept),
		)
	}

	return jobs, errors.Join(errs...)
}

// Keywords merges defaults with desired roles, dropping blanks and
// case-insensitive repeats. Order is defaults first, then roles.
func Keywords(defaults []string, roles ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k == "" {
			return
		}
		key := strings.ToLower(k)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, k)
	}
	for _, k := range defaults {
		add(k)
	}
	for _, rs := range roles {
		for _, k := range rs {
			add(k)
		}
	}
	return out
}
