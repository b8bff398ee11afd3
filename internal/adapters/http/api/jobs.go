package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	service "github.com/Goutamchandnani/UniHustle/internal/app"
	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

// JobsDependencies pulls postings from external sources.
type JobsDependencies interface {
	FetchJobs(ctx context.Context, roles []string) ([]model.JobData, error)
}

// JobsHandler handles job source requests.
type JobsHandler struct {
	deps JobsDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobsDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

type fetchRequest struct {
	Roles []string `json:"roles"`
}

type fetchResponse struct {
	Jobs  []model.JobData `json:"jobs"`
	Error string          `json:"error,omitempty"`
}

// HandleFetch handles POST /jobs/fetch. A partial failure still returns the
// jobs that were collected, with the error text alongside. Without any
// configured source the endpoint is unavailable.
func (h *JobsHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	const op = "api.fetch_jobs"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req fetchRequest
	if err := decode(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	jobs, err := h.deps.FetchJobs(r.Context(), req.Roles)
	if errors.Is(err, service.ErrNoSources) {
		writeError(w, http.StatusServiceUnavailable, "no_sources", wrapKind(op, ErrUnavailable, err))
		return
	}
	if err != nil && len(jobs) == 0 {
		writeError(w, http.StatusBadGateway, "source_error", wrapKind(op, ErrUnavailable, err))
		return
	}
	resp := fetchResponse{Jobs: jobs}
	if resp.Jobs == nil {
		resp.Jobs = []model.JobData{}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
