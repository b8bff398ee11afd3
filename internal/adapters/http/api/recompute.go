package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/internal/domain/types"
)

// RecomputeDependencies queues pairs for asynchronous scoring.
type RecomputeDependencies interface {
	Submit(ctx context.Context, students []model.StudentProfile, jobs []model.JobData) (types.SubmitResult, error)
}

// RecomputeHandler handles recompute requests.
type RecomputeHandler struct {
	deps RecomputeDependencies
}

// NewRecomputeHandler creates a new recompute handler.
func NewRecomputeHandler(deps RecomputeDependencies) *RecomputeHandler {
	return &RecomputeHandler{deps: deps}
}

// recomputeRequest asks for every student to be scored against every job.
type recomputeRequest struct {
	Students []model.StudentProfile `json:"students"`
	Jobs     []model.JobData        `json:"jobs"`
}

func (req *recomputeRequest) validate() error {
	switch {
	case len(req.Students) == 0:
		return errors.New("missing students")
	case len(req.Jobs) == 0:
		return errors.New("missing jobs")
	}
	return nil
}

// HandleRecompute handles POST /recompute. It answers 202 when at least one
// pair was accepted or already queued, and 429 when every pair was rejected.
func (h *RecomputeHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.recompute"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recomputeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), req.Students, req.Jobs)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", wrapKind(op, ErrUnavailable, err))
		return
	}
	if res.Accepted == 0 && res.Duplicate == 0 {
		writeError(w, http.StatusTooManyRequests, "backpressure", wrapKind(op, ErrBackpressure, nil))
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}
