package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/internal/domain/schedule"
)

// MatchDependencies scores pairs synchronously.
type MatchDependencies interface {
	Match(ctx context.Context, student *model.StudentProfile, job *model.JobData) (model.MatchResult, error)
	AnalyzeFit(commitments, shifts []model.TimeInterval) schedule.Fit
	LocationScore(student *model.StudentProfile, job *model.JobData) (float64, *model.LocationMetadata, error)
}

// MatchHandler handles the synchronous scoring endpoints.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// pairRequest is the body of POST /match and POST /location/score.
type pairRequest struct {
	Student *model.StudentProfile `json:"student"`
	Job     *model.JobData        `json:"job"`
}

func (p *pairRequest) validate() error {
	switch {
	case p.Student == nil:
		return errors.New("missing student")
	case p.Job == nil:
		return errors.New("missing job")
	}
	return nil
}

// fitRequest is the body of POST /schedule/fit.
type fitRequest struct {
	Commitments []model.TimeInterval `json:"commitments"`
	Shifts      []model.TimeInterval `json:"shifts"`
}

type locationResponse struct {
	Score    float64                 `json:"score"`
	Metadata *model.LocationMetadata `json:"metadata,omitempty"`
}

// HandleMatch handles POST /match.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pairRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Match(r.Context(), req.Student, req.Job)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleFit handles POST /schedule/fit.
func (h *MatchHandler) HandleFit(w http.ResponseWriter, r *http.Request) {
	const op = "api.schedule_fit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req fitRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.AnalyzeFit(req.Commitments, req.Shifts))
}

// HandleLocation handles POST /location/score.
func (h *MatchHandler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	const op = "api.location_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pairRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	score, md, err := h.deps.LocationScore(req.Student, req.Job)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, locationResponse{Score: score, Metadata: md})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
