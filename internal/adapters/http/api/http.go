// Package api exposes the matching service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	defaultMaxFeedLimit = 100
	maxBodyBytes        = 4 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	RecomputeDependencies
	FeedDependencies
	JobsDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	matchHandler     *MatchHandler
	recomputeHandler *RecomputeHandler
	feedHandler      *FeedHandler
	jobsHandler      *JobsHandler
}

// NewServer creates a new API server with all handlers. A maxFeedLimit below
// 1 uses the default of 100.
func NewServer(deps Dependencies, maxFeedLimit int) *Server {
	if maxFeedLimit < 1 {
		maxFeedLimit = defaultMaxFeedLimit
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		matchHandler:     NewMatchHandler(deps),
		recomputeHandler: NewRecomputeHandler(deps),
		feedHandler:      NewFeedHandler(deps, maxFeedLimit),
		jobsHandler:      NewJobsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/schedule/fit", MetricsMiddleware(s.matchHandler.HandleFit, "schedule_fit"))
	mux.HandleFunc("/location/score", MetricsMiddleware(s.matchHandler.HandleLocation, "location_score"))
	mux.HandleFunc("/recompute", MetricsMiddleware(s.recomputeHandler.HandleRecompute, "recompute"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.feedHandler.HandleGetFeed, "matches"))
	mux.HandleFunc("/jobs/fetch", MetricsMiddleware(s.jobsHandler.HandleFetch, "jobs_fetch"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
