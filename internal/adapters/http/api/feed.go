package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Goutamchandnani/UniHustle/internal/domain/types"
)

// FeedDependencies reads a student's stored matches.
type FeedDependencies interface {
	Feed(ctx context.Context, studentID string, limit int, includeHidden bool) ([]types.Entry, error)
}

// FeedHandler handles match feed requests.
type FeedHandler struct {
	deps     FeedDependencies
	maxLimit int
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(deps FeedDependencies, maxLimit int) *FeedHandler {
	return &FeedHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetFeed handles GET /matches/{student_id}?limit=N&include_hidden=true.
func (h *FeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_feed"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	studentID := strings.TrimPrefix(r.URL.Path, "/matches/")
	if studentID == "" || strings.Contains(studentID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, nil))
		return
	}

	q := r.URL.Query()
	limit := h.maxLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", wrapKind(op, ErrBadRequest, nil))
			return
		}
		limit = n
	}
	includeHidden, _ := strconv.ParseBool(q.Get("include_hidden"))

	entries, err := h.deps.Feed(r.Context(), studentID, limit, includeHidden)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
