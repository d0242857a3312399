// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/brainmark/internal/domain/model"
	"github.com/okian/brainmark/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, testType types.TestType, limit int) ([]model.Entry, model.Stats, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps   LeaderboardDependencies
	limits Limits
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, limits Limits) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, limits: limits}
}

// HandleGetLeaderboard handles GET /leaderboard/{testType}?limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/leaderboard/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "missing test type"))
		return
	}
	testType, err := types.Parse(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "invalid test type"))
		return
	}

	limit := h.limits.DefaultLeaderboardLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "invalid limit"))
			return
		}
	}
	if limit > h.limits.MaxLeaderboardLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: %s", ErrBadRequest, "limit exceeded"))
		return
	}

	entries, stats, err := h.deps.Leaderboard(r.Context(), testType, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Rankings: entries, Stats: stats})
}
