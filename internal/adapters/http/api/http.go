// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/brainmark/internal/app"
	"github.com/okian/brainmark/internal/domain/evaluation"
	"github.com/okian/brainmark/internal/domain/model"
	"github.com/okian/brainmark/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit gates and persists one attempt.
	Submit(ctx context.Context, sub service.Submission) error

	// Read operations expose leaderboard data.
	Leaderboard(ctx context.Context, testType types.TestType, limit int) ([]model.Entry, model.Stats, error)
	TestStats(ctx context.Context, testType types.TestType) (model.Stats, error)

	// Evaluate classifies a score without persisting anything.
	Evaluate(ctx context.Context, testType types.TestType, score float64) (evaluation.Result, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	evaluateHandler    *EvaluateHandler
}

// Limits carries the leaderboard paging bounds from configuration.
type Limits struct {
	DefaultLeaderboardLimit int
	MaxLeaderboardLimit     int
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		scoresHandler:      NewScoresHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, limits),
		evaluateHandler:    NewEvaluateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandlePostScore, "scores"))
	mux.HandleFunc("/leaderboard/", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/evaluate/", MetricsMiddleware(s.evaluateHandler.HandleGetEvaluation, "evaluate"))
}

// scoreRequest mirrors the submission schema for POST /scores.
type scoreRequest struct {
	TestType    string         `json:"testType"`
	Result      *float64       `json:"result"` // pointer distinguishes missing from zero
	Fingerprint string         `json:"fingerprint"`
	AnonymousID string         `json:"anonymousId"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type ackResponse struct {
	Status string `json:"status"`
}

// leaderboardResponse is the envelope for GET /leaderboard/{testType}.
type leaderboardResponse struct {
	Rankings []model.Entry `json:"rankings"`
	Stats    model.Stats   `json:"stats"`
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
