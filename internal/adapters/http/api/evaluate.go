// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/brainmark/internal/domain/evaluation"
	"github.com/okian/brainmark/internal/domain/types"
)

// EvaluateDependencies defines the interface for evaluation operations.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, testType types.TestType, score float64) (evaluation.Result, error)
}

// EvaluateHandler serves score evaluations.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// HandleGetEvaluation handles GET /evaluate/{testType}?score=S requests.
func (h *EvaluateHandler) HandleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/evaluate/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "missing test type"))
		return
	}
	testType, err := types.Parse(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "invalid test type"))
		return
	}

	score, err := strconv.ParseFloat(r.URL.Query().Get("score"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "invalid score"))
		return
	}

	result, err := h.deps.Evaluate(r.Context(), testType, score)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "invalid test type"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
