// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/brainmark/internal/app"
	"github.com/okian/brainmark/internal/domain/types"
)

// ScoreDependencies defines the interface for score submission.
type ScoreDependencies interface {
	Submit(ctx context.Context, sub service.Submission) error
}

// ScoresHandler handles score submissions.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandlePostScore handles POST /scores requests.
func (h *ScoresHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, "malformed body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	sub := service.Submission{
		TestType:    types.TestType(req.TestType),
		Result:      *req.Result,
		Fingerprint: req.Fingerprint,
		AnonymousID: req.AnonymousID,
		Metadata:    req.Metadata,
	}
	if err := h.deps.Submit(r.Context(), sub); err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "rate_limited",
				errors.New("please wait before submitting again"))
		case errors.Is(err, service.ErrInvalidSubmission):
			writeError(w, http.StatusBadRequest, "bad_request",
				errors.New("invalid request"))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error",
				errors.New("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

func (r scoreRequest) validate() error {
	if _, err := types.Parse(r.TestType); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, "invalid test type")
	}
	switch {
	case r.Result == nil:
		return fmt.Errorf("%w: %s", ErrBadRequest, "missing result")
	case r.Fingerprint == "":
		return fmt.Errorf("%w: %s", ErrBadRequest, "missing fingerprint")
	case r.AnonymousID == "":
		return fmt.Errorf("%w: %s", ErrBadRequest, "missing anonymousId")
	}
	return nil
}
