// Package client is the submission gateway for brainmark scores. It bundles
// a completed attempt with the device fingerprint and anonymous ID, keeps
// the local personal-best record, and talks to the score API.
//
// Evaluation and best-score tracking happen before the network is touched:
// a failed upload never hides the player's result.
//
// The API surfaces types from this module's internal domain packages
// (types.TestType, fingerprint.Signals, evaluation.Result), so the package
// serves the binaries and tests of this module rather than external
// importers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/brainmark/internal/domain/bestscore"
	"github.com/okian/brainmark/internal/domain/evaluation"
	"github.com/okian/brainmark/internal/domain/fingerprint"
	"github.com/okian/brainmark/internal/domain/model"
	"github.com/okian/brainmark/internal/domain/types"
)

// defaultTimeout bounds every request; a hung upload surfaces as a
// transient failure instead of blocking the caller.
const defaultTimeout = 10 * time.Second

// KV is the local persistence the client needs for its anonymous ID and
// best-score records. Pass an in-memory implementation to run without
// durable storage.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Client submits scores and reads leaderboards.
type Client struct {
	baseURL string
	http    *http.Client
	kv      KV
	bests   *bestscore.Store
	signals fingerprint.Signals

	deviceFP string // computed once per client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithKV sets the local store for the anonymous ID and best scores.
func WithKV(kv KV) Option {
	return func(c *Client) {
		if kv != nil {
			c.kv = kv
		}
	}
}

// WithSignals overrides the environment signals the fingerprint is built
// from.
func WithSignals(s fingerprint.Signals) Option {
	return func(c *Client) {
		c.signals = s
	}
}

// New creates a client for the score API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		signals: hostSignals(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bests = bestscore.New(c.kv)
	c.deviceFP = fingerprint.Generate(c.signals)
	return c
}

// hostSignals builds fingerprint signals from what a headless process can
// observe. Far fewer entropy sources than a browser; collisions are expected
// and acceptable.
func hostSignals() fingerprint.Signals {
	zone, _ := time.Now().Zone()
	return fingerprint.Signals{
		UserAgent:           "brainmark-client/" + runtime.Version(),
		Timezone:            zone,
		Language:            os.Getenv("LANG"),
		Platform:            runtime.GOOS + "/" + runtime.GOARCH,
		HardwareConcurrency: runtime.NumCPU(),
	}
}

// Submission reports everything the caller needs to show the player,
// whether or not the upload succeeded.
type Submission struct {
	Evaluation evaluation.Result
	NewBest    bool
	Uploaded   bool
}

// SubmitResult evaluates a completed attempt, updates the local best score,
// and uploads it. On upload rejection or failure the returned Submission
// still carries the evaluation and best-score outcome alongside the
// *SubmissionError.
func (c *Client) SubmitResult(ctx context.Context, testType types.TestType, result float64, metadata map[string]any) (*Submission, error) {
	eval, err := evaluation.Evaluate(testType, result)
	if err != nil {
		return nil, &SubmissionError{Kind: KindValidation, Message: "invalid request"}
	}

	sub := &Submission{
		Evaluation: eval,
		NewBest:    c.bests.Save(testType, result),
	}

	body, err := json.Marshal(map[string]any{
		"testType":    testType.String(),
		"result":      result,
		"fingerprint": c.deviceFP,
		"anonymousId": fingerprint.AnonymousID(c.kv),
		"metadata":    metadata,
	})
	if err != nil {
		return sub, &SubmissionError{Kind: KindValidation, Message: "invalid request"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scores", bytes.NewReader(body))
	if err != nil {
		return sub, &SubmissionError{Kind: KindTransient, Message: uploadFailedMessage}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return sub, &SubmissionError{Kind: KindTransient, Message: uploadFailedMessage}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		sub.Uploaded = true
		return sub, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return sub, &SubmissionError{Kind: KindRateLimited, StatusCode: resp.StatusCode,
			Message: "please wait before submitting again"}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return sub, &SubmissionError{Kind: KindValidation, StatusCode: resp.StatusCode,
			Message: "invalid request"}
	default:
		return sub, &SubmissionError{Kind: KindServer, StatusCode: resp.StatusCode,
			Message: uploadFailedMessage}
	}
}

// Leaderboard returns up to limit ranked entries plus aggregate stats.
func (c *Client) Leaderboard(ctx context.Context, testType types.TestType, limit int) ([]model.Entry, model.Stats, error) {
	url := c.baseURL + "/leaderboard/" + testType.String() + "?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.Stats{}, fmt.Errorf("build leaderboard request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, model.Stats{}, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.Stats{}, fmt.Errorf("fetch leaderboard: status %d", resp.StatusCode)
	}

	var out struct {
		Rankings []model.Entry `json:"rankings"`
		Stats    model.Stats   `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, model.Stats{}, fmt.Errorf("decode leaderboard: %w", err)
	}
	return out.Rankings, out.Stats, nil
}

// TestStats returns the aggregate stats for one test type.
func (c *Client) TestStats(ctx context.Context, testType types.TestType) (model.Stats, error) {
	_, stats, err := c.Leaderboard(ctx, testType, 1)
	return stats, err
}

// BestScore returns the locally recorded personal best, if any.
func (c *Client) BestScore(testType types.TestType) (model.BestScore, bool) {
	return c.bests.Best(testType)
}

// ClearBestScores wipes the local personal-best record.
func (c *Client) ClearBestScores() {
	c.bests.Clear()
}

// Fingerprint exposes the derived device token, mainly for tests.
func (c *Client) Fingerprint() string {
	return c.deviceFP
}
