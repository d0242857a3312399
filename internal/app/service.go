// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/brainmark/internal/adapters/repository"
	"github.com/okian/brainmark/internal/domain/evaluation"
	"github.com/okian/brainmark/internal/domain/model"
	"github.com/okian/brainmark/internal/domain/ratelimit"
	"github.com/okian/brainmark/internal/domain/types"
	"github.com/okian/brainmark/pkg/logger"
	"github.com/okian/brainmark/pkg/metrics"
)

// Sentinel kinds for submission outcomes.
var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrRateLimited       = errors.New("rate limited")
)

// Submission bundles one attempt with its identity data.
type Submission struct {
	TestType    types.TestType
	Result      float64
	Fingerprint string
	AnonymousID string
	Metadata    map[string]any
}

// Service implements the API dependencies for the score system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	limiter ratelimit.Limiter

	// Configuration
	dbPath      string
	window      time.Duration
	limiterSize int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDBPath sets the SQLite database location.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithRateLimitWindow sets the per-(fingerprint, test type) submission window.
func WithRateLimitWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithLimiterSize caps the in-memory rate limiter.
func WithLimiterSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.limiterSize = size
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:      "data/scores.db",
		window:      10 * time.Minute,
		limiterSize: 50_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting score service...")

	store, err := repository.NewSQLiteStore(s.dbPath)
	if err != nil {
		return fmt.Errorf("open score store: %w", err)
	}
	s.store = store
	s.limiter = ratelimit.NewMemoryLimiter(
		ratelimit.WithWindow(s.window),
		ratelimit.WithMaxSize(s.limiterSize),
	)

	s.started = true
	s.logger.Info(ctx, "score service started",
		logger.String("dbPath", s.dbPath),
		logger.String("window", s.window.String()),
		logger.Int("limiterSize", s.limiterSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping score service...")
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "score service stopped")
}

// Submit validates one attempt, enforces the submission window, and inserts
// the row. The in-memory limiter short-circuits repeats on this node; the
// database query stays authoritative. The check is read-then-write without a
// transaction, so two near-simultaneous submissions can both pass; the threat
// model is casual leaderboard gaming, not an adversary.
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	switch {
	case !sub.TestType.Valid():
		metrics.RecordSubmissionRejected("invalid")
		return fmt.Errorf("%w: unknown test type %q", ErrInvalidSubmission, sub.TestType)
	case sub.Fingerprint == "":
		metrics.RecordSubmissionRejected("invalid")
		return fmt.Errorf("%w: missing fingerprint", ErrInvalidSubmission)
	case sub.AnonymousID == "":
		metrics.RecordSubmissionRejected("invalid")
		return fmt.Errorf("%w: missing anonymous id", ErrInvalidSubmission)
	}

	now := time.Now().UTC()

	if !s.limiter.Allow(ctx, sub.Fingerprint, sub.TestType.String(), now) {
		metrics.RecordRateLimitHit()
		metrics.RecordSubmissionRejected("rate_limited")
		return ErrRateLimited
	}
	metrics.UpdateLimiterSize(s.limiter.Size())

	recent, err := s.store.RecentSubmission(ctx, sub.Fingerprint, sub.TestType, now.Add(-s.window))
	if err != nil {
		s.limiter.Forget(ctx, sub.Fingerprint, sub.TestType.String())
		metrics.RecordSubmissionRejected("storage")
		return fmt.Errorf("rate-limit lookup: %w", err)
	}
	if recent {
		// A row from before this process started. Drop the limiter record so
		// the database timing, not this attempt's, decides when the window
		// reopens.
		s.limiter.Forget(ctx, sub.Fingerprint, sub.TestType.String())
		metrics.RecordSubmissionRejected("rate_limited")
		return ErrRateLimited
	}

	rec := model.ScoreRecord{
		ID:          uuid.NewString(),
		TestType:    sub.TestType,
		Result:      sub.Result,
		Fingerprint: sub.Fingerprint,
		AnonymousID: sub.AnonymousID,
		Metadata:    sub.Metadata,
		CreatedAt:   now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		s.limiter.Forget(ctx, sub.Fingerprint, sub.TestType.String())
		metrics.RecordSubmissionRejected("storage")
		return fmt.Errorf("insert score: %w", err)
	}

	metrics.RecordSubmissionAccepted()
	s.logger.Debug(ctx, "score accepted",
		logger.String("testType", sub.TestType.String()),
		logger.Float64("result", sub.Result),
		logger.String("id", rec.ID),
	)
	return nil
}

// Leaderboard returns up to limit ranked entries plus aggregate stats for
// the test type.
func (s *Service) Leaderboard(ctx context.Context, testType types.TestType, limit int) ([]model.Entry, model.Stats, error) {
	entries, err := s.store.TopN(ctx, testType, limit)
	if err != nil {
		return nil, model.Stats{}, err
	}
	stats, err := s.store.Stats(ctx, testType)
	if err != nil {
		return nil, model.Stats{}, err
	}
	metrics.RecordLeaderboardQuery()
	return entries, stats, nil
}

// TestStats returns aggregate stats for the test type.
func (s *Service) TestStats(ctx context.Context, testType types.TestType) (model.Stats, error) {
	return s.store.Stats(ctx, testType)
}

// Evaluate classifies a score for the test type.
func (s *Service) Evaluate(ctx context.Context, testType types.TestType, score float64) (evaluation.Result, error) {
	result, err := evaluation.Evaluate(testType, score)
	if err != nil {
		return evaluation.Result{}, err
	}
	metrics.RecordEvaluation()
	return result, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"windowMins":  int(s.window.Minutes()),
		"limiterSize": s.limiterSize,
	}

	if s.started {
		if total, err := s.store.Count(ctx); err == nil {
			stats["totalScores"] = total
			metrics.UpdateTotalScores(total)
		}
		stats["limiterEntries"] = s.limiter.Size()
		metrics.UpdateLimiterSize(s.limiter.Size())
	}
	return stats
}
