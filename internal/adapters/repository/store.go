// Package repository defines the scores store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/brainmark/internal/domain/model"
	"github.com/okian/brainmark/internal/domain/types"
)

// Store provides access to the submitted-scores table. Rows are insert-only;
// there are no updates or deletes in scope.
type Store interface {
	// Insert persists one submitted attempt.
	Insert(ctx context.Context, rec model.ScoreRecord) error

	// RecentSubmission reports whether the (fingerprint, testType) pair has a
	// row created at or after since. This is the authoritative rate-limit
	// check; it is read-then-write without a transaction, so two
	// near-simultaneous submissions can both pass. Acceptable for casual
	// leaderboard gaming.
	RecentSubmission(ctx context.Context, fingerprint string, testType types.TestType, since time.Time) (bool, error)

	// TopN returns up to limit entries for testType, ranked under the test's
	// ordering direction with ties broken by insertion order.
	TopN(ctx context.Context, testType types.TestType, limit int) ([]model.Entry, error)

	// Stats aggregates all rows for testType. An empty table yields zeros.
	Stats(ctx context.Context, testType types.TestType) (model.Stats, error)

	// Count returns the total number of stored scores across all test types.
	Count(ctx context.Context) (int, error)

	Close() error
}
