// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/brainmark/internal/domain/types"
)

// ScoreRecord represents one submitted attempt. Rows are insert-only.
// Fingerprint is used exclusively for rate limiting and must never appear
// in any output alongside the anonymous ID.
type ScoreRecord struct {
	ID          string
	TestType    types.TestType
	Result      float64
	Fingerprint string
	AnonymousID string
	Metadata    map[string]any // informational only, not validated
	CreatedAt   time.Time
}

// Entry represents a leaderboard row. Rank is assigned at query time as the
// 1-based position under the test type's ordering; it is never stored.
type Entry struct {
	Rank        int            `json:"rank"`
	TestType    types.TestType `json:"test_type"`
	Result      float64        `json:"result"`
	AnonymousID string         `json:"anonymous_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Stats aggregates submissions for one test type. An empty table yields the
// zero value rather than an error.
type Stats struct {
	TotalPlayers int     `json:"totalPlayers"`
	AverageScore float64 `json:"averageScore"` // rounded to 2 decimals
	BestScore    float64 `json:"bestScore"`    // min for reaction, max otherwise
}

// BestScore is the client-local personal best for one test type.
type BestScore struct {
	Score    float64        `json:"score"`
	Date     time.Time      `json:"date"`
	TestType types.TestType `json:"testType"`
}
