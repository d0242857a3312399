package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/brainmark/internal/domain/model"
	"github.com/okian/brainmark/internal/domain/types"
	"github.com/okian/brainmark/pkg/metrics"
)

// schema matches the deployed scores table. Safe to apply repeatedly.
const schema = `
CREATE TABLE IF NOT EXISTS scores (
    id            TEXT PRIMARY KEY,
    test_type     TEXT NOT NULL,
    result        REAL NOT NULL,
    fingerprint   TEXT NOT NULL,
    anonymous_id  TEXT NOT NULL,
    metadata      TEXT,
    created_at    TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scores_test_type_result
    ON scores(test_type, result);

CREATE INDEX IF NOT EXISTS idx_scores_type_fingerprint
    ON scores(test_type, fingerprint);

CREATE INDEX IF NOT EXISTS idx_scores_created_at
    ON scores(created_at);
`

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at path and
// applies the schema. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The driver serializes access per connection; a single connection
	// avoids table-lock errors from concurrent writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, rec model.ScoreRecord) error {
	start := time.Now()

	var metadata any
	if rec.Metadata != nil {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		metadata = string(raw)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (id, test_type, result, fingerprint, anonymous_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.TestType.String(),
		rec.Result,
		rec.Fingerprint,
		rec.AnonymousID,
		metadata,
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}

	metrics.RecordRepositoryInsertLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

func (s *SQLiteStore) RecentSubmission(ctx context.Context, fingerprint string, testType types.TestType, since time.Time) (bool, error) {
	start := time.Now()

	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM scores
		WHERE fingerprint = ? AND test_type = ? AND created_at >= ?
		LIMIT 1`,
		fingerprint,
		testType.String(),
		since.UTC().Format(time.RFC3339),
	).Scan(&id)

	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("recent submission lookup: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) TopN(ctx context.Context, testType types.TestType, limit int) ([]model.Entry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	start := time.Now()

	direction := "DESC"
	if testType.LowerIsBetter() {
		direction = "ASC"
	}

	// created_at, id tie-breakers keep equal results in insertion order.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, test_type, result, anonymous_id, metadata, created_at
		FROM scores
		WHERE test_type = ?
		ORDER BY result `+direction+`, created_at ASC, id ASC
		LIMIT ?`,
		testType.String(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var (
			id        string
			tt        string
			entry     model.Entry
			metadata  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&id, &tt, &entry.Result, &entry.AnonymousID, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entry.Rank = len(entries) + 1
		entry.TestType = types.TestType(tt)
		entry.Metadata = parseMetadata(metadata)
		entry.CreatedAt = parseTime(createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard rows: %w", err)
	}

	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	return entries, nil
}

func (s *SQLiteStore) Stats(ctx context.Context, testType types.TestType) (model.Stats, error) {
	start := time.Now()

	best := "MAX"
	if testType.LowerIsBetter() {
		best = "MIN"
	}

	var stats model.Stats
	var average, bestScore sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(result), `+best+`(result)
		FROM scores
		WHERE test_type = ?`,
		testType.String(),
	).Scan(&stats.TotalPlayers, &average, &bestScore)
	if err != nil {
		return model.Stats{}, fmt.Errorf("stats query: %w", err)
	}

	if average.Valid {
		stats.AverageScore = math.Round(average.Float64*100) / 100
	}
	if bestScore.Valid {
		stats.BestScore = bestScore.Float64
	}

	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	return stats, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return n, nil
}

// parseMetadata decodes the stored JSON blob. The bag is informational only,
// so malformed content degrades to nil instead of failing the read.
func parseMetadata(raw sql.NullString) map[string]any {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
		return nil
	}
	return m
}

// parseTime accepts both the RFC3339 values this code writes and the
// `datetime('now')` default SQLite would assign.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
