// Package bestscore tracks a player's personal best per test type in an
// injected key-value store.
//
// Storage problems never surface as errors: a disabled or full store turns
// best-score tracking into a no-op for the session, and the game keeps
// working.
package bestscore

import (
	"encoding/json"
	"time"

	"github.com/okian/brainmark/internal/domain/model"
	"github.com/okian/brainmark/internal/domain/types"
)

// KV is the persistence the store needs. Injecting it keeps this package
// testable without a real browser-storage backend; pass an in-memory
// implementation in non-interactive contexts.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// storageKey is the single namespaced entry holding the whole best-score map.
const storageKey = "brain-mark-best-scores"

// Store reads and writes personal bests through a KV backend.
type Store struct {
	kv KV
}

// New creates a best-score store over kv.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// all loads the full map. Any storage or decode problem yields an empty map.
func (s *Store) all() map[types.TestType]model.BestScore {
	scores := make(map[types.TestType]model.BestScore)
	if s.kv == nil {
		return scores
	}
	raw, ok, err := s.kv.Get(storageKey)
	if err != nil || !ok {
		return scores
	}
	_ = json.Unmarshal([]byte(raw), &scores)
	return scores
}

// Best returns the recorded personal best for testType, if any.
func (s *Store) Best(testType types.TestType) (model.BestScore, bool) {
	best, ok := s.all()[testType]
	return best, ok
}

// Save records score as the new personal best when it strictly beats the
// current one under the test type's ordering. The whole map is rewritten so
// other test types' entries stay untouched. Returns true iff a new best was
// recorded.
func (s *Store) Save(testType types.TestType, score float64) bool {
	if s.kv == nil {
		return false
	}

	scores := s.all()
	var current *float64
	if existing, ok := scores[testType]; ok {
		current = &existing.Score
	}
	if !IsBetter(testType, score, current) {
		return false
	}

	scores[testType] = model.BestScore{
		Score:    score,
		Date:     time.Now().UTC(),
		TestType: testType,
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return false
	}
	return s.kv.Set(storageKey, string(raw)) == nil
}

// Clear removes every recorded best. Used by explicit reset only.
func (s *Store) Clear() {
	if s.kv != nil {
		_ = s.kv.Delete(storageKey)
	}
}

// IsBetter reports whether newScore strictly beats current under testType's
// ordering. The absence of a current best always counts as better.
func IsBetter(testType types.TestType, newScore float64, current *float64) bool {
	if current == nil {
		return true
	}
	if testType.LowerIsBetter() {
		return newScore < *current
	}
	return newScore > *current
}
