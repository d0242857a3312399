// Package ratelimit defines the interface for submission-window tracking.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter tracks recent submissions per (fingerprint, test type) pair.
//
// It is a first-line, single-node cache in front of the authoritative
// database window check: it short-circuits obvious repeats without a query,
// but the database remains the source of truth across restarts.
type Limiter interface {
	// Allow atomically checks whether the pair submitted within the window
	// and records now as its submission time if not. Returns false when the
	// pair is still inside the window.
	Allow(ctx context.Context, fingerprint, testType string, now time.Time) bool

	// Forget drops the pair's record, allowing an immediate retry. Used when
	// a submission was recorded here but failed to reach storage, or when
	// the database check rejected it and must stay authoritative for timing.
	Forget(ctx context.Context, fingerprint, testType string)

	Size() int64
}

// memoryLimiter implements Limiter with a mutex-guarded map and lazy expiry.
type memoryLimiter struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	window  time.Duration
	maxSize int // entry cap; oldest entries are evicted past it
	size    atomic.Int64
}

// NewMemoryLimiter creates an in-memory limiter with configuration options.
func NewMemoryLimiter(opts ...Option) Limiter {
	l := &memoryLimiter{
		window:  10 * time.Minute,
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.seen = make(map[string]time.Time)
	return l
}

func key(fingerprint, testType string) string {
	return fingerprint + "|" + testType
}

func (l *memoryLimiter) Allow(ctx context.Context, fingerprint, testType string, now time.Time) bool {
	k := key(fingerprint, testType)

	l.mu.Lock()
	defer l.mu.Unlock()

	if at, ok := l.seen[k]; ok && now.Sub(at) < l.window {
		return false
	}

	if len(l.seen) >= l.maxSize {
		l.evict(now)
	}
	l.seen[k] = now
	l.size.Store(int64(len(l.seen)))
	return true
}

func (l *memoryLimiter) Forget(ctx context.Context, fingerprint, testType string) {
	k := key(fingerprint, testType)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[k]; ok {
		delete(l.seen, k)
		l.size.Store(int64(len(l.seen)))
	}
}

// evict drops expired entries, and if none were expired, the oldest entry.
// Must be called with l.mu held.
func (l *memoryLimiter) evict(now time.Time) {
	var oldestKey string
	var oldestAt time.Time
	dropped := false

	for k, at := range l.seen {
		if now.Sub(at) >= l.window {
			delete(l.seen, k)
			dropped = true
			continue
		}
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey, oldestAt = k, at
		}
	}
	if !dropped && oldestKey != "" {
		delete(l.seen, oldestKey)
	}
}

func (l *memoryLimiter) Size() int64 {
	return l.size.Load()
}
