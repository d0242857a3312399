// Package ratelimit defines the interface for submission-window tracking.
package ratelimit

import "time"

// Option applies a configuration option to the memoryLimiter.
type Option func(*memoryLimiter)

// WithWindow sets the rolling window during which a (fingerprint, test type)
// pair may submit at most once.
func WithWindow(window time.Duration) Option {
	return func(l *memoryLimiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// WithMaxSize caps the number of tracked pairs.
func WithMaxSize(maxSize int) Option {
	return func(l *memoryLimiter) {
		if maxSize > 0 {
			l.maxSize = maxSize
		}
	}
}
