// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite scores database. ":memory:" is ephemeral.
	DBPath string `koanf:"db_path"`

	// RateLimitWindowMinutes sets the per-(fingerprint, test type)
	// submission window.
	RateLimitWindowMinutes int `koanf:"rate_limit_window_minutes"`

	// LimiterSize caps the in-memory rate limiter's tracked pairs.
	LimiterSize int `koanf:"limiter_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DefaultLeaderboardLimit applies when no limit is given.
	DefaultLeaderboardLimit int `koanf:"default_leaderboard_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		DBPath:                  "data/scores.db",
		RateLimitWindowMinutes:  10,
		LimiterSize:             50_000,
		MaxLeaderboardLimit:     100,
		DefaultLeaderboardLimit: 50,
	}
}
