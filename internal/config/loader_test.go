package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/brainmark/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		t.Setenv("BRAINMARK_CONFIG", "")

		// t.Setenv only restores at the end of the whole test, but Convey
		// re-runs this tree once per leaf; unset per-branch overrides after
		// each leaf so branches stay isolated.
		Reset(func() {
			os.Unsetenv("BRAINMARK_ADDR")
			os.Unsetenv("BRAINMARK_DB_PATH")
			os.Unsetenv("BRAINMARK_RATE_LIMIT_WINDOW_MINUTES")
		})

		Convey("When loading without overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then the defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.DBPath, ShouldEqual, "data/scores.db")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.RateLimitWindowMinutes, ShouldEqual, 10)
				So(cfg.LimiterSize, ShouldEqual, 50_000)
				So(cfg.MaxLeaderboardLimit, ShouldEqual, 100)
				So(cfg.DefaultLeaderboardLimit, ShouldEqual, 50)
			})
		})

		Convey("When env vars override defaults", func() {
			t.Setenv("BRAINMARK_ADDR", ":7070")
			t.Setenv("BRAINMARK_DB_PATH", "/tmp/test-scores.db")
			t.Setenv("BRAINMARK_RATE_LIMIT_WINDOW_MINUTES", "5")

			cfg, err := config.Load(context.Background())

			Convey("Then the env values win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.DBPath, ShouldEqual, "/tmp/test-scores.db")
				So(cfg.RateLimitWindowMinutes, ShouldEqual, 5)
				// Untouched keys keep their defaults.
				So(cfg.LogLevel, ShouldEqual, "info")
			})
		})

		Convey("When a YAML file is provided", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			So(os.WriteFile(path, []byte("addr: \":6060\"\nlog_level: debug\n"), 0o600), ShouldBeNil)
			t.Setenv("BRAINMARK_CONFIG", path)

			cfg, err := config.Load(context.Background())

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.LogLevel, ShouldEqual, "debug")
			})

			Convey("And env still beats the file", func() {
				t.Setenv("BRAINMARK_ADDR", ":5050")
				cfg, err := config.Load(context.Background())
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
			})
		})

		Convey("When the config file is missing", func() {
			t.Setenv("BRAINMARK_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			_, err := config.Load(context.Background())

			Convey("Then loading fails with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When a value is invalid", func() {
			t.Setenv("BRAINMARK_RATE_LIMIT_WINDOW_MINUTES", "0")
			_, err := config.Load(context.Background())

			Convey("Then validation rejects it", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
