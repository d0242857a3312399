package logger_test

import (
	"context"
	"errors"
	"testing"

	logger "github.com/okian/brainmark/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When getting the global instance", func() {
			log := logger.Get()

			Convey("Then it should be usable at every level", func() {
				So(log, ShouldNotBeNil)
				ctx := context.Background()
				log.Debug(ctx, "debug message")
				log.Info(ctx, "info message", logger.String("k", "v"))
				log.Warn(ctx, "warn message", logger.Int("n", 1))
				log.Error(ctx, "error message", logger.Error(errors.New("boom")))
			})
		})

		Convey("When deriving a named logger", func() {
			named := logger.Named("repository")

			Convey("Then it should still log", func() {
				So(named, ShouldNotBeNil)
				named.Info(context.Background(), "named message")
			})
		})

		Convey("When setting levels from strings", func() {
			Convey("Then known names are accepted", func() {
				for _, level := range []string{"debug", "info", "warn", "warning", "error", "DEBUG", ""} {
					So(logger.SetLevelString(level), ShouldBeNil)
				}
			})

			Convey("Then unknown names are rejected", func() {
				So(logger.SetLevelString("verbose"), ShouldNotBeNil)
			})
		})
	})

	Convey("Given field constructors", t, func() {
		Convey("Then they carry key and value through", func() {
			So(logger.String("a", "b").Key, ShouldEqual, "a")
			So(logger.Int("n", 3).Value, ShouldEqual, 3)
			So(logger.Int64("n", 3).Value, ShouldEqual, int64(3))
			So(logger.Float64("f", 1.5).Value, ShouldEqual, 1.5)
			So(logger.Any("x", true).Value, ShouldEqual, true)
			So(logger.Error(errors.New("boom")).Key, ShouldEqual, "error")
		})
	})
}
