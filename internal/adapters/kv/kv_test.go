package kv_test

import (
	"os"
	"path/filepath"
	"testing"

	kv "github.com/okian/brainmark/internal/adapters/kv"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemory(t *testing.T) {
	Convey("Given an in-memory KV", t, func() {
		store := kv.NewMemory()

		Convey("When reading a missing key", func() {
			_, ok, err := store.Get("missing")

			Convey("Then it should miss without error", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When setting and reading back", func() {
			So(store.Set("k", "v"), ShouldBeNil)
			val, ok, err := store.Get("k")

			Convey("Then the value should round-trip", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(val, ShouldEqual, "v")
			})

			Convey("And overwriting replaces the value", func() {
				So(store.Set("k", "v2"), ShouldBeNil)
				val, _, _ := store.Get("k")
				So(val, ShouldEqual, "v2")
			})

			Convey("And deleting removes it", func() {
				So(store.Delete("k"), ShouldBeNil)
				_, ok, _ := store.Get("k")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestFile(t *testing.T) {
	Convey("Given a file-backed KV", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "store.json")
		store, err := kv.NewFile(path)
		So(err, ShouldBeNil)

		Convey("When setting values", func() {
			So(store.Set("a", "1"), ShouldBeNil)
			So(store.Set("b", "2"), ShouldBeNil)

			Convey("Then a fresh handle over the same file sees them", func() {
				reopened, err := kv.NewFile(path)
				So(err, ShouldBeNil)

				val, ok, err := reopened.Get("a")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(val, ShouldEqual, "1")
			})

			Convey("And deleting persists too", func() {
				So(store.Delete("a"), ShouldBeNil)

				reopened, err := kv.NewFile(path)
				So(err, ShouldBeNil)
				_, ok, _ := reopened.Get("a")
				So(ok, ShouldBeFalse)
				_, ok, _ = reopened.Get("b")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the file is corrupt", func() {
			So(os.WriteFile(path, []byte("{broken"), 0o600), ShouldBeNil)
			reopened, err := kv.NewFile(path)

			Convey("Then the store starts over empty", func() {
				So(err, ShouldBeNil)
				_, ok, getErr := reopened.Get("a")
				So(getErr, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
