package bestscore_test

import (
	"testing"

	kv "github.com/okian/brainmark/internal/adapters/kv"
	bestscore "github.com/okian/brainmark/internal/domain/bestscore"
	types "github.com/okian/brainmark/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsBetter(t *testing.T) {
	Convey("Given the per-type score orderings", t, func() {
		current := func(v float64) *float64 { return &v }

		Convey("Then any score beats the absence of a best", func() {
			So(bestscore.IsBetter(types.Reaction, 999, nil), ShouldBeTrue)
			So(bestscore.IsBetter(types.Typing, 1, nil), ShouldBeTrue)
		})

		Convey("Then reaction prefers strictly lower times", func() {
			So(bestscore.IsBetter(types.Reaction, 180, current(200)), ShouldBeTrue)
			So(bestscore.IsBetter(types.Reaction, 200, current(200)), ShouldBeFalse)
			So(bestscore.IsBetter(types.Reaction, 220, current(200)), ShouldBeFalse)
		})

		Convey("Then other types prefer strictly higher scores", func() {
			So(bestscore.IsBetter(types.Typing, 80, current(70)), ShouldBeTrue)
			So(bestscore.IsBetter(types.Typing, 70, current(70)), ShouldBeFalse)
			So(bestscore.IsBetter(types.Typing, 60, current(70)), ShouldBeFalse)
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given a best-score store over in-memory KV", t, func() {
		store := bestscore.New(kv.NewMemory())

		Convey("When no best has been recorded", func() {
			_, ok := store.Best(types.Typing)

			Convey("Then lookup should miss", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When saving a first score", func() {
			saved := store.Save(types.Typing, 55)

			Convey("Then it should become the best", func() {
				So(saved, ShouldBeTrue)
				best, ok := store.Best(types.Typing)
				So(ok, ShouldBeTrue)
				So(best.Score, ShouldEqual, 55)
				So(best.TestType, ShouldEqual, types.Typing)
				So(best.Date.IsZero(), ShouldBeFalse)
			})

			Convey("And saving a worse score twice", func() {
				first := store.Save(types.Typing, 40)
				second := store.Save(types.Typing, 40)

				Convey("Then both attempts report no new best and leave it untouched", func() {
					So(first, ShouldBeFalse)
					So(second, ShouldBeFalse)
					best, _ := store.Best(types.Typing)
					So(best.Score, ShouldEqual, 55)
				})
			})

			Convey("And saving a better score", func() {
				saved := store.Save(types.Typing, 80)

				Convey("Then the best should move", func() {
					So(saved, ShouldBeTrue)
					best, _ := store.Best(types.Typing)
					So(best.Score, ShouldEqual, 80)
				})
			})

			Convey("And saving a reaction time", func() {
				store.Save(types.Reaction, 300)
				store.Save(types.Reaction, 250)
				store.Save(types.Reaction, 400)

				Convey("Then each type keeps its own best under its own ordering", func() {
					reaction, _ := store.Best(types.Reaction)
					So(reaction.Score, ShouldEqual, 250)
					typing, _ := store.Best(types.Typing)
					So(typing.Score, ShouldEqual, 55)
				})
			})
		})

		Convey("When clearing", func() {
			store.Save(types.Typing, 55)
			store.Save(types.Reaction, 300)
			store.Clear()

			Convey("Then every best should be gone", func() {
				_, ok := store.Best(types.Typing)
				So(ok, ShouldBeFalse)
				_, ok = store.Best(types.Reaction)
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a store without a KV backend", t, func() {
		store := bestscore.New(nil)

		Convey("When saving and reading", func() {
			saved := store.Save(types.Typing, 55)
			_, ok := store.Best(types.Typing)

			Convey("Then tracking degrades to a no-op", func() {
				So(saved, ShouldBeFalse)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestStoreCorruptPayload(t *testing.T) {
	Convey("Given a KV holding a corrupt best-score document", t, func() {
		backend := kv.NewMemory()
		So(backend.Set("brain-mark-best-scores", "{not json"), ShouldBeNil)
		store := bestscore.New(backend)

		Convey("When reading and writing", func() {
			_, ok := store.Best(types.Typing)
			saved := store.Save(types.Typing, 55)

			Convey("Then the store starts over instead of failing", func() {
				So(ok, ShouldBeFalse)
				So(saved, ShouldBeTrue)
				best, ok := store.Best(types.Typing)
				So(ok, ShouldBeTrue)
				So(best.Score, ShouldEqual, 55)
			})
		})
	})
}
