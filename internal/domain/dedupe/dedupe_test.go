package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/skillfolio/internal/domain/dedupe"
	"github.com/okian/skillfolio/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When an evidence id is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "ev-1")
			second := d.SeenAndRecord(ctx, "ev-1")

			Convey("Then only the second call reports it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "ev-1")
			d.Unrecord(ctx, "ev-1")
			d.Unrecord(ctx, "missing")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "ev-1"), ShouldBeFalse)
			})
		})

		Convey("When ids are scoped per session", func() {
			So(d.SeenAndRecord(ctx, dedupe.Key("s1", model.Hard, 0, "ev")), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.Key("s2", model.Hard, 0, "ev")), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.Key("s1", model.Hard, 0, "ev")), ShouldBeTrue)
		})

		Convey("When ids are scoped per category and epoch", func() {
			So(d.SeenAndRecord(ctx, dedupe.Key("s1", model.Hard, 0, "ev")), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.Key("s1", model.Soft, 0, "ev")), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.Key("s1", model.Hard, 1, "ev")), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.Key("s1", model.Hard, 1, "ev")), ShouldBeTrue)
		})
	})

	Convey("Given a bounded deduper at capacity", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"ev-1", "ev-2", "ev-3"} {
			So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
		}

		Convey("When one more id arrives", func() {
			So(d.SeenAndRecord(ctx, "ev-4"), ShouldBeFalse)

			Convey("Then the oldest id is evicted and the newer ones are kept", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "ev-3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "ev-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "ev-1"), ShouldBeFalse)
			})
		})

		Convey("When the oldest id was unrecorded first", func() {
			d.Unrecord(ctx, "ev-1")
			So(d.SeenAndRecord(ctx, "ev-4"), ShouldBeFalse)

			Convey("Then nothing else is evicted", func() {
				So(d.SeenAndRecord(ctx, "ev-2"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("ev-%d", i))
		}

		Convey("Then every id is kept", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "ev-0"), ShouldBeTrue)
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper shared by goroutines", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
		const workers, perWorker = 10, 100

		Convey("When each goroutine records the same ids", func() {
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				fresh int
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < perWorker; j++ {
						if !d.SeenAndRecord(context.Background(), fmt.Sprintf("ev-%d", j)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each id is reported new exactly once", func() {
				So(fresh, ShouldEqual, perWorker)
				So(d.Size(), ShouldEqual, perWorker)
			})
		})
	})
}
