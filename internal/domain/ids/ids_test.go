package ids_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/okian/skillfolio/internal/domain/ids"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSources(t *testing.T) {
	Convey("Given id sources", t, func() {
		Convey("When drawing from the uuid source", func() {
			src := ids.UUID()
			a, b := src.NewID(), src.NewID()

			Convey("Then ids parse as distinct uuids", func() {
				So(a, ShouldNotEqual, b)
				_, err := uuid.Parse(a)
				So(err, ShouldBeNil)
			})
		})

		Convey("When drawing from a sequence", func() {
			src := ids.Sequence("n-")

			Convey("Then ids count up from one", func() {
				So(src.NewID(), ShouldEqual, "n-1")
				So(src.NewID(), ShouldEqual, "n-2")
			})
		})
	})
}
