package types_test

import (
	"testing"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given a feed entry", t, func() {
		Convey("When location was scored by distance", func() {
			e := types.Entry{JobID: "j-1", Score: 80}
			So(e.Badge(), ShouldEqual, "")
		})

		Convey("When location was scored by city", func() {
			e := types.Entry{Breakdown: model.MatchBreakdown{
				LocationMetadata: &model.LocationMetadata{Badge: "NEARBY"},
			}}
			So(e.Badge(), ShouldEqual, "NEARBY")
		})
	})
}

func TestSubmitResult(t *testing.T) {
	Convey("SubmitResult totals every outcome", t, func() {
		So(types.SubmitResult{Accepted: 3, Duplicate: 2, Rejected: 1}.Total(), ShouldEqual, 6)
	})
}
