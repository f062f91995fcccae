package adbreak

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFromCuePoints(t *testing.T) {
	Convey("Given unordered cue points", t, func() {
		r := FromCuePoints([]int64{60000, 0, 30000})

		Convey("Breaks should be ordered ascending and unplayed", func() {
			breaks := r.Breaks()
			So(breaks, ShouldHaveLength, 3)
			So(breaks[0].PositionMs, ShouldEqual, 0)
			So(breaks[1].PositionMs, ShouldEqual, 30000)
			So(breaks[2].PositionMs, ShouldEqual, 60000)
			So(r.Unplayed(), ShouldHaveLength, 3)
		})

		Convey("Breaks should return a copy", func() {
			breaks := r.Breaks()
			breaks[0].Played = true
			So(r.Unplayed(), ShouldHaveLength, 3)
		})
	})

	Convey("Given cue points in seconds", t, func() {
		r := FromSeconds([]float64{0, 12.5, -1})

		Convey("They should be converted to milliseconds with post-rolls last", func() {
			breaks := r.Breaks()
			So(breaks[0].PositionMs, ShouldEqual, 0)
			So(breaks[1].PositionMs, ShouldEqual, 12500)
			So(breaks[2].PositionMs, ShouldEqual, int64(math.MaxInt64))
		})
	})

	Convey("A nil registry should behave as empty", t, func() {
		var r *Registry
		So(r.Len(), ShouldEqual, 0)
		So(r.MarkPlayed(0), ShouldBeFalse)
		So(r.PreviousUnplayedBefore(1000).IsAbsent(), ShouldBeTrue)
	})
}

func TestMarkPlayed(t *testing.T) {
	Convey("Given a registry", t, func() {
		r := FromCuePoints([]int64{0, 30000})

		Convey("Marking a registered break should succeed", func() {
			So(r.MarkPlayed(30000), ShouldBeTrue)
			So(r.At(30000).MustGet().Played, ShouldBeTrue)
			So(r.PlayedOffsets(), ShouldResemble, []int64{30000})
		})

		Convey("Marking an unknown offset should report false", func() {
			So(r.MarkPlayed(12345), ShouldBeFalse)
			So(r.PlayedOffsets(), ShouldBeEmpty)
		})

		Convey("MarkPlayedAll should ignore unknown offsets", func() {
			r.MarkPlayedAll([]int64{0, 99})
			So(r.PlayedOffsets(), ShouldResemble, []int64{0})
		})
	})
}

func TestPreviousUnplayedBefore(t *testing.T) {
	Convey("Given breaks at 0, 30s and 60s", t, func() {
		r := FromCuePoints([]int64{0, 30000, 60000})

		Convey("The nearest unplayed break at or before a position is returned", func() {
			So(r.PreviousUnplayedBefore(45000).MustGet().PositionMs, ShouldEqual, 30000)
			So(r.PreviousUnplayedBefore(30000).MustGet().PositionMs, ShouldEqual, 30000)
		})

		Convey("Played breaks are skipped", func() {
			r.MarkPlayed(30000)
			So(r.PreviousUnplayedBefore(45000).MustGet().PositionMs, ShouldEqual, 0)

			r.MarkPlayed(0)
			So(r.PreviousUnplayedBefore(45000).IsAbsent(), ShouldBeTrue)
		})

		Convey("Positions before the first break find nothing", func() {
			r.MarkPlayed(0)
			So(r.PreviousUnplayedBefore(10000).IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given duplicate cue points", t, func() {
		r := FromCuePoints([]int64{30000, 30000})

		Convey("The earliest registered entry wins", func() {
			r.MarkPlayed(30000)
			So(r.PlayedOffsets(), ShouldResemble, []int64{30000})
			So(r.PreviousUnplayedBefore(40000).MustGet().PositionMs, ShouldEqual, 30000)
		})
	})
}

func TestMarkers(t *testing.T) {
	Convey("Markers should mirror the breaks", t, func() {
		r := FromCuePoints([]int64{0, 30000})
		r.MarkPlayed(0)

		positions, played := r.Markers()
		So(positions, ShouldResemble, []int64{0, 30000})
		So(played, ShouldResemble, []bool{true, false})

		empty := FromCuePoints(nil)
		positions, played = empty.Markers()
		So(positions, ShouldBeNil)
		So(played, ShouldBeNil)
	})
}

func TestClone(t *testing.T) {
	Convey("A clone should not share played flags", t, func() {
		r := FromCuePoints([]int64{0, 30000})
		c := r.Clone()
		c.MarkPlayed(0)

		So(r.PlayedOffsets(), ShouldBeEmpty)
		So(c.PlayedOffsets(), ShouldResemble, []int64{0})

		var nilRegistry *Registry
		So(nilRegistry.Clone(), ShouldBeNil)
	})
}
