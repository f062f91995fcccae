package position

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type fakePlayback struct {
	positionMs int64
	seeks      []int64
}

func (f *fakePlayback) CurrentPositionMs() int64 {
	return f.positionMs
}

func (f *fakePlayback) Seek(positionMs int64) error {
	f.seeks = append(f.seeks, positionMs)
	f.positionMs = positionMs
	return nil
}

func TestTracker(t *testing.T) {
	Convey("Given a tracker and a playback at 42s", t, func() {
		tracker := NewTracker()
		playback := &fakePlayback{positionMs: 42000}

		Convey("Save followed by Restore should not move the playback", func() {
			So(tracker.Save(ModeContent, playback), ShouldEqual, 42000)

			restored, err := tracker.Restore(ModeContent, playback)
			So(err, ShouldBeNil)
			So(restored, ShouldEqual, 42000)
			So(playback.positionMs, ShouldEqual, 42000)
		})

		Convey("Restore without Save should seek to zero", func() {
			restored, err := tracker.Restore(ModeContent, playback)
			So(err, ShouldBeNil)
			So(restored, ShouldEqual, 0)
			So(playback.seeks, ShouldResemble, []int64{0})
		})

		Convey("Content and ad offsets should be independent", func() {
			tracker.Save(ModeContent, playback)
			playback.positionMs = 5000
			tracker.Save(ModeAdLinear, playback)

			So(tracker.Saved(ModeContent), ShouldEqual, 42000)
			So(tracker.Saved(ModeAdLinear), ShouldEqual, 5000)
			So(tracker.Saved(ModeAdInteractive), ShouldEqual, 5000)
		})

		Convey("Set and Reset should override the slots", func() {
			tracker.Set(ModeContent, 90000)
			So(tracker.Saved(ModeContent), ShouldEqual, 90000)

			tracker.Reset()
			So(tracker.Saved(ModeContent), ShouldEqual, 0)
			So(tracker.Saved(ModeAdLinear), ShouldEqual, 0)
		})
	})
}

func TestMode(t *testing.T) {
	Convey("Modes should render and classify", t, func() {
		So(ModeContent.String(), ShouldEqual, "content")
		So(ModeAdLinear.String(), ShouldEqual, "ad-linear")
		So(ModeAdInteractive.String(), ShouldEqual, "ad-interactive")
		So(ModeContent.IsAd(), ShouldBeFalse)
		So(ModeAdInteractive.IsAd(), ShouldBeTrue)
	})
}
