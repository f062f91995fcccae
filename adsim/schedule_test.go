package adsim

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/network"
	. "github.com/smartystreets/goconvey/convey"
)

const twoBreaks = `
[[breaks]]
offset_ms = -1

  [[breaks.ads]]
  id = "post"
  duration_ms = 5000

[[breaks]]
offset_ms = 30000

  [[breaks.ads]]
  id = "mid-1"
  duration_ms = 10000

  [[breaks.ads]]
  id = "mid-2"
  duration_ms = 15000
  media_url = "https://cdn.example.com/ad.mp4"

[[breaks]]
offset_ms = 0
`

func TestParseSchedule(t *testing.T) {
	Convey("Given an inline schedule", t, func() {
		schedule, err := ParseSchedule(twoBreaks)

		Convey("It should parse without error", func() {
			So(err, ShouldBeNil)
		})

		Convey("Empty breaks should be dropped and post-rolls sorted last", func() {
			So(len(schedule.Breaks), ShouldEqual, 2)
			So(schedule.Breaks[0].OffsetMs, ShouldEqual, 30000)
			So(schedule.Breaks[1].PostRoll(), ShouldBeTrue)
		})

		Convey("Cue points should report the post-roll at the end of time", func() {
			So(schedule.CuePointsMs(), ShouldResemble, []int64{30000, math.MaxInt64})
		})

		Convey("Ad descriptors should carry pod information", func() {
			ad := schedule.ad(0, 1)
			So(ad.ID, ShouldEqual, "mid-2")
			So(ad.MediaURL, ShouldEqual, "https://cdn.example.com/ad.mp4")
			So(ad.Pod.TimeOffsetMs, ShouldEqual, 30000)
			So(ad.Pod.TotalAds, ShouldEqual, 2)
			So(ad.Pod.AdPosition, ShouldEqual, 2)
			So(ad.Pod.BreakDurationMs, ShouldEqual, 25000)
		})
	})

	Convey("Given an ad without a duration", t, func() {
		_, err := ParseSchedule("[[breaks]]\noffset_ms = 0\n[[breaks.ads]]\nid = \"x\"\n")

		Convey("It should be rejected", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "duration must be positive")
		})
	})

	Convey("Given malformed TOML", t, func() {
		_, err := ParseSchedule("[[breaks")

		Convey("It should fail to parse", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an ad without an ID", t, func() {
		schedule, err := ParseSchedule("[[breaks]]\noffset_ms = 0\n[[breaks.ads]]\nduration_ms = 1000\n")
		So(err, ShouldBeNil)

		Convey("It should be named after its position", func() {
			So(schedule.ad(0, 0).ID, ShouldEqual, "ad-0-0")
		})
	})
}

func TestLoadSchedule(t *testing.T) {
	Convey("Given schedule files on disk", t, func() {
		So(filesystem.API().WriteFile("/schedules/plain", []byte(twoBreaks), 0o644), ShouldBeNil)
		So(filesystem.API().WriteFile("/schedules/one.json", []byte(`{"breaks":[{"offset_ms":0,"ads":[{"id":"pre","duration_ms":1000}]}]}`), 0o644), ShouldBeNil)

		Convey("A file without extension should be read as TOML", func() {
			schedule, err := LoadSchedule("file:///schedules/plain")
			So(err, ShouldBeNil)
			So(len(schedule.Breaks), ShouldEqual, 2)
		})

		Convey("The format should follow the extension", func() {
			schedule, err := LoadSchedule("/schedules/one.json")
			So(err, ShouldBeNil)
			So(schedule.CuePointsMs(), ShouldResemble, []int64{0})
		})

		Convey("A missing file should fail", func() {
			_, err := LoadSchedule("/schedules/missing.toml")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFetchSchedule(t *testing.T) {
	Convey("Given a remote schedule server", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/tag":
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"breaks":[{"offset_ms":15000,"ads":[{"id":"mid","duration_ms":1000}]}]}`))
			case "/schedule.toml":
				_, _ = w.Write([]byte(twoBreaks))
			default:
				http.NotFound(w, r)
			}
		}))
		defer func() {
			server.Close()
			network.Client.CloseIdleConnections()
		}()

		Convey("The content type should select the format", func() {
			schedule, err := LoadSchedule(server.URL + "/tag")
			So(err, ShouldBeNil)
			So(schedule.CuePointsMs(), ShouldResemble, []int64{15000})
		})

		Convey("The extension should take precedence", func() {
			schedule, err := LoadSchedule(server.URL + "/schedule.toml")
			So(err, ShouldBeNil)
			So(len(schedule.Breaks), ShouldEqual, 2)
		})

		Convey("A missing tag should fail", func() {
			_, err := LoadSchedule(server.URL + "/nope")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("formatOf should fall back to TOML", t, func() {
		So(formatOf("https://ads.example.com/vmap", ""), ShouldEqual, "toml")
		So(formatOf("https://ads.example.com/vmap", "text/yaml"), ShouldEqual, "yaml")
		So(formatOf("https://ads.example.com/plan.yml?x=1", "application/json"), ShouldEqual, "yml")
	})
}
