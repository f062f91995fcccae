package util

import (
	"testing"

	"github.com/adcue/adcue/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "break", "breaks"), ShouldEqual, "1 break")
		So(Quantify(2, "break", "breaks"), ShouldEqual, "2 breaks")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/preroll.toml"), ShouldEqual, "preroll")
		So(FileStem("file"), ShouldEqual, "file")
	})
}

func TestFormatMs(t *testing.T) {
	Convey("FormatMs", t, func() {
		So(FormatMs(0), ShouldEqual, "00:00")
		So(FormatMs(61999), ShouldEqual, "01:01")
		So(FormatMs(3723000), ShouldEqual, "1:02:03")
		So(FormatMs(-1), ShouldEqual, "--:--")
	})
}

func TestParseOffset(t *testing.T) {
	Convey("ParseOffset", t, func() {
		Convey("Should accept durations", func() {
			ms, err := ParseOffset("1m30s")
			So(err, ShouldBeNil)
			So(ms, ShouldEqual, 90000)
		})

		Convey("Should accept clocks and seconds", func() {
			ms, err := ParseOffset("1:02:03")
			So(err, ShouldBeNil)
			So(ms, ShouldEqual, 3723000)

			ms, err = ParseOffset("1.5")
			So(err, ShouldBeNil)
			So(ms, ShouldEqual, 1500)
		})

		Convey("Should reject garbage", func() {
			_, err := ParseOffset("soon")
			So(err, ShouldNotBeNil)

			_, err = ParseOffset("")
			So(err, ShouldNotBeNil)

			_, err = ParseOffset("-5s")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(7, 0, 5), ShouldEqual, 5)
		So(Clamp(-1, 0, 5), ShouldEqual, 0)
		So(Clamp(3, 0, 5), ShouldEqual, 3)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		So(filesystem.API().WriteFile("/tmp/adcue/a/b.txt", []byte("x"), 0o644), ShouldBeNil)

		So(Delete("/tmp/adcue/a"), ShouldBeNil)
		exists, err := filesystem.API().Exists("/tmp/adcue/a/b.txt")
		So(err, ShouldBeNil)
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/adcue/missing"), ShouldNotBeNil)
	})
}
