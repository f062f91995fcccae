package log

import (
	"testing"

	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Log Setup", t, func() {
		Convey("Should stay disabled unless logs.write is set", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
			So(enabled, ShouldBeFalse)

			Convey("And With should still return a usable entry", func() {
				entry := With(Fields{"session": "x"})
				So(entry, ShouldNotBeNil)
				So(func() { entry.Info("dropped") }, ShouldNotPanic)
			})
		})

		Convey("Should open a log file when enabled", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "not-a-level")
			defer viper.Set(key.LogsWrite, false)

			So(Setup(), ShouldBeNil)
			So(enabled, ShouldBeTrue)
			So(func() { Infof("orchestrator %s", "ready") }, ShouldNotPanic)
			enabled = false
		})
	})
}
