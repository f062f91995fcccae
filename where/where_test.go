package where

import (
	"path/filepath"
	"testing"

	"github.com/adcue/adcue/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/override/adcue")
			So(Config(), ShouldEqual, "/override/adcue")
			So(Scenarios(), ShouldEqual, filepath.Join("/override/adcue", "scenarios"))
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Journal() lives in the cache directory", func() {
			So(filepath.Dir(Journal()), ShouldEqual, Cache())
		})
	})
}
