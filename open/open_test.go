package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("Given advertiser urls", t, func() {
		Convey("Web urls should be accepted", func() {
			So(Validate("https://advertiser.example.com/landing?id=1"), ShouldBeNil)
			So(Validate("http://advertiser.example.com"), ShouldBeNil)
		})

		Convey("Other schemes should be refused", func() {
			So(Validate("file:///etc/passwd"), ShouldNotBeNil)
			So(Validate("javascript:alert(1)"), ShouldNotBeNil)
		})

		Convey("Relative urls should be refused", func() {
			So(Validate("/landing"), ShouldNotBeNil)
			So(Validate("https://"), ShouldNotBeNil)
		})

		Convey("URL should not launch anything for a refused target", func() {
			So(URL("ftp://example.com"), ShouldNotBeNil)
		})
	})
}
