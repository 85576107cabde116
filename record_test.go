package qsim

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRecordedProperties(t *testing.T) {
	Convey("Given a recorded-properties specification", t, func() {
		Convey("It should assign stable ordinals and bitstring labels", func() {
			properties, err := ParseRecordedProperties("0,2", 2)
			So(err, ShouldBeNil)
			So(len(properties), ShouldEqual, 2)
			So(properties[0], ShouldResemble, Property{Ordinal: 0, Index: 0, Label: "00"})
			So(properties[1], ShouldResemble, Property{Ordinal: 1, Index: 2, Label: "10"})
		})

		Convey("It should expand inclusive ranges", func() {
			properties, err := ParseRecordedProperties("0-3", 2)
			So(err, ShouldBeNil)
			So(len(properties), ShouldEqual, 4)
			So(properties[3].Label, ShouldEqual, "11")
			So(properties[3].Ordinal, ShouldEqual, 3)
		})

		Convey("It should reject indices outside the register", func() {
			_, err := ParseRecordedProperties("4", 2)
			So(err, ShouldNotBeNil)
			So(err, ShouldHaveSameTypeAs, &ConfigurationError{})
		})

		Convey("It should reject malformed tokens and inverted ranges", func() {
			_, err := ParseRecordedProperties("abc", 2)
			So(err, ShouldNotBeNil)

			_, err = ParseRecordedProperties("3-1", 2)
			So(err, ShouldNotBeNil)
		})

		Convey("An empty specification should record nothing", func() {
			properties, err := ParseRecordedProperties("  ", 2)
			So(err, ShouldBeNil)
			So(properties, ShouldBeNil)
		})
	})
}
