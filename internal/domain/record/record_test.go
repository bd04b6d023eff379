package record_test

import (
	"fmt"
	"testing"

	"github.com/okian/seedline/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given raw record strings", t, func() {
		Convey("When the record is a plain W-L pair", func() {
			r := record.Parse("11-1")

			Convey("Then wins and losses are read", func() {
				So(r.Wins, ShouldEqual, 11)
				So(r.Losses, ShouldEqual, 1)
				So(r.Total(), ShouldEqual, 12)
			})
		})

		Convey("When the record carries a tie group", func() {
			r := record.Parse("7-4-1")

			Convey("Then the tie group is ignored", func() {
				So(r, ShouldResemble, record.Record{Wins: 7, Losses: 4})
			})
		})

		Convey("When the record is embedded in other text", func() {
			r := record.Parse("Overall 9-3, Conf 6-2")

			Convey("Then the first pair wins", func() {
				So(r, ShouldResemble, record.Record{Wins: 9, Losses: 3})
			})
		})

		Convey("When the record is malformed", func() {
			for _, raw := range []string{"TBD", "", "  ", "-", "10-", "a-b", "99999999999999999999-1"} {
				So(record.Parse(raw), ShouldResemble, record.Record{})
			}
		})

		Convey("When the record is 0-0", func() {
			So(record.Parse("0-0").IsZero(), ShouldBeTrue)
			So(record.Present("0-0"), ShouldBeFalse)
			So(record.Present("TBD"), ShouldBeFalse)
			So(record.Present("1-0"), ShouldBeTrue)
		})
	})
}

func TestParseRoundTrip(t *testing.T) {
	Convey("Given formatted records", t, func() {
		Convey("Then parsing the formatted string returns the original pair", func() {
			for w := 0; w <= 15; w++ {
				for l := 0; l <= 15; l++ {
					in := record.Record{Wins: w, Losses: l}
					So(record.Parse(in.String()), ShouldResemble, in)
				}
			}
			So(record.Parse(fmt.Sprint(record.Record{Wins: 12, Losses: 0})), ShouldResemble, record.Record{Wins: 12})
		})
	})
}
