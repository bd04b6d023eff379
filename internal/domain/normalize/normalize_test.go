package normalize_test

import (
	"testing"
	"time"

	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	older = time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC)
	newer = time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)
)

func TestNormalizer_Normalize(t *testing.T) {
	Convey("Given a normalizer with the default priority", t, func() {
		n := normalize.NewNormalizer()
		identity := model.Team{ID: "252", Name: "BYU Cougars", ShortName: "BYU", Rank: model.OrdinalOf(11)}

		Convey("When every source has a record", func() {
			got := n.Normalize(identity, []normalize.Candidate{
				{Source: normalize.SourceDefault, Record: "9-2"},
				{Source: normalize.SourceSecondary, Record: "10-2"},
				{Source: normalize.SourceLive, Record: "11-2"},
			})

			Convey("Then the live feed wins", func() {
				So(got.Record, ShouldEqual, "11-2")
				So(got.Wins, ShouldEqual, 11)
				So(got.Losses, ShouldEqual, 2)
			})
		})

		Convey("When a higher-priority source reports 0-0", func() {
			got := n.Normalize(identity, []normalize.Candidate{
				{Source: normalize.SourceLive, Record: "0-0"},
				{Source: normalize.SourceSecondary, Record: ""},
				{Source: normalize.SourceDefault, Record: "10-1"},
			})

			Convey("Then the degenerate value does not shadow a real record", func() {
				So(got.Record, ShouldEqual, "10-1")
			})
		})

		Convey("When no source has a record", func() {
			got := n.Normalize(identity, []normalize.Candidate{{Source: normalize.SourceLive, Record: "TBD"}})

			Convey("Then the team degrades to 0-0", func() {
				So(got.Record, ShouldEqual, "0-0")
				So(got.Wins+got.Losses, ShouldEqual, 0)
			})
		})

		Convey("When conference and SOR are spread over sources", func() {
			got := n.Normalize(identity, []normalize.Candidate{
				{Source: normalize.SourceDefault, Conference: "Independent", SOR: model.OrdinalOf(40)},
				{Source: normalize.SourceSOR, Conference: "Big 12", SOR: model.OrdinalOf(6)},
				{Source: normalize.SourceLive, Conference: model.UnknownConference},
			})

			Convey("Then the first present value in priority order wins", func() {
				So(got.Conference, ShouldEqual, "Big 12")
				So(got.SOR, ShouldResemble, model.OrdinalOf(6))
			})
		})

		Convey("When nothing carries a conference or SOR", func() {
			got := n.Normalize(identity, nil)
			So(got.Conference, ShouldEqual, model.UnknownConference)
			So(got.SOR.Valid(), ShouldBeFalse)
			So(got.Rank, ShouldResemble, model.OrdinalOf(11))
		})
	})

	Convey("Given an exception that prefers the most recent announcement", t, func() {
		n := normalize.NewNormalizer(normalize.WithExceptions([]normalize.Exception{
			{Name: "BYU", Aliases: []string{"byu", "brigham young"}, ByRecency: true},
		}))
		candidates := []normalize.Candidate{
			{Source: normalize.SourceLive, Record: "10-1", AsOf: older},
			{Source: normalize.SourceSecondary, Record: "11-1", AsOf: newer},
		}

		Convey("When the excepted team is normalized", func() {
			got := n.Normalize(model.Team{ID: "252", Name: "BYU Cougars"}, candidates)

			Convey("Then the newer secondary record wins", func() {
				So(got.Record, ShouldEqual, "11-1")
			})
		})

		Convey("When any other team is normalized", func() {
			got := n.Normalize(model.Team{ID: "254", Name: "Utah Utes"}, candidates)

			Convey("Then the documented priority applies", func() {
				So(got.Record, ShouldEqual, "10-1")
			})
		})
	})

	Convey("Given an exception with an explicit priority", t, func() {
		n := normalize.NewNormalizer(normalize.WithExceptions([]normalize.Exception{
			{Name: "Army", Aliases: []string{"army"}, Priority: []normalize.Source{normalize.SourceDefault, normalize.SourceLive}},
		}))
		got := n.Normalize(model.Team{ID: "349", Name: "Army Black Knights"}, []normalize.Candidate{
			{Source: normalize.SourceLive, Record: "9-2"},
			{Source: normalize.SourceDefault, Record: "10-2"},
		})
		So(got.Record, ShouldEqual, "10-2")
	})
}

func TestCollect(t *testing.T) {
	Convey("Given multi-source inputs", t, func() {
		entry := model.RankingEntry{
			Team:       model.TeamRef{ID: "252", Name: "BYU Cougars", ShortName: "BYU", ConferenceHint: "Big 12"},
			Rank:       model.OrdinalOf(9),
			RecordHint: "9-1",
		}
		in := model.Inputs{
			Rankings: []model.RankingEntry{entry},
			RecordFeeds: []model.RecordFeed{
				{Name: "scoreboard", Authoritative: true, Entries: []model.RecordEntry{
					{TeamID: "252", TeamName: "Someone Else", Record: "11-1", AsOf: newer},
					{TeamID: "254", TeamName: "BYU Cougars", Record: "3-8"},
				}},
				{Name: "history", Entries: []model.RecordEntry{
					{TeamID: "999", TeamName: "BYU Cougars", Record: "10-1", AsOf: older},
					{TeamID: "252", TeamName: "BYU", Record: "10-1", AsOf: older},
					{TeamName: "byu cougars", Record: "1-1"},
				}},
			},
			SOR: []model.SOREntry{
				{TeamName: "B.Y.U. cougars", SORRank: model.OrdinalOf(5), ConferenceHint: "Big 12"},
				{TeamName: "Utah", SORRank: model.OrdinalOf(30)},
			},
		}

		Convey("When collecting candidates", func() {
			got := normalize.Collect(entry, in)

			Convey("Then the live feed matches by id and others by exact name", func() {
				So(len(got), ShouldEqual, 5)
				So(got[0].Source, ShouldEqual, normalize.SourceLive)
				So(got[0].Record, ShouldEqual, "11-1")
				So(got[1].Source, ShouldEqual, normalize.SourceSecondary)
				So(got[2].Source, ShouldEqual, normalize.SourceSecondary)
				So(got[3].Source, ShouldEqual, normalize.SourceSOR)
				So(got[3].SOR, ShouldResemble, model.OrdinalOf(5))
				So(got[4].Source, ShouldEqual, normalize.SourceDefault)
				So(got[4].Record, ShouldEqual, "9-1")
			})
		})

		Convey("When normalizing every entry", func() {
			teams := normalize.NewNormalizer().NormalizeAll(in)

			Convey("Then one canonical team comes out per ranking entry", func() {
				So(len(teams), ShouldEqual, 1)
				So(teams[0].Record, ShouldEqual, "11-1")
				So(teams[0].Conference, ShouldEqual, "Big 12")
				So(teams[0].SOR, ShouldResemble, model.OrdinalOf(5))
				So(teams[0].Rank, ShouldResemble, model.OrdinalOf(9))
			})
		})
	})
}

func TestNameKey(t *testing.T) {
	Convey("Given name variants", t, func() {
		So(normalize.NameKey("Ohio State"), ShouldEqual, normalize.NameKey("ohio st."))
		So(normalize.NameKey("Miami (OH)"), ShouldNotEqual, normalize.NameKey("Miami"))
		So(normalize.NameKey("  "), ShouldEqual, "")
		So(normalize.FuzzyMatch("Texas A&M", model.TeamRef{Name: "Texas A&M Aggies", ShortName: "texas a & m"}), ShouldBeTrue)
	})
}
