package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/seedline/internal/domain/engine"
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/internal/domain/tables"
	. "github.com/smartystreets/goconvey/convey"
)

var conferences = []string{"SEC", "Big Ten", "Big 12", "ACC", "Sun Belt", "American"}

// sampleInputs builds n ranked teams with a live scoreboard and SOR feed.
func sampleInputs(n int) model.Inputs {
	var in model.Inputs
	live := model.RecordFeed{Name: "scoreboard", Authoritative: true}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%d", 1000+i)
		name := fmt.Sprintf("School %c Tigers", 'A'+i)
		in.Rankings = append(in.Rankings, model.RankingEntry{
			Team:       model.TeamRef{ID: id, Name: name, ShortName: fmt.Sprintf("School %c", 'A'+i), ConferenceHint: conferences[i%len(conferences)]},
			Rank:       model.OrdinalOf(i + 1),
			RecordHint: "0-0",
		})
		losses := i / 3
		live.Entries = append(live.Entries, model.RecordEntry{TeamID: id, Record: fmt.Sprintf("%d-%d", 12-losses, losses)})
		in.SOR = append(in.SOR, model.SOREntry{TeamName: name, SORRank: model.OrdinalOf(i + 1)})
	}
	in.RecordFeeds = []model.RecordFeed{live}
	return in
}

func TestEngine_Run(t *testing.T) {
	Convey("Given an engine over the shipped tables", t, func() {
		e, err := engine.New(tables.Default())
		So(err, ShouldBeNil)

		Convey("When evaluating twenty ranked teams", func() {
			res, err := e.Evaluate(sampleInputs(20))
			So(err, ShouldBeNil)

			Convey("Then both modes produce a full bracket with two next out", func() {
				for _, mode := range model.Modes {
					b := res.Brackets[mode]
					So(len(b.Seeds), ShouldEqual, model.BracketSize)
					So(len(b.NextOut), ShouldEqual, model.NextOutSize)
					seen := map[string]bool{}
					for i, s := range b.Seeds {
						So(s.Seed, ShouldEqual, i+1)
						So(seen[s.ID], ShouldBeFalse)
						seen[s.ID] = true
					}
				}
			})

			Convey("Then records come from the live feed", func() {
				So(res.Teams[0].Record, ShouldEqual, "12-0")
				So(res.Teams[0].Wins, ShouldEqual, 12)
				So(res.Teams[0].SOR, ShouldResemble, model.OrdinalOf(1))
			})

			Convey("Then Run agrees with Evaluate", func() {
				b, err := e.Run(sampleInputs(20), model.ModeFair)
				So(err, ShouldBeNil)
				So(b.Seeds[0].ID, ShouldEqual, res.Brackets[model.ModeFair].Seeds[0].ID)
			})
		})

		Convey("When the same team is ranked twice", func() {
			in := sampleInputs(14)
			in.Rankings = append(in.Rankings, in.Rankings[0])
			res, err := e.Evaluate(in)

			Convey("Then it is merged before seeding", func() {
				So(err, ShouldBeNil)
				So(res.Duplicates, ShouldEqual, 1)
				So(len(res.Teams), ShouldEqual, 14)
			})
		})
	})
}

func TestEngine_IdlessEntries(t *testing.T) {
	Convey("Given ranking entries where two distinct teams carry no id", t, func() {
		in := sampleInputs(14)
		in.Rankings[0].Team.ID = ""
		in.Rankings[13].Team.ID = ""

		Convey("When evaluating", func() {
			res, err := engine.Default().Evaluate(in)

			Convey("Then both teams survive dedupe and every mode seats all fourteen", func() {
				So(err, ShouldBeNil)
				So(res.Duplicates, ShouldEqual, 0)
				So(len(res.Teams), ShouldEqual, 14)
				for _, mode := range model.Modes {
					b := res.Brackets[mode]
					names := map[string]bool{}
					for _, t := range append(b.Seeds, b.NextOut...) {
						names[t.Name] = true
					}
					So(len(names), ShouldEqual, 14)
					So(names[in.Rankings[0].Team.Name], ShouldBeTrue)
					So(names[in.Rankings[13].Team.Name], ShouldBeTrue)
				}
			})
		})
	})
}

func TestEngine_Scenarios(t *testing.T) {
	Convey("Given two undefeated teams in one power conference", t, func() {
		a := model.Team{ID: "a", Name: "Alpha", Conference: "SEC", Record: "11-0", Rank: model.OrdinalOf(1)}
		b := model.Team{ID: "b", Name: "Beta", Conference: "SEC", Record: "12-0", Rank: model.OrdinalOf(2)}

		Convey("When computing the fair bracket", func() {
			br, err := engine.ComputeBracket([]model.Team{b, a}, model.ModeFair)

			Convey("Then the better-ranked team takes the auto-bid", func() {
				So(err, ShouldBeNil)
				So(br.Seeds[0].ID, ShouldEqual, "a")
				So(br.Seeds[0].AutoBid, ShouldBeTrue)
				So(br.Seeds[1].AutoBid, ShouldBeFalse)
			})
		})
	})

	Convey("Given teams with different records and SOR", t, func() {
		x := model.Team{ID: "x", Conference: "Big Ten", Record: "11-1", Wins: 11, Losses: 1, SOR: model.OrdinalOf(5)}
		y := model.Team{ID: "y", Conference: "Big Ten", Record: "9-3", Wins: 9, Losses: 3, SOR: model.OrdinalOf(40)}

		Convey("Then the better resume scores higher", func() {
			So(engine.ComputeFairScore(x), ShouldBeGreaterThan, engine.ComputeFairScore(y))
		})

		Convey("Then a G5 team scores 0.85 of its power twin", func() {
			g5 := x
			g5.Conference = "Mountain West"
			So(engine.ComputeFairScore(g5), ShouldAlmostEqual, engine.ComputeFairScore(x)*0.85, 1e-9)
		})
	})

	Convey("Given raw teams that repeat an id", t, func() {
		teams := []model.Team{
			{ID: "1", Name: "One", Record: "0-0", Conference: model.UnknownConference},
			{ID: "1", Name: "One", Record: "10-2", Conference: "ACC", Rank: model.OrdinalOf(4)},
		}

		Convey("Then ComputeBracket merges them instead of failing", func() {
			br, err := engine.ComputeBracket(teams, model.ModeDirect)
			So(err, ShouldBeNil)
			So(len(br.Seeds), ShouldEqual, 1)
			So(br.Seeds[0].Record, ShouldEqual, "10-2")
			So(br.Seeds[0].Wins, ShouldEqual, 10)
			So(br.Seeds[0].Conference, ShouldEqual, "ACC")
		})
	})

	Convey("Given a team known by id", t, func() {
		So(engine.ResolveConference(model.Team{ID: "252", Name: "BYU Cougars"}), ShouldEqual, "Big 12")
		So(engine.ResolveConference(model.Team{ID: "x", Name: "Boise State Broncos"}), ShouldEqual, "Mountain West")
		So(engine.ResolveConference(model.Team{ID: "y", Name: "Nowhere"}), ShouldEqual, model.UnknownConference)
	})
}

func TestEngine_New(t *testing.T) {
	Convey("Given invalid tables", t, func() {
		tb := tables.Default()
		tb.PowerConferences = nil
		_, err := engine.New(tb)
		So(errors.Is(err, tables.ErrInvalidTables), ShouldBeTrue)
		So(func() { engine.MustNew(tb) }, ShouldPanic)
	})

	Convey("Given a head-to-head result with an empty side", t, func() {
		tb := tables.Default()
		tb.HeadToHead = append(tb.HeadToHead, tables.Default().HeadToHead[0])
		tb.HeadToHead[len(tb.HeadToHead)-1].Loser = nil
		_, err := engine.New(tb)
		So(err, ShouldNotBeNil)
	})
}
