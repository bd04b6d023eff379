package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/seedline/internal/adapters/repository"
	"github.com/okian/seedline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func cycle(id string, at time.Time) repository.Cycle {
	return repository.Cycle{
		ID:         id,
		ComputedAt: at,
		Brackets: map[model.Mode]model.Bracket{
			model.ModeFair:   {Mode: model.ModeFair, Seeds: []model.Team{{ID: id + "-fair", Seed: 1}}},
			model.ModeDirect: {Mode: model.ModeDirect, Seeds: []model.Team{{ID: id + "-direct", Seed: 1}}},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 12, 7, 18, 0, 0, 0, time.UTC)

	Convey("Given an empty store", t, func() {
		s := repository.NewMemoryStore()

		Convey("Then nothing is found", func() {
			_, err := s.Get(ctx, model.ModeFair)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(s.Latest(ctx), ShouldEqual, "")
		})

		Convey("Then an empty cycle is rejected", func() {
			err := s.Publish(ctx, repository.Cycle{ID: "c0", ComputedAt: t0})
			So(errors.Is(err, repository.ErrEmptyCycle), ShouldBeTrue)
		})

		Convey("When a cycle is published", func() {
			So(s.Publish(ctx, cycle("c1", t0)), ShouldBeNil)

			Convey("Then both modes come from that cycle", func() {
				fair, err := s.Get(ctx, model.ModeFair)
				So(err, ShouldBeNil)
				direct, err := s.Get(ctx, model.ModeDirect)
				So(err, ShouldBeNil)
				So(fair.CycleID, ShouldEqual, "c1")
				So(direct.CycleID, ShouldEqual, "c1")
				So(fair.Bracket.Seeds[0].ID, ShouldEqual, "c1-fair")
				So(fair.Stale, ShouldBeFalse)
				So(s.Latest(ctx), ShouldEqual, "c1")
			})

			Convey("And an older cycle arrives late", func() {
				err := s.Publish(ctx, cycle("c0", t0.Add(-time.Minute)))

				Convey("Then it is rejected and the newer snapshot stays", func() {
					So(errors.Is(err, repository.ErrStaleCycle), ShouldBeTrue)
					So(s.Latest(ctx), ShouldEqual, "c1")
				})
			})

			Convey("And the next cycle fails", func() {
				s.MarkFailed(ctx, errors.New("rankings unavailable"))

				Convey("Then the previous snapshot is kept and flagged", func() {
					snap, err := s.Get(ctx, model.ModeDirect)
					So(err, ShouldBeNil)
					So(snap.CycleID, ShouldEqual, "c1")
					So(snap.Stale, ShouldBeTrue)
					So(snap.LastError, ShouldEqual, "rankings unavailable")
				})

				Convey("Then a later success clears the flag", func() {
					So(s.Publish(ctx, cycle("c2", t0.Add(time.Minute))), ShouldBeNil)
					snap, _ := s.Get(ctx, model.ModeDirect)
					So(snap.Stale, ShouldBeFalse)
					So(snap.LastError, ShouldEqual, "")
				})
			})
		})
	})

	Convey("Given concurrent publishers and readers", t, func() {
		s := repository.NewMemoryStore()
		So(s.Publish(ctx, cycle("seed", t0)), ShouldBeNil)

		var wg sync.WaitGroup
		mixed := make(chan string, 100)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					id := string(rune('a'+i)) + string(rune('a'+j))
					_ = s.Publish(ctx, cycle(id, t0.Add(time.Duration(j)*time.Second)))
				}
			}(i)
		}
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					fair, err1 := s.Get(ctx, model.ModeFair)
					direct, err2 := s.Get(ctx, model.ModeDirect)
					if err1 != nil || err2 != nil {
						mixed <- "missing"
						continue
					}
					if fair.Bracket.Seeds[0].ID != fair.CycleID+"-fair" || direct.Bracket.Seeds[0].ID != direct.CycleID+"-direct" {
						mixed <- fair.CycleID
					}
				}
			}()
		}
		wg.Wait()
		close(mixed)

		Convey("Then every snapshot is internally consistent", func() {
			So(len(mixed), ShouldEqual, 0)
		})
	})
}
