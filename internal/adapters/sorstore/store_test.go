package sorstore_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/seedline/internal/adapters/sorstore"
	"github.com/okian/seedline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given a sqlite SOR store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "sor.db")

		s, err := sorstore.Open(ctx, "SQLite", path, sorstore.WithMaxOpenConns(1))
		So(err, ShouldBeNil)
		defer func() { _ = s.Close() }()
		So(s.Driver(), ShouldEqual, sorstore.DriverSQLite)
		So(s.EnsureSchema(ctx), ShouldBeNil)
		So(s.EnsureSchema(ctx), ShouldBeNil)

		Convey("When the table is empty", func() {
			rows, err := s.Lookup(ctx)

			Convey("Then no rows come back", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When rows are present", func() {
			raw, err := sql.Open("sqlite", path)
			So(err, ShouldBeNil)
			defer func() { _ = raw.Close() }()
			_, err = raw.Exec(`INSERT INTO team_sor (team_name, sor_rank, conference) VALUES
				('BYU', 7, 'Big 12'),
				('Army', NULL, NULL),
				('Tulane', 0, 'American')`)
			So(err, ShouldBeNil)

			rows, err := s.Lookup(ctx)

			Convey("Then ranks and hints are mapped and missing ranks are absent", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, []model.SOREntry{
					{TeamName: "Army"},
					{TeamName: "BYU", SORRank: model.OrdinalOf(7), ConferenceHint: "Big 12"},
					{TeamName: "Tulane", ConferenceHint: "American"},
				})
			})
		})
	})

	Convey("Given an unsupported driver", t, func() {
		_, err := sorstore.Open(context.Background(), "mysql", "x")
		So(errors.Is(err, sorstore.ErrUnsupportedDriver), ShouldBeTrue)
	})

	Convey("Given an empty dsn", t, func() {
		_, err := sorstore.Open(context.Background(), "postgres", " ")
		So(errors.Is(err, sorstore.ErrEmptyDSN), ShouldBeTrue)
	})
}
