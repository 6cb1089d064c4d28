package repository_test

import (
	"errors"
	"testing"

	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func play(season, week int, game string, drive, seq int) model.Play {
	return model.Play{
		Season: season, Week: week, GameID: game, DriveID: drive, Sequence: seq,
		HomeTeam: "KC", AwayTeam: "HOU",
	}
}

func fixture() []model.Play {
	last := play(2020, 1, "2020_01_HOU_KC", 2, 90)
	last.HomeScore, last.AwayScore, last.SpreadLine = model.Int(34), model.Int(20), model.Float(9.5)
	return []model.Play{
		play(2020, 1, "2020_01_HOU_KC", 2, 60),
		play(2020, 1, "2020_01_HOU_KC", 1, 40),
		play(2020, 1, "2020_01_HOU_KC", 1, 50),
		last,
		play(2020, 1, "2020_01_GB_MIN", 7, 5),
		play(2020, 2, "2020_02_KC_LAC", 1, 1),
		play(2019, 17, "2019_17_LAC_KC", 3, 12),
	}
}

func TestNewTable(t *testing.T) {
	Convey("Given a set of plays", t, func() {
		tbl, err := repository.NewTable(fixture(), repository.WithMetricsEnabled(false))
		So(err, ShouldBeNil)

		Convey("Then seasons and weeks should be sorted", func() {
			So(tbl.Len(), ShouldEqual, 7)
			So(tbl.Seasons(), ShouldResemble, []int{2019, 2020})
			So(tbl.Weeks(2020), ShouldResemble, []int{1, 2})
			So(tbl.Weeks(1999), ShouldBeEmpty)
		})

		Convey("Then games should be ordered by id", func() {
			games := tbl.Games(2020, 1)
			So(games, ShouldHaveLength, 2)
			So(games[0].GameID, ShouldEqual, "2020_01_GB_MIN")
			So(games[1].GameID, ShouldEqual, "2020_01_HOU_KC")
			So(games[1].HomeTeam, ShouldEqual, "KC")
			So(games[1].AwayTeam, ShouldEqual, "HOU")
		})

		Convey("Then drives should be in chronological order", func() {
			So(tbl.Drives("2020_01_HOU_KC"), ShouldResemble, []int{1, 2})
			So(tbl.Drives("nope"), ShouldBeEmpty)
		})

		Convey("Then plays should be ordered by sequence", func() {
			ps := tbl.Plays("2020_01_HOU_KC", 1)
			So(ps, ShouldHaveLength, 2)
			So(ps[0].Sequence, ShouldEqual, 40)
			So(ps[1].Sequence, ShouldEqual, 50)
			So(tbl.Plays("2020_01_HOU_KC", 99), ShouldBeEmpty)
		})

		Convey("Then results should carry the final score and spread", func() {
			results := tbl.Results()
			So(results, ShouldHaveLength, 4)
			var kc model.GameResult
			for _, r := range results {
				if r.Game.GameID == "2020_01_HOU_KC" {
					kc = r
				}
			}
			So(kc.HomeScore, ShouldEqual, 34)
			So(kc.AwayScore, ShouldEqual, 20)
			So(*kc.SpreadLine, ShouldEqual, 9.5)
		})

		Convey("Then returned slices should not alias the table", func() {
			ps := tbl.Plays("2020_01_HOU_KC", 1)
			ps[0].Sequence = -1
			So(tbl.Plays("2020_01_HOU_KC", 1)[0].Sequence, ShouldEqual, 40)

			seasons := tbl.Seasons()
			seasons[0] = 0
			So(tbl.Seasons()[0], ShouldEqual, 2019)
		})
	})
}

func scored(seq int, home, away *int) model.Play {
	p := play(2020, 3, "2020_03_DEN_PIT", 1, seq)
	p.HomeScore, p.AwayScore = home, away
	return p
}

func resultOf(plays []model.Play) model.GameResult {
	tbl, err := repository.NewTable(plays, repository.WithMetricsEnabled(false))
	So(err, ShouldBeNil)
	results := tbl.Results()
	So(results, ShouldHaveLength, 1)
	return results[0]
}

func TestFinalScore(t *testing.T) {
	Convey("Given a game whose plays arrive out of order", t, func() {
		plays := []model.Play{
			scored(30, model.Int(21), model.Int(17)),
			scored(10, model.Int(7), model.Int(3)),
			scored(20, model.Int(14), model.Int(3)),
		}

		Convey("Then the highest sequence decides the score", func() {
			r := resultOf(plays)
			So(r.HomeScore, ShouldEqual, 21)
			So(r.AwayScore, ShouldEqual, 17)
		})
	})

	Convey("Given a last play missing one score", t, func() {
		plays := []model.Play{
			scored(10, model.Int(7), model.Int(3)),
			scored(20, model.Int(14), model.Int(10)),
			scored(30, nil, model.Int(13)),
		}

		Convey("Then the latest play with both scores is used", func() {
			r := resultOf(plays)
			So(r.HomeScore, ShouldEqual, 14)
			So(r.AwayScore, ShouldEqual, 10)
		})
	})

	Convey("Given a game without score columns", t, func() {
		Convey("Then it should end 0-0", func() {
			r := resultOf([]model.Play{scored(1, nil, nil), scored(2, nil, nil)})
			So(r.HomeScore, ShouldEqual, 0)
			So(r.AwayScore, ShouldEqual, 0)
		})
	})
}

func TestNewTableRejections(t *testing.T) {
	Convey("Given plays that break the containment invariant", t, func() {
		plays := fixture()
		plays = append(plays,
			play(2021, 1, "2020_01_HOU_KC", 1, 77), // same game, other week
			play(2020, 1, "2020_01_HOU_KC", 3, 40), // duplicate play id
		)
		tbl, err := repository.NewTable(plays, repository.WithMetricsEnabled(false))
		So(err, ShouldBeNil)

		Convey("Then they should be rejected and counted", func() {
			r := tbl.Report()
			So(r.Accepted, ShouldEqual, 7)
			So(r.Rejected[repository.RejectSeasonConflict], ShouldEqual, 1)
			So(r.Rejected[repository.RejectDuplicatePlay], ShouldEqual, 1)
			So(r.RejectedTotal(), ShouldEqual, 2)
			So(tbl.Weeks(2021), ShouldBeEmpty)
			So(tbl.Drives("2020_01_HOU_KC"), ShouldResemble, []int{1, 2})
		})
	})

	Convey("Given no plays", t, func() {
		tbl, err := repository.NewTable(nil, repository.WithMetricsEnabled(false))

		Convey("Then building should fail", func() {
			So(tbl, ShouldBeNil)
			So(errors.Is(err, repository.ErrEmptyTable), ShouldBeTrue)
		})
	})
}

func TestDriveOrder(t *testing.T) {
	Convey("Given drives listed out of order", t, func() {
		plays := []model.Play{
			play(2020, 3, "g", 5, 10),
			play(2020, 3, "g", 4, 11),
			play(2020, 3, "g", 4, 2),
			play(2020, 3, "g", 6, 1),
		}
		tbl, err := repository.NewTable(plays, repository.WithMetricsEnabled(false))
		So(err, ShouldBeNil)

		Convey("Then drives should follow their first play", func() {
			So(tbl.Drives("g"), ShouldResemble, []int{6, 4, 5})
		})
	})
}
