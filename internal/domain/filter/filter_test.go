package filter_test

import (
	"fmt"
	"testing"

	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/domain/filter"
	"github.com/okian/gridiron/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// dataset builds two seasons with a few games each. Drive numbers are
// deliberately not chronological within some games.
func dataset() []model.Play {
	var plays []model.Play
	seq := 0
	add := func(season, week int, game string, drives ...int) {
		for _, d := range drives {
			for i := 0; i < 3; i++ {
				seq++
				plays = append(plays, model.Play{
					Season: season, Week: week, GameID: game, DriveID: d, Sequence: seq,
					HomeTeam: "H" + game[len(game)-2:], AwayTeam: "A" + game[len(game)-2:],
					YardsGained: model.Float(float64(i)),
				})
			}
		}
	}
	add(2021, 1, "2021_01_AA", 1, 2, 3)
	add(2021, 1, "2021_01_BB", 2, 1)
	add(2021, 2, "2021_02_CC", 5, 4, 6)
	add(2022, 1, "2022_01_DD", 1)
	return plays
}

func engine() *filter.Engine {
	tbl, err := repository.NewTable(dataset(), repository.WithMetricsEnabled(false))
	if err != nil {
		panic(err)
	}
	return filter.NewEngine(tbl)
}

func TestGamesFor(t *testing.T) {
	Convey("Given an engine over a loaded table", t, func() {
		e := engine()

		Convey("When asking for every (season, week) present", func() {
			Convey("Then only games of that exact season and week should come back", func() {
				for _, season := range e.Seasons() {
					for _, week := range e.Weeks(season) {
						games := e.GamesFor(season, week)
						So(games, ShouldNotBeEmpty)
						for _, g := range games {
							So(g.Season, ShouldEqual, season)
							So(g.Week, ShouldEqual, week)
							for _, d := range e.DrivesFor(g.GameID) {
								for _, p := range e.PlaysFor(g.GameID, d) {
									So(p.Season, ShouldEqual, season)
									So(p.Week, ShouldEqual, week)
								}
							}
						}
					}
				}
			})
		})

		Convey("When asking for a week with two games", func() {
			games := e.GamesFor(2021, 1)

			Convey("Then they should be ordered by game id", func() {
				So(games, ShouldHaveLength, 2)
				So(games[0].GameID, ShouldEqual, "2021_01_AA")
				So(games[1].GameID, ShouldEqual, "2021_01_BB")
				So(games[1].HomeTeam, ShouldEqual, "HBB")
			})
		})

		Convey("When asking for a season and week with no rows", func() {
			games := e.GamesFor(2020, 1)

			Convey("Then the result should be empty, not an error", func() {
				So(games, ShouldNotBeNil)
				So(games, ShouldBeEmpty)
			})
		})
	})
}

func TestDrivesFor(t *testing.T) {
	Convey("Given an engine over a loaded table", t, func() {
		e := engine()

		Convey("Then drives should be ordered by their first play", func() {
			for _, id := range []string{"2021_01_AA", "2021_01_BB", "2021_02_CC", "2022_01_DD"} {
				drives := e.DrivesFor(id)
				So(drives, ShouldNotBeEmpty)
				prev := -1
				for _, d := range drives {
					first := e.PlaysFor(id, d)[0].Sequence
					So(first, ShouldBeGreaterThanOrEqualTo, prev)
					prev = first
				}
			}
			So(e.DrivesFor("2021_01_BB"), ShouldResemble, []int{2, 1})
			So(e.DrivesFor("2021_02_CC"), ShouldResemble, []int{5, 4, 6})
		})

		Convey("Then an unknown game should have no drives", func() {
			So(e.DrivesFor("1999_01_XX"), ShouldNotBeNil)
			So(e.DrivesFor("1999_01_XX"), ShouldBeEmpty)
		})
	})
}

func TestPlaysFor(t *testing.T) {
	Convey("Given an engine over a loaded table", t, func() {
		e := engine()

		Convey("Then plays should be ordered by sequence", func() {
			plays := e.PlaysFor("2021_02_CC", 4)
			So(plays, ShouldHaveLength, 3)
			for i := 1; i < len(plays); i++ {
				So(plays[i].Sequence, ShouldBeGreaterThan, plays[i-1].Sequence)
			}
		})

		Convey("Then unknown games or drives should yield no plays", func() {
			So(e.PlaysFor("2021_02_CC", 42), ShouldBeEmpty)
			So(e.PlaysFor("nope", 1), ShouldBeEmpty)
		})
	})
}

// unorderedSource returns data in the wrong order and with stray rows.
type unorderedSource struct{}

func (unorderedSource) Seasons() []int      { return []int{2022, 2021} }
func (unorderedSource) Weeks(int) []int     { return nil }
func (unorderedSource) Drives(string) []int { return nil }
func (unorderedSource) Results() []model.GameResult {
	return []model.GameResult{{Game: model.GameSummary{GameID: "b"}}, {Game: model.GameSummary{GameID: "a"}}}
}

func (unorderedSource) Game(id string) (model.GameSummary, bool) {
	return model.GameSummary{GameID: id}, true
}

func (unorderedSource) Games(season, week int) []model.GameSummary {
	return []model.GameSummary{
		{GameID: "z", Season: season, Week: week},
		{GameID: "stray", Season: season, Week: week + 1},
		{GameID: "a", Season: season, Week: week},
	}
}

func (unorderedSource) Plays(gameID string, driveID int) []model.Play {
	return []model.Play{
		{GameID: gameID, DriveID: driveID, Sequence: 9},
		{GameID: gameID, DriveID: driveID + 1, Sequence: 1},
		{GameID: gameID, DriveID: driveID, Sequence: 3},
	}
}

func TestEngineOverArbitrarySource(t *testing.T) {
	Convey("Given a source that does not keep its own ordering", t, func() {
		e := filter.NewEngine(unorderedSource{})

		Convey("Then the engine should still honor its ordering and containment", func() {
			games := e.GamesFor(2021, 3)
			So(fmt.Sprint(ids(games)), ShouldEqual, "[a z]")

			plays := e.PlaysFor("g", 1)
			So(plays, ShouldHaveLength, 2)
			So(plays[0].Sequence, ShouldEqual, 3)
			So(plays[1].Sequence, ShouldEqual, 9)

			So(e.Seasons(), ShouldResemble, []int{2021, 2022})
			So(e.Weeks(2021), ShouldResemble, []int{})
			So(e.DrivesFor("g"), ShouldResemble, []int{})
			So(e.Results()[0].Game.GameID, ShouldEqual, "a")
		})
	})
}

func ids(games []model.GameSummary) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.GameID
	}
	return out
}
