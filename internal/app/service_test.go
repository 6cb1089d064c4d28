package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/gridiron/internal/adapters/dataset"
	service "github.com/okian/gridiron/internal/app"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/internal/domain/upsets"
	"github.com/okian/gridiron/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func p(season, week int, game string, drive, seq int, epa, yards float64, wp, wpAfter float64) model.Play {
	return model.Play{
		Season: season, Week: week, GameID: game, DriveID: drive, Sequence: seq,
		HomeTeam: "KC", AwayTeam: "HOU", PosTeam: "HOU",
		EPA: model.Float(epa), YardsGained: model.Float(yards),
		WP: model.Float(wp), WPAfter: model.Float(wpAfter),
	}
}

func fixture() []model.Play {
	final := p(2020, 1, "2020_01_HOU_KC", 2, 40, 0.3, 4, 0.2, 0.1)
	final.HomeScore, final.AwayScore, final.SpreadLine = model.Int(20), model.Int(34), model.Float(9.5)
	return []model.Play{
		p(2020, 1, "2020_01_HOU_KC", 1, 10, 0.5, 5, 0.40, 0.42),
		p(2020, 1, "2020_01_HOU_KC", 1, 11, -0.2, -2, 0.42, 0.41),
		p(2020, 1, "2020_01_HOU_KC", 1, 12, 1.1, 20, 0.41, 0.47),
		final,
		p(2020, 2, "2020_02_KC_LAC", 1, 1, 0.1, 3, 0.5, 0.51),
		p(2021, 1, "2021_01_CLE_KC", 5, 3, 0.1, 3, 0.5, 0.52),
	}
}

func started(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithPlays(fixture())}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.GetStats()["bigUpsetSpread"], ShouldEqual, upsets.DefaultBigSpread)
		})

		Convey("Then queries should return empty results", func() {
			ctx := context.Background()
			So(svc.Seasons(ctx), ShouldBeEmpty)
			So(svc.GamesFor(ctx, 2020, 1), ShouldBeEmpty)
			So(svc.DrivesFor(ctx, "x"), ShouldBeEmpty)
			So(svc.PlaysFor(ctx, "x", 1), ShouldBeEmpty)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithPlays(fixture()),
			service.WithBigUpsetSpread(3),
			service.WithLogger(logger.Nop()),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["bigUpsetSpread"], ShouldEqual, 3.0)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service without a source", t, func() {
		svc := service.New()

		Convey("When starting it", func() {
			err := svc.Start(context.Background())

			Convey("Then it should refuse to start", func() {
				So(errors.Is(err, service.ErrNoSource), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service whose source is empty", t, func() {
		svc := service.New(service.WithSource(dataset.StaticSource{}))

		Convey("When starting it", func() {
			err := svc.Start(context.Background())

			Convey("Then it should fail fast", func() {
				So(errors.Is(err, service.ErrLoadDataset), ShouldBeTrue)
				So(errors.Is(err, dataset.ErrEmptyDataset), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with plays", t, func() {
		svc := service.New(service.WithPlays(fixture()))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["plays"], ShouldEqual, 6)
				So(stats["games"], ShouldEqual, 3)
				So(stats["classifiedGames"], ShouldEqual, 1)
				So(stats["upsets"], ShouldEqual, 1)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Seasons(context.Background()), ShouldBeEmpty)
			})

			Convey("And stopping twice should be safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then seasons, weeks and games should be listed", func() {
			So(svc.Seasons(ctx), ShouldResemble, []int{2020, 2021})
			So(svc.Weeks(ctx, 2020), ShouldResemble, []int{1, 2})
			games := svc.GamesFor(ctx, 2020, 1)
			So(games, ShouldHaveLength, 1)
			So(games[0].Label, ShouldEqual, "HOU @ KC (Week 01, 2020)")
			So(svc.GamesFor(ctx, 2019, 1), ShouldBeEmpty)
		})

		Convey("Then drives should be summarized and labeled", func() {
			drives := svc.DrivesFor(ctx, "2020_01_HOU_KC")
			So(drives, ShouldHaveLength, 2)
			So(drives[0].DriveID, ShouldEqual, 1)
			So(drives[0].Plays, ShouldEqual, 3)
			So(drives[0].NetEPA, ShouldAlmostEqual, 1.4, 1e-9)
			So(drives[0].TotalYards, ShouldEqual, 23)
			So(drives[0].Label, ShouldStartWith, "Drive 1 - Plays: 3 | EPA: 1.4 |")
		})

		Convey("Then a drive summary and its series should agree", func() {
			sum := svc.Summary(ctx, "2020_01_HOU_KC", 1)
			So(*sum.StartWP, ShouldEqual, 0.40)
			So(*sum.EndWP, ShouldEqual, 0.47)
			series := svc.WinProbability(ctx, "2020_01_HOU_KC", 1)
			So(series, ShouldHaveLength, 3)
			So(*series[2].WP, ShouldEqual, *sum.EndWP)
		})

		Convey("Then an unknown drive should summarize to zeros", func() {
			sum := svc.Summary(ctx, "2020_01_HOU_KC", 99)
			So(sum.Plays, ShouldEqual, 0)
			So(sum.StartWP, ShouldBeNil)
			So(sum.DriveID, ShouldEqual, 99)
			So(svc.WinProbability(ctx, "nope", 1), ShouldBeEmpty)
		})

		Convey("Then upsets should be classified", func() {
			list := svc.Upsets(ctx, upsets.KindUpsets, 0)
			So(list, ShouldHaveLength, 1)
			So(list[0].ExpectedWinner, ShouldEqual, "KC")
			So(list[0].ActualWinner, ShouldEqual, "HOU")
			So(list[0].BigHomeUpset, ShouldBeTrue)
			So(svc.Upsets(ctx, upsets.KindAwayUpsets, 0), ShouldBeEmpty)
			So(svc.UpsetReport(ctx).Upsets, ShouldEqual, 1)
		})

		Convey("Then a game lookup should find known games only", func() {
			g, ok := svc.Game(ctx, "2021_01_CLE_KC")
			So(ok, ShouldBeTrue)
			So(g.Season, ShouldEqual, 2021)
			_, ok = svc.Game(ctx, "nope")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestService_UpsetGame(t *testing.T) {
	Convey("Given a started service with one upset", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When the upset is opened without a drive", func() {
			g := svc.UpsetGame(ctx, types.Selection{GameID: "2020_01_HOU_KC"})

			Convey("Then its drives should be seen from the winner's side", func() {
				So(g, ShouldNotBeNil)
				So(g.Team, ShouldEqual, "HOU")
				So(g.Classification.Result, ShouldEqual, model.Upset)
				So(g.Drives, ShouldHaveLength, 2)
				So(g.Drives[0].DriveID, ShouldEqual, 1)
				So(*g.Drives[0].StartWP, ShouldEqual, 0.40)
				So(*g.Drives[0].EndWP, ShouldEqual, 0.47)
				So(*g.Drives[0].WPChange, ShouldEqual, 0.07)
				So(g.Drives[0].Yards, ShouldEqual, 23)
				So(g.Drives[1].HomeScore, ShouldEqual, 20)
				So(g.Drives[1].AwayScore, ShouldEqual, 34)
				So(g.Plays, ShouldBeEmpty)
			})
		})

		Convey("When a drive is picked", func() {
			g := svc.UpsetGame(ctx, types.Selection{GameID: "2020_01_HOU_KC", DriveID: 1, HasDrive: true})

			Convey("Then its plays should be listed in order", func() {
				So(g.Plays, ShouldHaveLength, 3)
				So(g.Plays[0].Sequence, ShouldEqual, 10)
				So(g.Plays[2].Sequence, ShouldEqual, 12)
			})
		})

		Convey("When the game was never classified", func() {
			Convey("Then nothing should be returned", func() {
				So(svc.UpsetGame(ctx, types.Selection{GameID: "2021_01_CLE_KC"}), ShouldBeNil)
				So(svc.UpsetGame(ctx, types.Selection{GameID: "nope"}), ShouldBeNil)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		Convey("Then no upset game should be returned", func() {
			So(service.New().UpsetGame(context.Background(), types.Selection{GameID: "2020_01_HOU_KC"}), ShouldBeNil)
		})
	})
}

func TestService_Explore(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When nothing is selected", func() {
			x := svc.Explore(ctx, types.Selection{})

			Convey("Then only seasons should be offered", func() {
				So(x.Seasons, ShouldResemble, []int{2020, 2021})
				So(x.Weeks, ShouldBeEmpty)
				So(x.Games, ShouldBeEmpty)
			})
		})

		Convey("When a full selection is made", func() {
			x := svc.Explore(ctx, types.Selection{Season: 2020, Week: 1, GameID: "2020_01_HOU_KC", DriveID: 1, HasDrive: true})

			Convey("Then every level should be filled", func() {
				So(x.Weeks, ShouldResemble, []int{1, 2})
				So(x.Games, ShouldHaveLength, 1)
				So(x.Drives, ShouldHaveLength, 2)
				So(x.Plays, ShouldHaveLength, 3)
				So(x.Summary, ShouldNotBeNil)
				So(x.Summary.Plays, ShouldEqual, 3)
				So(x.Series, ShouldHaveLength, 3)
			})
		})

		Convey("When the game does not belong to the selected week", func() {
			x := svc.Explore(ctx, types.Selection{Season: 2020, Week: 2, GameID: "2020_01_HOU_KC", DriveID: 1, HasDrive: true})

			Convey("Then drives and plays should stay empty", func() {
				So(x.Games, ShouldHaveLength, 1)
				So(x.Drives, ShouldBeEmpty)
				So(x.Plays, ShouldBeEmpty)
				So(x.Summary, ShouldBeNil)
			})
		})

		Convey("When an unknown drive is selected", func() {
			x := svc.Explore(ctx, types.Selection{Season: 2020, Week: 1, GameID: "2020_01_HOU_KC", DriveID: 42, HasDrive: true})

			Convey("Then the drive level should be empty", func() {
				So(x.Drives, ShouldHaveLength, 2)
				So(x.Plays, ShouldBeEmpty)
				So(x.Summary, ShouldBeNil)
				So(x.Series, ShouldBeEmpty)
			})
		})
	})
}
