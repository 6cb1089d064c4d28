package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"

	"github.com/okian/gridiron/internal/adapters/dataset"
	"github.com/okian/gridiron/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const csvHeader = "play_id,game_id,home_team,away_team,season,week,posteam,drive,play_type,epa,yards_gained,wp,wpa\n"

// season2020 has two typed plays, one untyped play and one malformed row.
const season2020 = csvHeader +
	"1,2020_01_HOU_KC,KC,HOU,2020,1,HOU,1,pass,0.5,5,0.40,0.02\n" +
	"2,2020_01_HOU_KC,KC,HOU,2020,1,HOU,1,run,-0.2,-2,0.42,-0.01\n" +
	"3,2020_01_HOU_KC,KC,HOU,2020,1,,1,,NA,NA,NA,NA\n" +
	"4,2020_01_HOU_KC,KC,HOU,2020,1,HOU,1,pass,oops,1,0.4,0\n"

const season2021 = csvHeader +
	"1,2021_01_CLE_KC,KC,CLE,2021,1,CLE,1,run,0.3,4,0.5,0.02\n"

func bucket(files map[string]string) *blob.Bucket {
	b := memblob.OpenBucket(nil)
	for k, v := range files {
		if err := b.WriteAll(context.Background(), k, []byte(v), nil); err != nil {
			panic(err)
		}
	}
	return b
}

func TestConvert(t *testing.T) {
	Convey("Given a bucket with CSV season files", t, func() {
		ctx := context.Background()
		src := bucket(map[string]string{
			"pbp/nfl_2020.csv": season2020,
			"pbp/nfl_2021.csv": season2021,
			"pbp/notes.txt":    "ignored",
		})
		defer func() { _ = src.Close() }()
		dst := memblob.OpenBucket(nil)
		defer func() { _ = dst.Close() }()

		Convey("When converting every season", func() {
			stats, err := Convert(ctx, &Config{Prefix: "pbp/", Workers: 2}, src, dst)

			Convey("Then a parquet file should be written per season", func() {
				So(err, ShouldBeNil)
				So(len(stats.Files), ShouldEqual, 2)
				So(stats.Files[0].Target, ShouldEqual, "pbp/nfl_2020.parquet")
				So(stats.Files[0].Rows, ShouldEqual, 2)
				So(stats.Files[0].Dropped, ShouldEqual, 1)
				So(stats.Files[0].Rejected, ShouldEqual, 1)
				So(stats.Rows(), ShouldEqual, 3)
			})

			Convey("And the parquet files should load back", func() {
				data, err := dst.ReadAll(ctx, "pbp/nfl_2020.parquet")
				So(err, ShouldBeNil)
				plays, rejects, err := dataset.DecodeParquet(data)
				So(err, ShouldBeNil)
				So(rejects.Total(), ShouldEqual, 0)
				So(len(plays), ShouldEqual, 2)
				So(plays[0].PlayType, ShouldEqual, "pass")
				So(*plays[0].EPA, ShouldEqual, 0.5)
			})
		})

		Convey("When untyped rows are kept", func() {
			stats, err := Convert(ctx, &Config{Prefix: "pbp/", Seasons: []int{2020}, KeepUntyped: true}, src, dst)

			Convey("Then only the malformed row should be missing", func() {
				So(err, ShouldBeNil)
				So(len(stats.Files), ShouldEqual, 1)
				So(stats.Files[0].Rows, ShouldEqual, 3)
				So(stats.Files[0].Dropped, ShouldEqual, 0)
			})
		})

		Convey("When a target already exists", func() {
			So(dst.WriteAll(ctx, "pbp/nfl_2021.parquet", []byte("old"), nil), ShouldBeNil)

			Convey("Then it should be skipped", func() {
				stats, err := Convert(ctx, &Config{Prefix: "pbp/"}, src, dst)
				So(err, ShouldBeNil)
				So(stats.Skipped, ShouldResemble, []string{"pbp/nfl_2021.csv"})
				So(len(stats.Files), ShouldEqual, 1)
			})

			Convey("And overwrite should replace it", func() {
				stats, err := Convert(ctx, &Config{Prefix: "pbp/", Overwrite: true}, src, dst)
				So(err, ShouldBeNil)
				So(len(stats.Files), ShouldEqual, 2)
				data, err := dst.ReadAll(ctx, "pbp/nfl_2021.parquet")
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(data, []byte("PAR1")), ShouldBeTrue)
			})
		})

		Convey("When no season matches", func() {
			_, err := Convert(ctx, &Config{Prefix: "pbp/", Seasons: []int{1999}}, src, dst)

			Convey("Then it should report no sources", func() {
				So(errors.Is(err, ErrNoSources), ShouldBeTrue)
			})
		})
	})

	Convey("Given a season file with only untyped rows", t, func() {
		ctx := context.Background()
		src := bucket(map[string]string{"nfl_2022.csv": csvHeader + "1,g,KC,HOU,2022,1,,1,,NA,NA,NA,NA\n"})
		dst := memblob.OpenBucket(nil)

		Convey("Then converting should fail on the empty result", func() {
			_, err := Convert(ctx, &Config{}, src, dst)
			So(errors.Is(err, dataset.ErrEmptyDataset), ShouldBeTrue)
		})
	})

	Convey("Given a file missing required columns", t, func() {
		ctx := context.Background()
		src := bucket(map[string]string{"nfl_2023.csv": "game_id,epa\ng,0.1\n"})
		dst := memblob.OpenBucket(nil)

		Convey("Then converting should fail", func() {
			_, err := Convert(ctx, &Config{}, src, dst)
			So(errors.Is(err, dataset.ErrMissingColumn), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a local directory of CSV files", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "nfl_2021.csv"), []byte(season2021), 0o600), ShouldBeNil)

		Convey("When converting in place", func() {
			stats, err := Run(context.Background(), &Config{Src: "file://" + dir})

			Convey("Then the parquet file should sit next to the CSV", func() {
				So(err, ShouldBeNil)
				So(len(stats.Files), ShouldEqual, 1)
				_, statErr := os.Stat(filepath.Join(dir, "nfl_2021.parquet"))
				So(statErr, ShouldBeNil)
			})
		})

		Convey("When the source URL is invalid", func() {
			_, err := Run(context.Background(), &Config{Src: "nope://x"})

			Convey("Then it should fail to open", func() {
				So(errors.Is(err, dataset.ErrOpenSource), ShouldBeTrue)
			})
		})
	})
}

func TestParseSeasons(t *testing.T) {
	Convey("Given season lists", t, func() {
		Convey("Then single seasons and ranges should expand", func() {
			got, err := ParseSeasons(" 2019, 2021-2023 ,")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{2019, 2021, 2022, 2023})
		})

		Convey("And an empty list should mean all seasons", func() {
			got, err := ParseSeasons("")
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("And malformed values should be rejected", func() {
			for _, in := range []string{"twenty", "2020-", "2022-2020"} {
				_, err := ParseSeasons(in)
				So(errors.Is(err, ErrInvalidSeasons), ShouldBeTrue)
			}
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var buf strings.Builder
		ShowHelp(&buf)

		Convey("Then it should describe every flag", func() {
			for _, flag := range []string{"-src", "-dst", "-prefix", "-seasons", "-workers", "-keep-untyped", "-overwrite", "-help"} {
				So(buf.String(), ShouldContainSubstring, flag)
			}
		})
	})
}
