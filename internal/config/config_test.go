package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/gridiron/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8050")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogEncoding, convey.ShouldEqual, "json")
			convey.So(cfg.DatasetURL, convey.ShouldEqual, "file://./seasons")
			convey.So(cfg.DatasetSQLite, convey.ShouldBeEmpty)
			convey.So(cfg.Seasons, convey.ShouldBeEmpty)
			convey.So(cfg.LoadConcurrency, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.BigUpsetSpread, convey.ShouldEqual, 6.0)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "gridiron")
			convey.So(cfg.MetricsRefreshInterval, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("When both dataset sources are empty", func() {
			cfg.DatasetURL = ""
			cfg.DatasetSQLite = ""
			err := cfg.Validate()

			convey.Convey("Then it should be rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "dataset_url or dataset_sqlite")
			})
		})

		convey.Convey("When only the SQLite source is set", func() {
			cfg.DatasetURL = ""
			cfg.DatasetSQLite = "/tmp/plays.db"

			convey.Convey("Then it should be valid", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the big upset spread is negative", func() {
			cfg.BigUpsetSpread = -1

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the metrics namespace is not a metric name", func() {
			cfg.MetricsNamespace = "nfl-stats"

			convey.Convey("Then it should be rejected", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_namespace")
			})
		})

		convey.Convey("When the metrics refresh interval is zero", func() {
			cfg.MetricsRefreshInterval = 0

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a season is out of range", func() {
			cfg.Seasons = []int{2020, 20}

			convey.Convey("Then it should be rejected", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "season 20")
			})
		})
	})
}
