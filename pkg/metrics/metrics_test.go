package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the default refresh interval", func() {
				So(manager, ShouldNotBeNil)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("nfl"),
				WithRefreshInterval(3*time.Second),
				WithPrometheusRegistry(registry),
			)
			manager.datasetRows.Set(42)

			Convey("Then metric names should carry the namespace", func() {
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "nfl_explorer_dataset_rows" {
						found = true
						So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 42.0)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When blank or zero options are given", func() {
			manager := NewManager(WithNamespace("  "), WithRefreshInterval(0), WithPrometheusRegistry(nil))

			Convey("Then the defaults should stay", func() {
				So(manager.namespace, ShouldEqual, "gridiron")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.registry, ShouldEqual, prometheus.DefaultRegisterer)
			})
		})

		Convey("When creating a disabled manager", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))
			manager.datasetRows.Set(1)

			Convey("Then nothing should be registered on the given registry", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording dataset metrics", func() {
			UpdateDatasetFiles(3)
			UpdateDatasetRows(1200)
			UpdateDatasetRowsRejected("invalid_epa", 4)
			UpdateDatasetShape(2, 30)
			RecordDatasetLoadDuration(250)
			RecordFileDecodeDuration("csv", 12.5)

			Convey("Then gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.datasetRows), ShouldEqual, 1200.0)
				So(testutil.ToFloat64(globalManager.datasetFiles), ShouldEqual, 3.0)
				So(testutil.ToFloat64(globalManager.datasetRowsRejected.WithLabelValues("invalid_epa")), ShouldEqual, 4.0)
				So(testutil.ToFloat64(globalManager.datasetGames), ShouldEqual, 30.0)
			})
		})

		Convey("When recording query metrics", func() {
			before := testutil.ToFloat64(globalManager.queryEmptyResults.WithLabelValues("games_for"))
			RecordQueryEmpty("games_for")
			RecordQueryLatency("games_for", 0.2)
			RecordPageRender("explorer")

			Convey("Then counters should increase", func() {
				So(testutil.ToFloat64(globalManager.queryEmptyResults.WithLabelValues("games_for")), ShouldEqual, before+1)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("seasons", "GET", "200")
				RecordHTTPRequestDuration("seasons", "GET", "200", 1.5)
				RecordErrorByComponent("dataset", "decode")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("plays", "GET", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				RecordDatasetLoadError()
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the registry should expose the gridiron namespace", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "gridiron_explorer_"), ShouldBeTrue)
			}
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Reset(func() { Configure() })

		Convey("When configured with another namespace", func() {
			Configure(WithNamespace("nfl"), WithRefreshInterval(time.Minute))
			UpdateDatasetRows(7)

			Convey("Then the exposed registry should use it", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "nfl_explorer_"), ShouldBeTrue)
				}
				So(RefreshInterval(), ShouldEqual, time.Minute)
			})
		})

		Convey("When configured as disabled", func() {
			Configure(WithMetricsEnabled(false))
			UpdateDatasetRows(7)

			Convey("Then nothing should be exposed", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})
	})
}
