// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New(); Load layers a YAML file and env vars on top.
// - All loading functions accept context.Context as the first parameter.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogEncoding selects the log format: json or console.
	LogEncoding string `koanf:"log_encoding"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DatasetURL is a gocloud.dev blob URL holding the season files,
	// e.g. "file:///data/seasons", "gs://bucket", "s3://bucket?region=us-east-1".
	DatasetURL string `koanf:"dataset_url"`

	// DatasetPrefix restricts the bucket listing to keys under this prefix.
	DatasetPrefix string `koanf:"dataset_prefix"`

	// DatasetSQLite points at a SQLite database with a plays table. When set
	// it is used instead of DatasetURL.
	DatasetSQLite string `koanf:"dataset_sqlite"`

	// Seasons limits which season files are loaded. Empty loads every season found.
	Seasons []int `koanf:"seasons"`

	// LoadConcurrency bounds how many season files are decoded in parallel.
	LoadConcurrency int `koanf:"load_concurrency"`

	// BigUpsetSpread is the spread beyond which an upset counts as big.
	BigUpsetSpread float64 `koanf:"big_upset_spread"`

	// MetricsEnabled exposes the collectors on /healthz.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsRefreshInterval is how often runtime gauges are sampled, e.g. "10s".
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogEncoding:            "json",
		Addr:                   ":8050",
		DatasetURL:             "file://./seasons",
		DatasetPrefix:          "",
		DatasetSQLite:          "",
		Seasons:                nil,
		LoadConcurrency:        runtime.NumCPU(),
		BigUpsetSpread:         6,
		MetricsEnabled:         true,
		MetricsNamespace:       "gridiron",
		MetricsRefreshInterval: 10 * time.Second,
	}
}
