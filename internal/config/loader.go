package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	envPrefix     = "GRIDIRON_"
	envConfigFile = "GRIDIRON_CONFIG"
)

// metricName matches a valid Prometheus metric name component.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GRIDIRON_CONFIG is set
//  3. env (prefix GRIDIRON_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like GRIDIRON_DATASET_URL -> dataset_url (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	// GRIDIRON_SEASONS is a comma separated list.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "seasons" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration that cannot start the service.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatasetURL) == "" && strings.TrimSpace(c.DatasetSQLite) == "":
		return fmt.Errorf("%w: dataset_url or dataset_sqlite must be set", ErrInvalidConfig)
	case c.BigUpsetSpread < 0:
		return fmt.Errorf("%w: big_upset_spread must not be negative", ErrInvalidConfig)
	case !metricName.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	case c.MetricsRefreshInterval <= 0:
		return fmt.Errorf("%w: metrics_refresh_interval must be positive", ErrInvalidConfig)
	}
	for _, s := range c.Seasons {
		if s < 1900 || s > 2100 {
			return fmt.Errorf("%w: season %d out of range", ErrInvalidConfig, s)
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
