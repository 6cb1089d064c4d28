// Package metrics provides Prometheus metrics for the gridiron drive explorer.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace replaces the "gridiron" metric name prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if ns := strings.TrimSpace(namespace); ns != "" {
			m.namespace = ns
		}
	}
}

// WithMetricsEnabled keeps collectors working but off the exposed registry
// when false.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRefreshInterval sets how often the runtime gauges are sampled.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// WithPrometheusRegistry registers collectors on registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
