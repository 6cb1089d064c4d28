// Package repository holds the immutable, indexed play table the explorer reads from.
package repository

// Option applies a configuration option to the Table.
type Option func(*Table)

// WithMetricsEnabled toggles recording of table shape metrics on build.
func WithMetricsEnabled(enabled bool) Option {
	return func(t *Table) {
		t.recordMetrics = enabled
	}
}
