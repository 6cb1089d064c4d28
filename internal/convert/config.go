// Package convert rewrites CSV season files as parquet season files so the
// explorer starts faster and reads smaller objects.
package convert

import "time"

// Config holds configuration for a conversion run.
type Config struct {
	Src         string // Bucket URL holding the CSV season files
	Dst         string // Bucket URL the parquet files are written to
	Prefix      string // Key prefix used on both buckets
	Seasons     []int  // Seasons to convert; empty converts every season found
	Workers     int    // Files converted in parallel
	KeepUntyped bool   // Keep rows without a play_type
	Overwrite   bool   // Replace parquet files that already exist in Dst
}

// FileStats describes one converted season.
type FileStats struct {
	Source   string
	Target   string
	Season   int
	Rows     int
	Dropped  int
	Rejected int
	Bytes    int
	Duration time.Duration
}

// Stats summarizes a conversion run.
type Stats struct {
	Files    []FileStats
	Skipped  []string
	Duration time.Duration
}

// Rows returns the number of rows written across all files.
func (s *Stats) Rows() int {
	n := 0
	for _, f := range s.Files {
		n += f.Rows
	}
	return n
}
