package convert

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseSeasons parses a season list such as "2019,2020" or "2015-2020".
func ParseSeasons(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: season %q", ErrInvalidSeasons, part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || last < first {
				return nil, fmt.Errorf("%w: range %q", ErrInvalidSeasons, part)
			}
		}
		for season := first; season <= last; season++ {
			out = append(out, season)
		}
	}
	return out, nil
}

// ShowHelp prints usage information for the converter.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Gridiron season converter
=========================

Rewrites nfl_<season>.csv, .csv.gz and .csv.zst files as nfl_<season>.parquet.
Rows without a play_type are dropped unless -keep-untyped is set. Malformed
rows are dropped and counted.

Usage:
  go run ./cmd/convert [options]

Options:
  -src string
        Bucket URL holding the CSV season files (default "file://./seasons")
  -dst string
        Bucket URL for the parquet files (default: same as -src)
  -prefix string
        Key prefix on both buckets
  -seasons string
        Seasons to convert, e.g. "2019,2020" or "2015-2020" (default: all)
  -workers int
        Files converted in parallel (default CPU cores)
  -keep-untyped
        Keep rows without a play_type
  -overwrite
        Replace parquet files that already exist
  -help
        Show this help message

Examples:
  # Convert every local season in place
  go run ./cmd/convert -src file://./seasons

  # Convert two seasons from S3 into a local directory
  go run ./cmd/convert -src "s3://nfl-pbp?region=us-east-1" -dst file://./seasons -seasons 2022-2023
`)
}
