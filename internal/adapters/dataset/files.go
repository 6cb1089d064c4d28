package dataset

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Format is the encoding of a season file.
type Format string

// Supported season file formats, keyed by file extension.
const (
	FormatCSV     Format = "csv"
	FormatCSVGzip Format = "csv.gz"
	FormatCSVZstd Format = "csv.zst"
	FormatParquet Format = "parquet"
)

const filePrefix = "nfl_"

// formats is ordered longest extension first so "csv.gz" wins over "csv".
var formats = []Format{FormatCSVGzip, FormatCSVZstd, FormatParquet, FormatCSV}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == strings.ToLower(strings.TrimPrefix(s, ".")) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// FileName returns the object name of a season file, e.g. "nfl_2020.parquet".
func FileName(season int, f Format) string {
	return fmt.Sprintf("%s%d.%s", filePrefix, season, f)
}

// SeasonFile is a season file found in a bucket.
type SeasonFile struct {
	Key    string
	Season int
	Format Format
	Size   int64
}

// parseKey recognizes "<prefix>/nfl_<season>.<ext>" object keys.
func parseKey(key string) (SeasonFile, bool) {
	base := path.Base(key)
	if !strings.HasPrefix(base, filePrefix) {
		return SeasonFile{}, false
	}
	rest := strings.TrimPrefix(base, filePrefix)
	for _, f := range formats {
		ext := "." + string(f)
		if !strings.HasSuffix(rest, ext) {
			continue
		}
		season, err := strconv.Atoi(strings.TrimSuffix(rest, ext))
		if err != nil || season <= 0 {
			return SeasonFile{}, false
		}
		return SeasonFile{Key: key, Season: season, Format: f}, true
	}
	return SeasonFile{}, false
}
