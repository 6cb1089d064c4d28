// Package dataset reads NFL play-by-play season files into plays.
//
// Season files live in a gocloud.dev blob bucket as nfl_<season>.<ext>, where
// ext is csv, csv.gz, csv.zst or parquet. A SQLite database with a plays table
// is accepted as an alternative source.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/memblob"  // mem:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver
)

// OpenBucket opens the bucket at a gocloud.dev URL such as
// "file:///data/seasons", "gs://bucket" or "s3://bucket?region=us-east-1".
func OpenBucket(ctx context.Context, url string) (*blob.Bucket, error) {
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: bucket %s: %w", ErrOpenSource, url, err)
	}
	return b, nil
}

// formatRank orders formats by preference when a season has several files.
var formatRank = map[Format]int{
	FormatParquet: 0,
	FormatCSVZstd: 1,
	FormatCSVGzip: 2,
	FormatCSV:     3,
}

// ListFiles lists every season file under prefix in every format, ordered
// by season then format preference.
func ListFiles(ctx context.Context, bucket *blob.Bucket, prefix string) ([]SeasonFile, error) {
	iter := bucket.List(&blob.ListOptions{Prefix: prefix})

	var files []SeasonFile
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list %q: %w", ErrOpenSource, prefix, err)
		}
		if obj.IsDir {
			continue
		}
		f, ok := parseKey(obj.Key)
		if !ok {
			continue
		}
		f.Size = obj.Size
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Season != files[j].Season {
			return files[i].Season < files[j].Season
		}
		return formatRank[files[i].Format] < formatRank[files[j].Format]
	})
	return files, nil
}

// ListSeasonFiles lists season files under prefix, one per season, ordered
// by season. When a season is stored in several formats the most compact
// one wins.
func ListSeasonFiles(ctx context.Context, bucket *blob.Bucket, prefix string) ([]SeasonFile, error) {
	all, err := ListFiles(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}
	files := make([]SeasonFile, 0, len(all))
	for _, f := range all {
		if n := len(files); n > 0 && files[n-1].Season == f.Season {
			continue
		}
		files = append(files, f)
	}
	return files, nil
}
