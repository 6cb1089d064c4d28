package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"gocloud.dev/blob"

	"github.com/okian/gridiron/internal/adapters/dataset"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/logger"
)

const parquetContentType = "application/vnd.apache.parquet"

// Run opens the configured buckets and converts every selected season.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	src, err := dataset.OpenBucket(ctx, cfg.Src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	dstURL := cfg.Dst
	if dstURL == "" {
		dstURL = cfg.Src
	}
	dst, err := dataset.OpenBucket(ctx, dstURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dst.Close() }()

	return Convert(ctx, cfg, src, dst)
}

// Convert rewrites the CSV season files of src as parquet files in dst.
// When a season has several CSV variants the most compact one is read.
func Convert(ctx context.Context, cfg *Config, src, dst *blob.Bucket) (*Stats, error) {
	log := logger.Named("convert")
	stats := &Stats{}
	start := time.Now()

	jobs, err := plan(ctx, cfg, src, dst, stats)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "converting season files",
		logger.Int("files", len(jobs)),
		logger.Int("skipped", len(stats.Skipped)))

	dec, err := dataset.NewDecoder()
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := pond.NewPool(max(1, min(workers, len(jobs))))
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	results := make([]FileStats, len(jobs))
	errs := make([]error, len(jobs))
	for i, f := range jobs {
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = convertFile(groupCtx, cfg, dec, src, dst, f)
			if errs[i] == nil {
				log.Info(groupCtx, "season converted",
					logger.String("source", f.Key),
					logger.String("target", results[i].Target),
					logger.Int("rows", results[i].Rows),
					logger.Int("dropped", results[i].Dropped),
					logger.Int("rejected", results[i].Rejected))
			}
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	stats.Files = results
	stats.Duration = time.Since(start)
	log.Info(ctx, "conversion finished",
		logger.Int("files", len(stats.Files)),
		logger.Int("rows", stats.Rows()),
		logger.String("duration", stats.Duration.String()))
	return stats, nil
}

// plan picks one CSV file per selected season and records seasons whose
// parquet target already exists.
func plan(ctx context.Context, cfg *Config, src, dst *blob.Bucket, stats *Stats) ([]dataset.SeasonFile, error) {
	all, err := dataset.ListFiles(ctx, src, cfg.Prefix)
	if err != nil {
		return nil, err
	}
	existing, err := dataset.ListFiles(ctx, dst, cfg.Prefix)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(existing))
	for _, f := range existing {
		if f.Format == dataset.FormatParquet {
			done[f.Key] = true
		}
	}

	wanted := make(map[int]bool, len(cfg.Seasons))
	for _, s := range cfg.Seasons {
		wanted[s] = true
	}

	var jobs []dataset.SeasonFile
	picked := make(map[int]bool)
	for _, f := range all {
		if f.Format == dataset.FormatParquet || picked[f.Season] {
			continue
		}
		if len(wanted) > 0 && !wanted[f.Season] {
			continue
		}
		picked[f.Season] = true
		if done[targetKey(f)] && !cfg.Overwrite {
			stats.Skipped = append(stats.Skipped, f.Key)
			continue
		}
		jobs = append(jobs, f)
	}
	if len(jobs) == 0 && len(stats.Skipped) == 0 {
		return nil, fmt.Errorf("%w under prefix %q", ErrNoSources, cfg.Prefix)
	}
	return jobs, nil
}

func convertFile(ctx context.Context, cfg *Config, dec *dataset.Decoder, src, dst *blob.Bucket, f dataset.SeasonFile) (FileStats, error) {
	start := time.Now()
	fs := FileStats{Source: f.Key, Target: targetKey(f), Season: f.Season}

	data, err := src.ReadAll(ctx, f.Key)
	if err != nil {
		return fs, fmt.Errorf("%w %s: %w", dataset.ErrReadFile, f.Key, err)
	}
	plays, rejects, err := dec.Decode(f.Format, data)
	if err != nil {
		return fs, fmt.Errorf("%s: %w", f.Key, err)
	}
	fs.Rejected = rejects.Total()

	kept := plays
	if !cfg.KeepUntyped {
		kept = typed(plays)
	}
	fs.Dropped = len(plays) - len(kept)
	if len(kept) == 0 {
		return fs, fmt.Errorf("%s: %w", f.Key, dataset.ErrEmptyDataset)
	}

	var buf bytes.Buffer
	if err := dataset.EncodeParquet(&buf, kept); err != nil {
		return fs, fmt.Errorf("%w %s: %w", ErrWrite, fs.Target, err)
	}
	if err := dst.WriteAll(ctx, fs.Target, buf.Bytes(), &blob.WriterOptions{ContentType: parquetContentType}); err != nil {
		return fs, fmt.Errorf("%w %s: %w", ErrWrite, fs.Target, err)
	}

	fs.Rows = len(kept)
	fs.Bytes = buf.Len()
	fs.Duration = time.Since(start)
	return fs, nil
}

// typed drops rows without a play type such as quarter ends and timeouts.
func typed(plays []model.Play) []model.Play {
	out := make([]model.Play, 0, len(plays))
	for _, p := range plays {
		if p.PlayType != "" {
			out = append(out, p)
		}
	}
	return out
}

// targetKey places the parquet file next to its source.
func targetKey(f dataset.SeasonFile) string {
	return strings.TrimSuffix(f.Key, string(f.Format)) + string(dataset.FormatParquet)
}
