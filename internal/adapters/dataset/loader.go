package dataset

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"
	"gocloud.dev/blob"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// maxRejectSamples bounds how many rejected files are named in logs.
const maxRejectSamples = 5

// Source produces the full set of plays at startup.
type Source interface {
	Load(ctx context.Context) (*Result, error)
}

// Result is the outcome of a successful load.
type Result struct {
	Plays    []model.Play
	Files    []FileReport
	Rejected Rejects
	Duration time.Duration
}

// FileReport describes one decoded file.
type FileReport struct {
	Key      string
	Season   int
	Format   Format
	Rows     int
	Rejected Rejects
	Duration time.Duration
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithPrefix restricts the bucket listing to keys under prefix.
func WithPrefix(prefix string) Option {
	return func(l *Loader) { l.prefix = prefix }
}

// WithSeasons loads only the given seasons. Empty loads everything found.
func WithSeasons(seasons ...int) Option {
	return func(l *Loader) {
		l.seasons = make(map[int]struct{}, len(seasons))
		for _, s := range seasons {
			l.seasons[s] = struct{}{}
		}
	}
}

// WithConcurrency bounds how many files are decoded in parallel.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Loader reads every season file of a bucket.
type Loader struct {
	bucket      *blob.Bucket
	prefix      string
	seasons     map[int]struct{}
	concurrency int
	log         logger.Logger
}

// NewLoader creates a Loader over bucket. The caller keeps ownership of the bucket.
func NewLoader(bucket *blob.Bucket, opts ...Option) *Loader {
	l := &Loader{
		bucket:      bucket,
		concurrency: runtime.NumCPU(),
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Files lists the season files the loader would read.
func (l *Loader) Files(ctx context.Context) ([]SeasonFile, error) {
	all, err := ListSeasonFiles(ctx, l.bucket, l.prefix)
	if err != nil {
		return nil, err
	}
	if len(l.seasons) == 0 {
		return all, nil
	}
	files := all[:0]
	for _, f := range all {
		if _, ok := l.seasons[f.Season]; ok {
			files = append(files, f)
		}
	}
	return files, nil
}

// Load decodes every season file concurrently. Any file level failure aborts
// the whole load; malformed rows are only counted.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	const op = "dataset.Load"
	start := time.Now()

	files, err := l.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w under prefix %q", op, ErrNoFiles, l.prefix)
	}

	dec, err := NewDecoder()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer dec.Close()

	workers := min(l.concurrency, len(files))
	pool := pond.NewPool(workers, pond.WithQueueSize(len(files)))
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	plays := make([][]model.Play, len(files))
	reports := make([]FileReport, len(files))
	errs := make([]error, len(files))

	for i, f := range files {
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				errs[i] = err
				return
			}
			plays[i], reports[i], errs[i] = l.loadFile(groupCtx, dec, f)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := &Result{Files: reports, Rejected: Rejects{}}
	total := 0
	for _, ps := range plays {
		total += len(ps)
	}
	res.Plays = make([]model.Play, 0, total)
	for i := range files {
		res.Plays = append(res.Plays, plays[i]...)
		res.Rejected.merge(reports[i].Rejected)
	}
	if len(res.Plays) == 0 {
		return nil, fmt.Errorf("%s: %w: %d rows rejected", op, ErrEmptyDataset, res.Rejected.Total())
	}
	res.Duration = time.Since(start)

	l.logRejects(ctx, res)
	return res, nil
}

func (l *Loader) loadFile(ctx context.Context, dec *Decoder, f SeasonFile) ([]model.Play, FileReport, error) {
	start := time.Now()
	rep := FileReport{Key: f.Key, Season: f.Season, Format: f.Format}

	data, err := l.bucket.ReadAll(ctx, f.Key)
	if err != nil {
		return nil, rep, fmt.Errorf("%w %s: %w", ErrReadFile, f.Key, err)
	}

	plays, rejects, err := dec.Decode(f.Format, data)
	if err != nil {
		return nil, rep, fmt.Errorf("%s: %w", f.Key, err)
	}

	rep.Rows = len(plays)
	rep.Rejected = rejects
	rep.Duration = time.Since(start)
	metrics.RecordFileDecodeDuration(string(f.Format), float64(rep.Duration.Microseconds())/1000)

	l.log.Debug(ctx, "season file decoded",
		logger.String("key", f.Key),
		logger.Int("season", f.Season),
		logger.Int("rows", rep.Rows),
		logger.Int("rejected", rejects.Total()),
	)
	return plays, rep, nil
}

func (l *Loader) logRejects(ctx context.Context, res *Result) {
	if res.Rejected.Total() == 0 {
		return
	}
	var samples []string
	for _, f := range res.Files {
		if f.Rejected.Total() > 0 && len(samples) < maxRejectSamples {
			samples = append(samples, f.Key)
		}
	}
	l.log.Warn(ctx, "malformed rows excluded",
		logger.Int("rejected", res.Rejected.Total()),
		logger.Any("reasons", map[string]int(res.Rejected)),
		logger.Any("files", samples),
	)
}

var (
	_ Source = (*Loader)(nil)
	_ Source = (*SQLiteSource)(nil)
	_ Source = StaticSource(nil)
)

// StaticSource serves plays that are already in memory.
type StaticSource []model.Play

// Load validates the plays the same way decoded rows are validated.
func (s StaticSource) Load(_ context.Context) (*Result, error) {
	start := time.Now()
	rows := append([]model.Play(nil), s...)
	plays, rejects, _ := keepValid(rows)
	if len(plays) == 0 {
		return nil, fmt.Errorf("dataset.StaticSource.Load: %w", ErrEmptyDataset)
	}
	return &Result{Plays: plays, Rejected: rejects, Duration: time.Since(start)}, nil
}
