package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

const playsTable = "plays"

// SQLiteSource reads plays from the plays table of a SQLite database.
// Columns are matched by name with the same aliases as CSV headers.
type SQLiteSource struct {
	path    string
	seasons map[int]struct{}
	log     logger.Logger
}

// NewSQLiteSource creates a source over the database file at path.
func NewSQLiteSource(path string, seasons []int, log logger.Logger) *SQLiteSource {
	s := &SQLiteSource{path: path, log: log}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if len(seasons) > 0 {
		s.seasons = make(map[int]struct{}, len(seasons))
		for _, v := range seasons {
			s.seasons[v] = struct{}{}
		}
	}
	return s
}

// Load reads every row of the plays table.
func (s *SQLiteSource) Load(ctx context.Context) (*Result, error) {
	const op = "dataset.SQLiteSource.Load"
	start := time.Now()

	// sql.Open would silently create a missing database.
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOpenSource, err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOpenSource, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+playsTable)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrReadFile, err)
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
	}
	h, err := resolveHeader(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vals := make([]sql.NullString, len(names))
	dest := make([]any, len(names))
	for i := range vals {
		dest[i] = &vals[i]
	}
	rec := make([]string, len(names))

	var plays []model.Play
	rejects := Rejects{}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
		}
		for i, v := range vals {
			rec[i] = v.String // "" when NULL
		}
		p, reason := h.parseRecord(rec)
		if reason != "" {
			rejects[reason]++
			continue
		}
		if s.seasons != nil {
			if _, ok := s.seasons[p.Season]; !ok {
				continue
			}
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
	}
	if len(plays) == 0 {
		return nil, fmt.Errorf("%s: %w: %d rows rejected", op, ErrEmptyDataset, rejects.Total())
	}

	d := time.Since(start)
	metrics.RecordFileDecodeDuration("sqlite", float64(d.Microseconds())/1000)
	res := &Result{
		Plays:    plays,
		Files:    []FileReport{{Key: s.path, Format: "sqlite", Rows: len(plays), Rejected: rejects, Duration: d}},
		Rejected: rejects,
		Duration: d,
	}
	if rejects.Total() > 0 {
		s.log.Warn(ctx, "malformed rows excluded",
			logger.Int("rejected", rejects.Total()),
			logger.Any("reasons", map[string]int(rejects)),
			logger.String("path", s.path),
		)
	}
	return res, nil
}
