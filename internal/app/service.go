// Package service provides the core read service that implements
// the dependencies required by the HTTP API and the explorer pages.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/gridiron/internal/adapters/dataset"
	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/domain/aggregate"
	"github.com/okian/gridiron/internal/domain/filter"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/internal/domain/upsets"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// Service loads the dataset once and answers every read query over it.
type Service struct {
	mu sync.RWMutex

	// Core components
	source dataset.Source
	table  *repository.Table
	engine *filter.Engine

	// Derived once at start
	classified []model.Classification
	report     model.UpsetReport

	// Configuration
	bigUpsetSpread float64

	// State
	started  bool
	loadedAt time.Time
	loadTime time.Duration
	files    int
	games    int
	rejected dataset.Rejects

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where plays are loaded from.
func WithSource(src dataset.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithPlays serves the given plays instead of reading files.
func WithPlays(plays []model.Play) Option {
	return WithSource(dataset.StaticSource(plays))
}

// WithBigUpsetSpread sets the spread beyond which an upset counts as big.
func WithBigUpsetSpread(spread float64) Option {
	return func(s *Service) {
		if spread >= 0 {
			s.bigUpsetSpread = spread
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		bigUpsetSpread: upsets.DefaultBigSpread,
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and builds the immutable play table. Any failure
// leaves the service unstarted; callers must not serve traffic then.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "loading dataset...")
	start := time.Now()

	res, err := s.source.Load(ctx)
	if err != nil {
		metrics.RecordDatasetLoadError()
		metrics.RecordErrorByComponent("dataset", "load")
		return fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}

	table, err := repository.NewTable(res.Plays)
	if err != nil {
		metrics.RecordDatasetLoadError()
		metrics.RecordErrorByComponent("repository", "build")
		return fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}

	s.table = table
	s.engine = filter.NewEngine(table)
	s.classified = upsets.Classify(s.engine.Results(), s.bigUpsetSpread)
	s.report = upsets.Summarize(s.classified)
	s.rejected = res.Rejected
	s.files = len(res.Files)
	s.games = len(s.engine.Results())
	s.loadTime = time.Since(start)
	s.loadedAt = time.Now()
	s.started = true

	metrics.UpdateDatasetFiles(s.files)
	metrics.UpdateDatasetRows(table.Len())
	for reason, n := range res.Rejected {
		metrics.UpdateDatasetRowsRejected(reason, n)
	}
	metrics.RecordDatasetLoadDuration(float64(s.loadTime.Milliseconds()))

	s.logger.Info(ctx, "dataset loaded",
		logger.Int("files", s.files),
		logger.Int("plays", table.Len()),
		logger.Int("rejected", res.Rejected.Total()+table.Report().RejectedTotal()),
		logger.Int("seasons", len(table.Seasons())),
		logger.Int("games", s.games),
		logger.Int("classified", len(s.classified)),
		logger.String("duration", s.loadTime.String()),
	)
	return nil
}

// Stop releases the loaded dataset.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.table = nil
	s.engine = nil
	s.classified = nil
	s.started = false
	s.logger.Info(context.Background(), "drive explorer service stopped")
}

// view returns the engine when the service is started.
func (s *Service) view() (*filter.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.started
}

// observe records latency and empty results for a query.
func observe(op string, start time.Time, n int) {
	metrics.RecordQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	if n == 0 {
		metrics.RecordQueryEmpty(op)
	}
}

// Seasons returns the seasons in the dataset.
func (s *Service) Seasons(_ context.Context) []int {
	start := time.Now()
	e, ok := s.view()
	if !ok {
		return []int{}
	}
	out := e.Seasons()
	observe("seasons", start, len(out))
	return out
}

// Weeks returns the weeks of a season.
func (s *Service) Weeks(_ context.Context, season int) []int {
	start := time.Now()
	e, ok := s.view()
	if !ok {
		return []int{}
	}
	out := e.Weeks(season)
	observe("weeks", start, len(out))
	return out
}

// GamesFor returns the games of a (season, week) with display labels.
func (s *Service) GamesFor(_ context.Context, season, week int) []types.GameEntry {
	start := time.Now()
	e, ok := s.view()
	if !ok {
		return []types.GameEntry{}
	}
	games := e.GamesFor(season, week)
	out := make([]types.GameEntry, len(games))
	for i, g := range games {
		out[i] = types.GameEntry{GameSummary: g, Label: aggregate.GameLabel(g)}
	}
	observe("games_for", start, len(out))
	return out
}

// Game returns a single game.
func (s *Service) Game(_ context.Context, gameID string) (model.GameSummary, bool) {
	e, ok := s.view()
	if !ok {
		return model.GameSummary{}, false
	}
	return e.Game(gameID)
}

// DrivesFor returns the drives of a game, chronologically, each summarized.
func (s *Service) DrivesFor(_ context.Context, gameID string) []types.DriveEntry {
	start := time.Now()
	e, ok := s.view()
	if !ok {
		return []types.DriveEntry{}
	}
	ids := e.DrivesFor(gameID)
	out := make([]types.DriveEntry, len(ids))
	for i, id := range ids {
		sum := aggregate.Summarize(e.PlaysFor(gameID, id))
		sum.GameID, sum.DriveID = gameID, id
		out[i] = types.DriveEntry{DriveSummary: sum, Label: aggregate.Label(sum)}
	}
	observe("drives_for", start, len(out))
	return out
}

// PlaysFor returns the plays of a drive.
func (s *Service) PlaysFor(_ context.Context, gameID string, driveID int) []model.Play {
	start := time.Now()
	e, ok := s.view()
	if !ok {
		return []model.Play{}
	}
	out := e.PlaysFor(gameID, driveID)
	observe("plays_for", start, len(out))
	return out
}

// Summary summarizes a drive. An unknown drive yields the empty summary.
func (s *Service) Summary(ctx context.Context, gameID string, driveID int) model.DriveSummary {
	sum := aggregate.Summarize(s.PlaysFor(ctx, gameID, driveID))
	sum.GameID, sum.DriveID = gameID, driveID
	return sum
}

// WinProbability returns the post-play win probability series of a drive.
func (s *Service) WinProbability(ctx context.Context, gameID string, driveID int) []model.WPPoint {
	return aggregate.WinProbabilitySeries(s.PlaysFor(ctx, gameID, driveID))
}

// Upsets returns classified games of the given kind, most recent first.
func (s *Service) Upsets(_ context.Context, kind upsets.Kind, season int) []model.Classification {
	start := time.Now()
	s.mu.RLock()
	cs := s.classified
	s.mu.RUnlock()
	out := upsets.Filter(cs, kind, season)
	observe("upsets", start, len(out))
	return out
}

// UpsetGame breaks a classified game into drives seen from the winner's
// side, plus the plays of sel's drive when one is picked. It returns nil
// when sel.GameID was never classified.
func (s *Service) UpsetGame(_ context.Context, sel types.Selection) *types.UpsetGame {
	start := time.Now()
	e, ok := s.view()
	if !ok {
		return nil
	}
	s.mu.RLock()
	c, found := classification(s.classified, sel.GameID)
	s.mu.RUnlock()
	if !found {
		observe("upset_game", start, 0)
		return nil
	}

	g := &types.UpsetGame{Classification: c, Team: c.Perspective(), DriveID: sel.DriveID, HasDrive: sel.HasDrive}
	ids := e.DrivesFor(c.Game.GameID)
	g.Drives = make([]model.WinnerDrive, len(ids))
	for i, id := range ids {
		g.Drives[i] = aggregate.WinnerDrive(e.PlaysFor(c.Game.GameID, id), g.Team)
		g.Drives[i].DriveID = id
	}
	if sel.HasDrive {
		g.Plays = e.PlaysFor(c.Game.GameID, sel.DriveID)
	}
	observe("upset_game", start, len(g.Drives))
	return g
}

func classification(cs []model.Classification, gameID string) (model.Classification, bool) {
	for _, c := range cs {
		if c.Game.GameID == gameID {
			return c, true
		}
	}
	return model.Classification{}, false
}

// UpsetReport returns the upset overview.
func (s *Service) UpsetReport(_ context.Context) model.UpsetReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Explore resolves a selection level by level: seasons always, weeks once a
// season is picked, games once a week is picked, and so on. A selection that
// does not exist simply leaves the levels below it empty.
func (s *Service) Explore(ctx context.Context, sel types.Selection) types.Exploration {
	x := types.Exploration{Selection: sel, Seasons: s.Seasons(ctx)}
	if sel.Season == 0 {
		return x
	}
	x.Weeks = s.Weeks(ctx, sel.Season)
	if sel.Week == 0 {
		return x
	}
	x.Games = s.GamesFor(ctx, sel.Season, sel.Week)
	if sel.GameID == "" || !containsGame(x.Games, sel.GameID) {
		return x
	}
	x.Drives = s.DrivesFor(ctx, sel.GameID)
	if !sel.HasDrive {
		return x
	}
	x.Plays = s.PlaysFor(ctx, sel.GameID, sel.DriveID)
	if len(x.Plays) == 0 {
		return x
	}
	sum := aggregate.Summarize(x.Plays)
	x.Summary = &sum
	x.Series = aggregate.WinProbabilitySeries(x.Plays)
	return x
}

func containsGame(games []types.GameEntry, id string) bool {
	for _, g := range games {
		if g.GameID == id {
			return true
		}
	}
	return false
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"bigUpsetSpread": s.bigUpsetSpread,
	}

	if s.started {
		stats["files"] = s.files
		stats["plays"] = s.table.Len()
		stats["seasons"] = s.table.Seasons()
		stats["games"] = s.games
		stats["classifiedGames"] = len(s.classified)
		stats["rowsRejected"] = s.rejected.Total() + s.table.Report().RejectedTotal()
		stats["upsets"] = s.report.Upsets
		stats["loadDuration"] = s.loadTime.String()
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}

	return stats
}
