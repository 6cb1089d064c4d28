// Package filter narrows the play table down to the selection a user makes:
// season, week, game and drive.
//
// Conventions:
//   - Unknown selections yield empty, non-nil results, never errors.
//   - Results are fresh slices; callers may reorder or modify them.
//   - The engine holds no state besides its Source and is safe for concurrent use.
package filter

import (
	"sort"

	"github.com/okian/gridiron/internal/domain/model"
)

// Source is the read-only data context the engine queries.
type Source interface {
	Seasons() []int
	Weeks(season int) []int
	Games(season, week int) []model.GameSummary
	Game(gameID string) (model.GameSummary, bool)
	Drives(gameID string) []int
	Plays(gameID string, driveID int) []model.Play
	Results() []model.GameResult
}

// Engine answers selection queries over a Source.
type Engine struct {
	src Source
}

// NewEngine creates an Engine over src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Seasons returns the seasons available, ascending.
func (e *Engine) Seasons() []int {
	out := nonNil(e.src.Seasons())
	sort.Ints(out)
	return out
}

// Weeks returns the weeks available in a season, ascending.
func (e *Engine) Weeks(season int) []int {
	out := nonNil(e.src.Weeks(season))
	sort.Ints(out)
	return out
}

// GamesFor returns the games played in a (season, week), ordered by game id.
// Only games whose season and week match exactly are returned.
func (e *Engine) GamesFor(season, week int) []model.GameSummary {
	games := e.src.Games(season, week)
	out := make([]model.GameSummary, 0, len(games))
	for _, g := range games {
		if g.Season == season && g.Week == week {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}

// Game returns a single game.
func (e *Engine) Game(gameID string) (model.GameSummary, bool) {
	return e.src.Game(gameID)
}

// DrivesFor returns a game's drive ids ordered by the sequence number of
// each drive's first play.
func (e *Engine) DrivesFor(gameID string) []int {
	return nonNil(e.src.Drives(gameID))
}

// PlaysFor returns a drive's plays ordered by sequence number.
func (e *Engine) PlaysFor(gameID string, driveID int) []model.Play {
	plays := e.src.Plays(gameID, driveID)
	out := make([]model.Play, 0, len(plays))
	for _, p := range plays {
		if p.GameID == gameID && p.DriveID == driveID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// Results returns every game's final state, ordered by game id.
func (e *Engine) Results() []model.GameResult {
	out := e.src.Results()
	if out == nil {
		return []model.GameResult{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Game.GameID < out[j].Game.GameID })
	return out
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
