// Package upsets classifies final game results against the pre-game spread.
package upsets

import (
	"sort"

	"github.com/okian/gridiron/internal/domain/model"
)

// DefaultBigSpread is the spread beyond which an upset counts as big.
const DefaultBigSpread = 6.0

// Kind selects a subset of classified games.
type Kind string

// Kinds accepted by Filter.
const (
	KindUpsets     Kind = "upsets"
	KindHomeUpsets Kind = "home_upsets"
	KindAwayUpsets Kind = "away_upsets"
)

// ParseKind maps a query value to a Kind, defaulting to KindUpsets.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindHomeUpsets, KindAwayUpsets:
		return Kind(s)
	}
	return KindUpsets
}

// Classify compares each result's expected winner (from the spread line,
// positive favoring the home team) with its actual winner. Results without
// a spread line are skipped.
func Classify(results []model.GameResult, bigSpread float64) []model.Classification {
	out := make([]model.Classification, 0, len(results))
	for _, r := range results {
		if r.SpreadLine == nil {
			continue
		}
		spread := *r.SpreadLine
		c := model.Classification{
			Game:           r.Game,
			Spread:         spread,
			HomeScore:      r.HomeScore,
			AwayScore:      r.AwayScore,
			ExpectedWinner: expectedWinner(r.Game, spread),
			ActualWinner:   actualWinner(r),
		}
		switch {
		case c.ExpectedWinner == model.WinnerEven || c.ActualWinner == model.WinnerTie:
			c.Result = model.EvenMatch
		case c.ExpectedWinner == c.ActualWinner:
			c.Result = model.ConfirmedWin
		default:
			c.Result = model.Upset
		}
		c.BigHomeUpset = c.Result == model.Upset && spread > bigSpread
		c.BigAwayUpset = c.Result == model.Upset && spread < -bigSpread
		out = append(out, c)
	}
	return out
}

func expectedWinner(g model.GameSummary, spread float64) string {
	switch {
	case spread > 0:
		return g.HomeTeam
	case spread < 0:
		return g.AwayTeam
	}
	return model.WinnerEven
}

func actualWinner(r model.GameResult) string {
	switch {
	case r.HomeScore > r.AwayScore:
		return r.Game.HomeTeam
	case r.AwayScore > r.HomeScore:
		return r.Game.AwayTeam
	}
	return model.WinnerTie
}

// Filter returns the classifications of the given kind, optionally limited
// to one season (0 means all), most recent season first.
func Filter(cs []model.Classification, kind Kind, season int) []model.Classification {
	out := make([]model.Classification, 0)
	for _, c := range cs {
		if season != 0 && c.Game.Season != season {
			continue
		}
		if matches(c, kind) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Game.Season != out[j].Game.Season {
			return out[i].Game.Season > out[j].Game.Season
		}
		return out[i].Game.GameID < out[j].Game.GameID
	})
	return out
}

func matches(c model.Classification, kind Kind) bool {
	switch kind {
	case KindHomeUpsets:
		return c.BigHomeUpset
	case KindAwayUpsets:
		return c.BigAwayUpset
	}
	return c.Result == model.Upset
}

// Summarize aggregates classifications into totals, per expected winner and
// per season. Teams are ordered by upsets desc then name; seasons ascending.
func Summarize(cs []model.Classification) model.UpsetReport {
	r := model.UpsetReport{TotalGames: len(cs), ByTeam: []model.TeamUpsets{}, BySeason: []model.SeasonUpsets{}}
	teams := make(map[string]*model.TeamUpsets)
	seasons := make(map[int]*model.SeasonUpsets)

	for _, c := range cs {
		s, ok := seasons[c.Game.Season]
		if !ok {
			s = &model.SeasonUpsets{Season: c.Game.Season}
			seasons[c.Game.Season] = s
		}
		s.Games++
		if c.Result != model.Upset {
			continue
		}
		r.Upsets++
		s.Upsets++
		if c.BigHomeUpset {
			r.BigHomeUpsets++
		}
		if c.BigAwayUpset {
			r.BigAwayUpsets++
		}
		t, ok := teams[c.ExpectedWinner]
		if !ok {
			t = &model.TeamUpsets{Team: c.ExpectedWinner}
			teams[c.ExpectedWinner] = t
		}
		t.Upsets++
		if c.BigUpset() {
			t.BigUpsets++
		}
	}

	for _, t := range teams {
		r.ByTeam = append(r.ByTeam, *t)
	}
	sort.Slice(r.ByTeam, func(i, j int) bool {
		if r.ByTeam[i].Upsets != r.ByTeam[j].Upsets {
			return r.ByTeam[i].Upsets > r.ByTeam[j].Upsets
		}
		return r.ByTeam[i].Team < r.ByTeam[j].Team
	})
	for _, s := range seasons {
		r.BySeason = append(r.BySeason, *s)
	}
	sort.Slice(r.BySeason, func(i, j int) bool { return r.BySeason[i].Season < r.BySeason[j].Season })
	return r
}
