package repository

import (
	"fmt"
	"sort"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/metrics"
)

// Table is an immutable, indexed view over the loaded plays.
//
// Every index is built once in NewTable and never mutated afterwards, so a
// *Table is safe for concurrent readers without locking. Accessors return
// fresh slices.
type Table struct {
	seasons []int
	weeks   map[int][]int
	byWeek  map[weekKey][]string
	games   map[string]*gameIndex
	gameIDs []string
	plays   int

	report        BuildReport
	recordMetrics bool
}

type weekKey struct {
	season int
	week   int
}

type gameIndex struct {
	summary model.GameSummary
	result  model.GameResult
	drives  []int
	plays   map[int][]model.Play
}

// BuildReport describes how many plays were accepted or rejected by NewTable.
type BuildReport struct {
	Accepted int
	Rejected map[string]int
}

// RejectedTotal sums rejections across reasons.
func (r BuildReport) RejectedTotal() int {
	n := 0
	for _, c := range r.Rejected {
		n += c
	}
	return n
}

// NewTable indexes plays into a Table.
//
// A play whose game was already seen under another (season, week) or whose
// (game, play_id) key was already taken is rejected and counted in the
// report. Input order decides which of two conflicting plays wins.
func NewTable(plays []model.Play, opts ...Option) (*Table, error) {
	t := &Table{
		weeks:         make(map[int][]int),
		byWeek:        make(map[weekKey][]string),
		games:         make(map[string]*gameIndex),
		report:        BuildReport{Rejected: make(map[string]int)},
		recordMetrics: true,
	}
	for _, opt := range opts {
		opt(t)
	}

	seen := make(map[string]map[int]struct{})
	for _, p := range plays {
		g, ok := t.games[p.GameID]
		if !ok {
			g = &gameIndex{
				summary: model.GameSummary{GameID: p.GameID, Season: p.Season, Week: p.Week},
				plays:   make(map[int][]model.Play),
			}
			t.games[p.GameID] = g
			seen[p.GameID] = make(map[int]struct{})
		}
		if g.summary.Season != p.Season || g.summary.Week != p.Week {
			t.report.Rejected[RejectSeasonConflict]++
			continue
		}
		if _, dup := seen[p.GameID][p.Sequence]; dup {
			t.report.Rejected[RejectDuplicatePlay]++
			continue
		}
		seen[p.GameID][p.Sequence] = struct{}{}
		g.plays[p.DriveID] = append(g.plays[p.DriveID], p)
		t.plays++
	}
	t.report.Accepted = t.plays

	if t.plays == 0 {
		return nil, fmt.Errorf("%w: %d plays offered, %d rejected", ErrEmptyTable, len(plays), t.report.RejectedTotal())
	}

	for id, g := range t.games {
		g.finish()
		t.gameIDs = append(t.gameIDs, id)
		wk := weekKey{season: g.summary.Season, week: g.summary.Week}
		t.byWeek[wk] = append(t.byWeek[wk], id)
	}
	sort.Strings(t.gameIDs)

	for wk, ids := range t.byWeek {
		sort.Strings(ids)
		t.weeks[wk.season] = append(t.weeks[wk.season], wk.week)
	}
	for season, weeks := range t.weeks {
		sort.Ints(weeks)
		t.seasons = append(t.seasons, season)
	}
	sort.Ints(t.seasons)

	if t.recordMetrics {
		metrics.UpdateDatasetShape(len(t.seasons), len(t.games))
		for reason, n := range t.report.Rejected {
			metrics.UpdateDatasetRowsRejected(reason, n)
		}
	}
	return t, nil
}

// finish sorts plays and derives the game summary, drive order and result.
func (g *gameIndex) finish() {
	var all []model.Play
	firstSeq := make(map[int]int, len(g.plays))
	for id, ps := range g.plays {
		sort.Slice(ps, func(i, j int) bool { return ps[i].Sequence < ps[j].Sequence })
		firstSeq[id] = ps[0].Sequence
		g.drives = append(g.drives, id)
		all = append(all, ps...)
	}
	sort.Slice(g.drives, func(i, j int) bool {
		a, b := g.drives[i], g.drives[j]
		if firstSeq[a] != firstSeq[b] {
			return firstSeq[a] < firstSeq[b]
		}
		return a < b
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Sequence < all[j].Sequence })

	for _, p := range all {
		if g.summary.HomeTeam == "" {
			g.summary.HomeTeam = p.HomeTeam
		}
		if g.summary.AwayTeam == "" {
			g.summary.AwayTeam = p.AwayTeam
		}
	}

	g.result.Game = g.summary
	g.result.HomeScore, g.result.AwayScore = finalScore(all)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].SpreadLine != nil {
			v := *all[i].SpreadLine
			g.result.SpreadLine = &v
			break
		}
	}
}

// finalScore reads the score of the highest-sequence play. When that play
// lacks either score, the latest earlier play carrying both is used, and a
// game with no scores at all ends 0-0.
func finalScore(sorted []model.Play) (home, away int) {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].HomeScore != nil && sorted[i].AwayScore != nil {
			return *sorted[i].HomeScore, *sorted[i].AwayScore
		}
	}
	return 0, 0
}

// Len returns the number of plays in the table.
func (t *Table) Len() int { return t.plays }

// Report returns the build report.
func (t *Table) Report() BuildReport {
	r := BuildReport{Accepted: t.report.Accepted, Rejected: make(map[string]int, len(t.report.Rejected))}
	for k, v := range t.report.Rejected {
		r.Rejected[k] = v
	}
	return r
}

// Seasons returns the seasons present, ascending.
func (t *Table) Seasons() []int {
	return append([]int(nil), t.seasons...)
}

// Weeks returns the weeks present in a season, ascending.
func (t *Table) Weeks(season int) []int {
	return append([]int(nil), t.weeks[season]...)
}

// Games returns the games of a (season, week) ordered by game id.
func (t *Table) Games(season, week int) []model.GameSummary {
	ids := t.byWeek[weekKey{season: season, week: week}]
	out := make([]model.GameSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.games[id].summary)
	}
	return out
}

// Game returns one game's summary.
func (t *Table) Game(gameID string) (model.GameSummary, bool) {
	g, ok := t.games[gameID]
	if !ok {
		return model.GameSummary{}, false
	}
	return g.summary, true
}

// Drives returns a game's drive ids in chronological order.
func (t *Table) Drives(gameID string) []int {
	g, ok := t.games[gameID]
	if !ok {
		return []int{}
	}
	return append([]int{}, g.drives...)
}

// Plays returns a drive's plays ordered by sequence.
func (t *Table) Plays(gameID string, driveID int) []model.Play {
	g, ok := t.games[gameID]
	if !ok {
		return []model.Play{}
	}
	return append([]model.Play{}, g.plays[driveID]...)
}

// Results returns every game's final state ordered by game id.
func (t *Table) Results() []model.GameResult {
	out := make([]model.GameResult, 0, len(t.gameIDs))
	for _, id := range t.gameIDs {
		r := t.games[id].result
		if r.SpreadLine != nil {
			v := *r.SpreadLine
			r.SpreadLine = &v
		}
		out = append(out, r)
	}
	return out
}
