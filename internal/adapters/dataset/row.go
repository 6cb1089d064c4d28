package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/gridiron/internal/domain/model"
)

type column int

const (
	colSeason column = iota
	colWeek
	colGameID
	colDrive
	colPlayID
	colPosTeam
	colDefTeam
	colHomeTeam
	colAwayTeam
	colQuarter
	colTime
	colDown
	colYardsToGo
	colYardline
	colPlayType
	colDesc
	colYards
	colEPA
	colWPA
	colWP
	colWPAfter
	colHomeScore
	colAwayScore
	colSpread
	numColumns
)

// aliases lists accepted header names per column, preferred name first.
var aliases = [numColumns][]string{
	colSeason:    {"season"},
	colWeek:      {"week"},
	colGameID:    {"game_id", "game"},
	colDrive:     {"drive", "drive_id"},
	colPlayID:    {"play_id", "seq", "sequence"},
	colPosTeam:   {"posteam", "team"},
	colDefTeam:   {"defteam"},
	colHomeTeam:  {"home_team"},
	colAwayTeam:  {"away_team"},
	colQuarter:   {"qtr", "quarter"},
	colTime:      {"time"},
	colDown:      {"down"},
	colYardsToGo: {"ydstogo"},
	colYardline:  {"yardline_100"},
	colPlayType:  {"play_type"},
	colDesc:      {"desc", "description"},
	colYards:     {"yards_gained", "yards"},
	colEPA:       {"epa"},
	colWPA:       {"wpa"},
	colWP:        {"wp", "wp_before"},
	colWPAfter:   {"wp_after", "wp_post"},
	colHomeScore: {"total_home_score"},
	colAwayScore: {"total_away_score"},
	colSpread:    {"spread_line"},
}

var required = []column{colSeason, colWeek, colGameID, colDrive, colPlayID}

// header maps each column to its index in a record, -1 when absent.
type header [numColumns]int

func resolveHeader(names []string) (header, error) {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(n, "\ufeff")))
		if _, dup := pos[n]; !dup {
			pos[n] = i
		}
	}

	var h header
	for c := column(0); c < numColumns; c++ {
		h[c] = -1
		for _, name := range aliases[c] {
			if i, ok := pos[name]; ok {
				h[c] = i
				break
			}
		}
	}

	var missing []string
	for _, c := range required {
		if h[c] < 0 {
			missing = append(missing, aliases[c][0])
		}
	}
	if len(missing) > 0 {
		return h, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) width() int {
	w := 0
	for _, i := range h {
		if i+1 > w {
			w = i + 1
		}
	}
	return w
}

func (h header) get(rec []string, c column) string {
	i := h[c]
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none", "<na>":
		return true
	}
	return false
}

// parseRecord converts a CSV record into a Play. A non-empty reason means the
// row must be excluded.
func (h header) parseRecord(rec []string) (model.Play, string) {
	var p model.Play
	if len(rec) < h.width() {
		return p, RejectShortRow
	}

	p.GameID = h.get(rec, colGameID)
	if isMissing(p.GameID) {
		return p, RejectMissingKey
	}
	for _, k := range []struct {
		col column
		dst *int
	}{
		{colSeason, &p.Season},
		{colWeek, &p.Week},
		{colDrive, &p.DriveID},
		{colPlayID, &p.Sequence},
	} {
		raw := h.get(rec, k.col)
		if isMissing(raw) {
			return p, RejectMissingKey
		}
		v, err := parseInt(raw)
		if err != nil {
			return p, RejectInvalidKey
		}
		*k.dst = v
	}

	p.PosTeam = text(h.get(rec, colPosTeam))
	p.DefTeam = text(h.get(rec, colDefTeam))
	p.HomeTeam = text(h.get(rec, colHomeTeam))
	p.AwayTeam = text(h.get(rec, colAwayTeam))
	p.Time = text(h.get(rec, colTime))
	p.PlayType = text(h.get(rec, colPlayType))
	p.Desc = text(h.get(rec, colDesc))

	floats := []struct {
		col    column
		dst    **float64
		reason string
	}{
		{colYards, &p.YardsGained, RejectInvalidYard},
		{colEPA, &p.EPA, RejectInvalidEPA},
		{colWPA, &p.WPA, RejectInvalidNum},
		{colWP, &p.WP, RejectInvalidWP},
		{colWPAfter, &p.WPAfter, RejectInvalidWP},
		{colSpread, &p.SpreadLine, RejectInvalidNum},
	}
	for _, f := range floats {
		v, err := optionalFloat(h.get(rec, f.col))
		if err != nil {
			return p, f.reason
		}
		*f.dst = v
	}

	ints := []struct {
		col column
		dst **int
	}{
		{colQuarter, &p.Quarter},
		{colDown, &p.Down},
		{colYardsToGo, &p.YardsToGo},
		{colYardline, &p.Yardline100},
		{colHomeScore, &p.HomeScore},
		{colAwayScore, &p.AwayScore},
	}
	for _, f := range ints {
		v, err := optionalInt(h.get(rec, f.col))
		if err != nil {
			return p, RejectInvalidNum
		}
		*f.dst = v
	}

	return p, validate(&p)
}

// validate checks the invariants shared by every input format and clears
// NaN values left by columnar sources. It returns a rejection reason or "".
func validate(p *model.Play) string {
	if strings.TrimSpace(p.GameID) == "" {
		return RejectMissingKey
	}
	if p.Season <= 0 || p.Week <= 0 || p.DriveID < 0 || p.Sequence < 0 {
		return RejectInvalidKey
	}
	for _, f := range []**float64{&p.YardsGained, &p.EPA, &p.WPA, &p.WP, &p.WPAfter, &p.SpreadLine} {
		if *f != nil && math.IsNaN(**f) {
			*f = nil
		}
	}
	switch {
	case !finite(p.EPA):
		return RejectInvalidEPA
	case !finite(p.YardsGained):
		return RejectInvalidYard
	case !finite(p.WPA), !finite(p.SpreadLine):
		return RejectInvalidNum
	case !probability(p.WP), !probability(p.WPAfter):
		return RejectInvalidWP
	}
	return ""
}

func finite(v *float64) bool {
	return v == nil || !math.IsInf(*v, 0)
}

func probability(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 1)
}

func text(s string) string {
	if isMissing(s) {
		return ""
	}
	return s
}

// parseInt accepts integral values written as floats ("3.0"), which is how
// dataframe exports store nullable integer columns.
func parseInt(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

func optionalInt(s string) (*int, error) {
	if isMissing(s) {
		return nil, nil
	}
	v, err := parseInt(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalFloat(s string) (*float64, error) {
	if isMissing(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
