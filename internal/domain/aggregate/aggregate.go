// Package aggregate computes drive level statistics from plays.
package aggregate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/gridiron/internal/domain/model"
)

const (
	labelPrecision  = 4
	changePrecision = 4
)

// Summarize aggregates the plays of one drive, which must be ordered by
// sequence. Missing EPA, WPA and yards are skipped in the sums. StartWP is
// the pre-play WP of the first play and EndWP the post-play WP of the last
// play; either stays nil when that value is missing or the drive is empty.
func Summarize(plays []model.Play) model.DriveSummary {
	var s model.DriveSummary
	if len(plays) == 0 {
		return s
	}

	first, last := plays[0], plays[len(plays)-1]
	s.GameID = first.GameID
	s.DriveID = first.DriveID
	s.PosTeam = first.PosTeam
	s.Plays = len(plays)
	if first.AwayScore != nil {
		s.StartAway = *first.AwayScore
	}
	if first.HomeScore != nil {
		s.StartHome = *first.HomeScore
	}

	for _, p := range plays {
		s.NetEPA += value(p.EPA)
		s.TotalWPA += value(p.WPA)
		s.TotalYards += value(p.YardsGained)
		if s.PosTeam == "" {
			s.PosTeam = p.PosTeam
		}
	}

	s.StartWP = copyOf(first.WP)
	s.EndWP = copyOf(last.PostWP())
	return s
}

// WinProbabilitySeries returns one point per play with the post-play win
// probability, in the order given.
func WinProbabilitySeries(plays []model.Play) []model.WPPoint {
	out := make([]model.WPPoint, 0, len(plays))
	for _, p := range plays {
		out = append(out, model.WPPoint{Sequence: p.Sequence, WP: copyOf(p.PostWP())})
	}
	return out
}

// WinnerDrive summarizes one drive, ordered by sequence, from team's side.
// StartWP is team's pre-play WP on the first play and EndWP its post-play WP
// on the last; a play whose possession team is unknown has no side and
// leaves the value nil. WPChange is EndWP-StartWP rounded to four places
// and the score is the one on the last play that carries both scores.
func WinnerDrive(plays []model.Play, team string) model.WinnerDrive {
	var d model.WinnerDrive
	if len(plays) == 0 {
		return d
	}

	first, last := plays[0], plays[len(plays)-1]
	d.DriveID = first.DriveID
	d.Plays = len(plays)
	for _, p := range plays {
		d.Yards += value(p.YardsGained)
		if d.PosTeam == "" {
			d.PosTeam = p.PosTeam
		}
		if d.DefTeam == "" {
			d.DefTeam = p.DefTeam
		}
	}

	d.StartWP = sideOf(first, first.WP, team)
	d.EndWP = sideOf(last, last.PostWP(), team)
	if d.StartWP != nil && d.EndWP != nil {
		change := Round(*d.EndWP-*d.StartWP, changePrecision)
		d.WPChange = &change
	}

	for i := len(plays) - 1; i >= 0; i-- {
		if plays[i].HomeScore != nil && plays[i].AwayScore != nil {
			d.HomeScore, d.AwayScore = *plays[i].HomeScore, *plays[i].AwayScore
			break
		}
	}
	return d
}

// sideOf turns a possession-team WP into team's WP.
func sideOf(p model.Play, wp *float64, team string) *float64 {
	if wp == nil || p.PosTeam == "" {
		return nil
	}
	v := *wp
	if p.PosTeam != team {
		v = 1 - v
	}
	return &v
}

// Label renders the summary the way the drive selector lists it.
func Label(s model.DriveSummary) string {
	return fmt.Sprintf("Drive %d - Plays: %d | EPA: %s | WPA: %s | Yards: %s | Score: %d-%d",
		s.DriveID, s.Plays,
		formatFloat(Round(s.NetEPA, labelPrecision)),
		formatFloat(Round(s.TotalWPA, labelPrecision)),
		formatFloat(s.TotalYards),
		s.StartAway, s.StartHome)
}

// GameLabel renders a game as "AWAY @ HOME (Week 01, 2020)".
func GameLabel(g model.GameSummary) string {
	return fmt.Sprintf("%s @ %s (Week %02d, %d)", g.AwayTeam, g.HomeTeam, g.Week, g.Season)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func formatFloat(v float64) string {
	if v == 0 {
		v = 0 // normalizes -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func copyOf(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
