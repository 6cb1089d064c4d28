package site

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/okian/gridiron/internal/domain/aggregate"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/internal/domain/upsets"
)

type option struct {
	Value string
	Label string
}

func intOptions(vals []int, label func(int) string) []option {
	out := make([]option, len(vals))
	for i, v := range vals {
		out[i] = option{Value: strconv.Itoa(v), Label: label(v)}
	}
	return out
}

func weekLabel(w int) string { return "Week " + strconv.Itoa(w) }

func gameOptions(games []types.GameEntry) []option {
	out := make([]option, len(games))
	for i, g := range games {
		out[i] = option{Value: g.GameID, Label: g.Label}
	}
	return out
}

func driveOptions(drives []types.DriveEntry) []option {
	out := make([]option, len(drives))
	for i, d := range drives {
		out[i] = option{Value: strconv.Itoa(d.DriveID), Label: d.Label}
	}
	return out
}

func driveValue(sel types.Selection) string {
	if !sel.HasDrive {
		return ""
	}
	return strconv.Itoa(sel.DriveID)
}

// explorerNote is the hint shown instead of drive details; empty once a
// drive with plays is selected.
func explorerNote(x types.Exploration) string {
	sel := x.Selection
	switch {
	case sel.Season == 0:
		return "Pick a season to start."
	case len(x.Weeks) == 0:
		return "No weeks for this season."
	case sel.Week == 0:
		return "Pick a week."
	case len(x.Games) == 0:
		return "No games for this week."
	case sel.GameID == "":
		return "Pick a game."
	case len(x.Drives) == 0:
		return "No drives for this game."
	case !sel.HasDrive:
		return "Pick a drive."
	case x.Summary == nil:
		return "No plays for this drive."
	}
	return ""
}

var (
	summaryColumns = []string{"Drive", "Team", "Plays", "Net EPA", "Total WPA", "Yards", "Start WP", "End WP", "Score at start"}
	playColumns    = []string{"Play", "Qtr", "Time", "Offense", "Defense", "Down", "To go", "Yard line", "Type",
		"Description", "Yards", "EPA", "WPA", "WP", "WP after", "Away", "Home"}
	upsetColumns = []string{"Season", "Week", "Game", "Spread", "Score", "Expected", "Actual", "Result"}
	teamColumns  = []string{"Team", "Upsets", "Big upsets"}
)

func winnerDriveColumns(team string) []string {
	return []string{"Drive", "Offense", "Defense", "Plays", "Start WP (" + team + ")", "End WP (" + team + ")",
		"WP change", "Yards", "Score at end"}
}

// number formats an optional value; missing values render as "n/a".
func number(v *float64, decimals int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(aggregate.Round(*v, decimals), 'f', -1, 64)
}

func integer(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func score(away, home int) string { return fmt.Sprintf("%d-%d", away, home) }

func matchup(g model.GameSummary) string { return g.AwayTeam + " @ " + g.HomeTeam }

func spread(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type upsetsView struct {
	Kind   upsets.Kind
	Season int
	Report model.UpsetReport
	Games  []model.Classification
	Game   *types.UpsetGame
}

var kindLabels = []option{
	{Value: string(upsets.KindUpsets), Label: "All upsets"},
	{Value: string(upsets.KindHomeUpsets), Label: "Big home favorite upsets"},
	{Value: string(upsets.KindAwayUpsets), Label: "Big away favorite upsets"},
}

func seasonOptions(seasons []model.SeasonUpsets) []option {
	out := make([]option, len(seasons))
	for i, s := range seasons {
		out[i] = option{Value: strconv.Itoa(s.Season), Label: fmt.Sprintf("%d (%d of %d)", s.Season, s.Upsets, s.Games)}
	}
	return out
}

func upsetGameOptions(games []model.Classification) []option {
	out := make([]option, len(games))
	for i, c := range games {
		out[i] = option{Value: c.Game.GameID, Label: fmt.Sprintf("%s - %s expected, %s won", c.Game.GameID, c.ExpectedWinner, c.ActualWinner)}
	}
	return out
}

func (v upsetsView) gameID() string {
	if v.Game == nil {
		return ""
	}
	return v.Game.Classification.Game.GameID
}

// query keeps the page filters when linking to a game or a drive.
func (v upsetsView) query(gameID string) url.Values {
	q := url.Values{}
	q.Set("type", string(v.Kind))
	if v.Season != 0 {
		q.Set("season", strconv.Itoa(v.Season))
	}
	q.Set("game", gameID)
	return q
}

func upsetGameURL(v upsetsView, gameID string) templ.SafeURL {
	return templ.SafeURL("/upsets?" + v.query(gameID).Encode())
}

func upsetDriveURL(v upsetsView, driveID int) templ.SafeURL {
	q := v.query(v.gameID())
	q.Set("drive", strconv.Itoa(driveID))
	return templ.SafeURL("/upsets?" + q.Encode())
}

// explorerURL opens the game in the drive explorer.
func explorerURL(g model.GameSummary) templ.SafeURL {
	q := url.Values{}
	q.Set("season", strconv.Itoa(g.Season))
	q.Set("week", strconv.Itoa(g.Week))
	q.Set("game", g.GameID)
	return templ.SafeURL("/?" + q.Encode())
}

func upsetHeading(c model.Classification) string {
	return fmt.Sprintf("%s: %s expected, %s won %s", aggregate.GameLabel(c.Game), c.ExpectedWinner, c.ActualWinner,
		score(c.AwayScore, c.HomeScore))
}
