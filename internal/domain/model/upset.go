package model

// ResultType classifies a final score against the pre-game expectation.
type ResultType string

// Result types.
const (
	EvenMatch    ResultType = "even_match"
	ConfirmedWin ResultType = "confirmed_win"
	Upset        ResultType = "upset"
)

// Winner placeholders used when no team is expected or no team won.
const (
	WinnerEven = "Even"
	WinnerTie  = "Tie"
)

// Classification is a classified game result.
type Classification struct {
	Game           GameSummary `json:"game"`
	Spread         float64     `json:"spread"`
	HomeScore      int         `json:"home_score"`
	AwayScore      int         `json:"away_score"`
	ExpectedWinner string      `json:"expected_winner"`
	ActualWinner   string      `json:"actual_winner"`
	Result         ResultType  `json:"result_type"`
	BigHomeUpset   bool        `json:"big_home_favorite_upset"`
	BigAwayUpset   bool        `json:"big_away_favorite_upset"`
}

// BigUpset reports whether the upset beat a spread beyond the threshold.
func (c Classification) BigUpset() bool { return c.BigHomeUpset || c.BigAwayUpset }

// Perspective is the team whose win probability the drive breakdown of the
// game reports: the actual winner, or the home team after a tie.
func (c Classification) Perspective() string {
	if c.ActualWinner == "" || c.ActualWinner == WinnerTie {
		return c.Game.HomeTeam
	}
	return c.ActualWinner
}

// WinnerDrive is one drive of a classified game with win probability seen
// from a fixed team rather than from the team with the ball.
type WinnerDrive struct {
	DriveID   int      `json:"drive"`
	PosTeam   string   `json:"posteam"`
	DefTeam   string   `json:"defteam"`
	Plays     int      `json:"plays"`
	StartWP   *float64 `json:"start_wp"`
	EndWP     *float64 `json:"end_wp"`
	WPChange  *float64 `json:"wp_change"`
	Yards     float64  `json:"yards_gained"`
	HomeScore int      `json:"total_home_score"`
	AwayScore int      `json:"total_away_score"`
}

// TeamUpsets counts upsets suffered by an expected winner.
type TeamUpsets struct {
	Team      string `json:"team"`
	Upsets    int    `json:"upsets"`
	BigUpsets int    `json:"big_upsets"`
}

// SeasonUpsets counts games and upsets in one season.
type SeasonUpsets struct {
	Season int `json:"season"`
	Games  int `json:"games"`
	Upsets int `json:"upsets"`
}

// UpsetReport aggregates classifications.
type UpsetReport struct {
	TotalGames    int            `json:"total_games"`
	Upsets        int            `json:"upsets"`
	BigHomeUpsets int            `json:"big_home_favorite_upsets"`
	BigAwayUpsets int            `json:"big_away_favorite_upsets"`
	ByTeam        []TeamUpsets   `json:"by_team"`
	BySeason      []SeasonUpsets `json:"by_season"`
}
