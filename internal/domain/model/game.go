package model

// GameSummary identifies a game and its teams.
type GameSummary struct {
	GameID   string `json:"game_id"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// GameResult is the final state of a game: the score on its highest-sequence
// play (or the latest play before it carrying both scores) and the pre-game
// spread.
type GameResult struct {
	Game       GameSummary `json:"game"`
	HomeScore  int         `json:"home_score"`
	AwayScore  int         `json:"away_score"`
	SpreadLine *float64    `json:"spread_line"`
}

// DriveSummary aggregates the plays of one drive.
type DriveSummary struct {
	GameID     string   `json:"game_id"`
	DriveID    int      `json:"drive"`
	PosTeam    string   `json:"posteam"`
	Plays      int      `json:"plays"`
	NetEPA     float64  `json:"net_epa"`
	TotalWPA   float64  `json:"total_wpa"`
	TotalYards float64  `json:"total_yards"`
	StartWP    *float64 `json:"start_wp"`
	EndWP      *float64 `json:"end_wp"`
	StartAway  int      `json:"start_away_score"`
	StartHome  int      `json:"start_home_score"`
}

// WPPoint is one point of a drive's win-probability chart.
type WPPoint struct {
	Sequence int      `json:"play_id"`
	WP       *float64 `json:"wp"`
}
