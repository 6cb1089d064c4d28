// Package model contains domain models passed between layers.
package model

// Play is one row of play-by-play data. Optional numeric columns are pointers:
// nil means the value was absent in the source, which is distinct from 0.
// Fields mirror the columns of the season files.
type Play struct {
	Season   int    `json:"season" parquet:"season"`
	Week     int    `json:"week" parquet:"week"`
	GameID   string `json:"game_id" parquet:"game_id"`
	DriveID  int    `json:"drive" parquet:"drive"`
	Sequence int    `json:"play_id" parquet:"play_id"`

	PosTeam  string `json:"posteam,omitempty" parquet:"posteam,optional"`
	DefTeam  string `json:"defteam,omitempty" parquet:"defteam,optional"`
	HomeTeam string `json:"home_team,omitempty" parquet:"home_team,optional"`
	AwayTeam string `json:"away_team,omitempty" parquet:"away_team,optional"`

	Quarter     *int     `json:"qtr,omitempty" parquet:"qtr"`
	Time        string   `json:"time,omitempty" parquet:"time,optional"`
	Down        *int     `json:"down,omitempty" parquet:"down"`
	YardsToGo   *int     `json:"ydstogo,omitempty" parquet:"ydstogo"`
	Yardline100 *int     `json:"yardline_100,omitempty" parquet:"yardline_100"`
	PlayType    string   `json:"play_type,omitempty" parquet:"play_type,optional"`
	Desc        string   `json:"desc,omitempty" parquet:"desc,optional"`
	YardsGained *float64 `json:"yards_gained" parquet:"yards_gained"`

	EPA     *float64 `json:"epa" parquet:"epa"`
	WPA     *float64 `json:"wpa" parquet:"wpa"`
	WP      *float64 `json:"wp" parquet:"wp"`
	WPAfter *float64 `json:"wp_after" parquet:"wp_after"`

	HomeScore  *int     `json:"total_home_score,omitempty" parquet:"total_home_score"`
	AwayScore  *int     `json:"total_away_score,omitempty" parquet:"total_away_score"`
	SpreadLine *float64 `json:"spread_line,omitempty" parquet:"spread_line"`
}

// DriveKey identifies a drive across the whole dataset.
type DriveKey struct {
	GameID  string
	DriveID int
}

// Key returns the drive the play belongs to.
func (p Play) Key() DriveKey { return DriveKey{GameID: p.GameID, DriveID: p.DriveID} }

// PostWP returns the win probability after the play. It falls back to wp+wpa
// when the source has no explicit post-play column.
func (p Play) PostWP() *float64 {
	if p.WPAfter != nil {
		return p.WPAfter
	}
	if p.WP != nil && p.WPA != nil {
		v := clamp01(*p.WP + *p.WPA)
		return &v
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
