// Package types contains common types used across the application
package types

import "github.com/okian/gridiron/internal/domain/model"

// GameEntry is a game with its display label.
type GameEntry struct {
	model.GameSummary
	Label string `json:"label"`
}

// DriveEntry is a drive summary with its display label.
type DriveEntry struct {
	model.DriveSummary
	Label string `json:"label"`
}

// Selection is what the user picked in the explorer. Zero values mean
// "not selected"; HasDrive distinguishes drive 0 from no drive.
type Selection struct {
	Season   int
	Week     int
	GameID   string
	DriveID  int
	HasDrive bool
}

// Exploration is everything the explorer shows for one Selection. Each level
// is only filled when the level above it is selected.
type Exploration struct {
	Selection Selection
	Seasons   []int
	Weeks     []int
	Games     []GameEntry
	Drives    []DriveEntry
	Plays     []model.Play
	Summary   *model.DriveSummary
	Series    []model.WPPoint
}

// UpsetGame is one classified game broken down by drive from the
// perspective team's side. Plays are filled only when a drive is picked.
type UpsetGame struct {
	Classification model.Classification `json:"classification"`
	Team           string               `json:"team"`
	Drives         []model.WinnerDrive  `json:"drives"`
	DriveID        int                  `json:"drive,omitempty"`
	HasDrive       bool                 `json:"-"`
	Plays          []model.Play         `json:"plays,omitempty"`
}
