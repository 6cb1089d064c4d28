package repository

import "errors"

// Sentinel kinds for table construction errors.
var (
	ErrEmptyTable = errors.New("play table is empty")
)

// Reasons a play is rejected while building the table.
const (
	RejectSeasonConflict = "season_conflict"
	RejectDuplicatePlay  = "duplicate_play"
)
