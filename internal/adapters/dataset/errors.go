package dataset

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrOpenSource    = errors.New("open dataset source")
	ErrNoFiles       = errors.New("no season files found")
	ErrReadFile      = errors.New("read season file")
	ErrDecode        = errors.New("decode season file")
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyDataset  = errors.New("dataset has no valid plays")
)

// Reasons a row is excluded from the dataset.
const (
	RejectMissingKey  = "missing_key"
	RejectInvalidKey  = "invalid_key"
	RejectInvalidEPA  = "invalid_epa"
	RejectInvalidWP   = "invalid_wp"
	RejectInvalidYard = "invalid_yards"
	RejectInvalidNum  = "invalid_number"
	RejectShortRow    = "short_row"
)
