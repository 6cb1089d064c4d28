package convert

import "errors"

// Sentinel kinds for conversion errors.
var (
	ErrInvalidSeasons = errors.New("invalid seasons")
	ErrNoSources      = errors.New("no csv season files to convert")
	ErrWrite          = errors.New("write parquet file")
)
