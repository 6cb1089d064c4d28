package service

import "errors"

// Sentinel error kinds for the service.
var (
	ErrNoSource    = errors.New("no dataset source configured")
	ErrLoadDataset = errors.New("load dataset")
)
