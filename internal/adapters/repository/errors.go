package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound   = errors.New("no snapshot for mode")
	ErrEmptyCycle = errors.New("cycle has no brackets")
	ErrStaleCycle = errors.New("cycle older than stored snapshot")
)
