package tables

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidTables = errors.New("invalid tables")
	ErrLoadTables    = errors.New("load tables failed")
)
