package sorstore

import "errors"

// Sentinel kinds for SOR store errors.
var (
	ErrUnsupportedDriver = errors.New("unsupported sql driver")
	ErrEmptyDSN          = errors.New("empty dsn")
)
