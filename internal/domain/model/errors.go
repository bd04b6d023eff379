package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownMode = errors.New("unknown seeding mode")
)
