package seeding

import "errors"

// Sentinel kinds for seeding errors.
var (
	ErrDuplicateTeam = errors.New("duplicate team id in bracket input")
)
