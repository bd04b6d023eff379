package headtohead

import "errors"

// Sentinel kinds for head-to-head configuration errors.
var (
	ErrEmptyAliases = errors.New("alias list is empty")
	ErrSelfResult   = errors.New("winner and loser are the same group")
)
