package bracketcli

import "errors"

var (
	// ErrBadMode is returned when -mode is not fair, direct or both.
	ErrBadMode = errors.New("mode must be fair, direct or both")
	// ErrNoInputs is returned when the inputs carry no rankings.
	ErrNoInputs = errors.New("inputs contain no rankings")
)
