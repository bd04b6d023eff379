package upstream

import "errors"

// Sentinel kinds for upstream errors.
var (
	ErrUpstreamStatus = errors.New("upstream returned non-200 status")
	ErrDecode         = errors.New("decoding upstream response")
	ErrNoPoll         = errors.New("rankings response has no poll")
	ErrQueueFull      = errors.New("fetch queue full")
	ErrNotRun         = errors.New("source not fetched")
)
