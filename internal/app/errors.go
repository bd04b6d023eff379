package service

import "errors"

// Sentinel kinds for refresh and read errors.
var (
	ErrSuperseded = errors.New("refresh superseded by a newer cycle")
	ErrAbandoned  = errors.New("refresh abandoned")
	ErrNoRankings = errors.New("rankings source returned nothing")
	ErrNotReady   = errors.New("no bracket published yet")
)
