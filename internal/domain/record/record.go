// Package record parses win-loss strings reported by upstream feeds.
package record

import (
	"regexp"
	"strconv"
)

var pattern = regexp.MustCompile(`(\d+)-(\d+)`)

// Record is a parsed win-loss record. Ties are not modeled.
type Record struct {
	Wins   int
	Losses int
}

// Parse reads the first "W-L" pair in raw. Any trailing group (ties) is
// ignored. Empty, malformed or out-of-range input yields 0-0.
func Parse(raw string) Record {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return Record{}
	}
	w, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}
	}
	l, err := strconv.Atoi(m[2])
	if err != nil {
		return Record{}
	}
	return Record{Wins: w, Losses: l}
}

// Total is the number of decided games.
func (r Record) Total() int { return r.Wins + r.Losses }

// IsZero reports the degenerate 0-0 record.
func (r Record) IsZero() bool { return r.Wins == 0 && r.Losses == 0 }

func (r Record) String() string {
	return strconv.Itoa(r.Wins) + "-" + strconv.Itoa(r.Losses)
}

// Present reports whether raw carries a usable, non-degenerate record.
func Present(raw string) bool {
	return !Parse(raw).IsZero()
}
