// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// UnknownConference marks a team whose conference has not been resolved.
const UnknownConference = "Unknown"

// BracketSize is the number of seeds in an assembled bracket.
const BracketSize = 12

// NextOutSize is the number of teams listed just outside the bracket.
const NextOutSize = 2

// Team is the canonical team record rebuilt on every refresh cycle.
type Team struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ShortName  string  `json:"shortName"`
	Conference string  `json:"conference"`
	Record     string  `json:"record"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Rank       Ordinal `json:"rank"`
	SOR        Ordinal `json:"sor"`
	Logo       string  `json:"logo,omitempty"`
	Color      string  `json:"color,omitempty"`

	// Output-only fields set by the seed assembler.
	Seed          int      `json:"seed,omitempty"`
	FairRankScore *float64 `json:"fairRankScore,omitempty"`
	AutoBid       bool     `json:"autoBid,omitempty"`
}

// HasUnknownConference reports whether the conference is empty or "Unknown".
func (t Team) HasUnknownConference() bool {
	c := strings.TrimSpace(t.Conference)
	return c == "" || strings.EqualFold(c, UnknownConference)
}

// Key identifies the team everywhere teams are merged or compared: the
// trimmed, lower-cased id, or the lower-cased name when the feed sent no id.
func (t Team) Key() string {
	if id := strings.ToLower(strings.TrimSpace(t.ID)); id != "" {
		return id
	}
	return "name:" + strings.ToLower(strings.TrimSpace(t.Name))
}

// Label is a short human-readable identity used in logs.
func (t Team) Label() string {
	if t.ShortName != "" {
		return fmt.Sprintf("%s (%s)", t.ShortName, t.ID)
	}
	return fmt.Sprintf("%s (%s)", t.Name, t.ID)
}

// Mode selects the seeding strategy.
type Mode int

const (
	// ModeFair seeds conference auto-bids first, then at-large teams by fitness score.
	ModeFair Mode = iota
	// ModeDirect seeds teams straight from the external poll rank.
	ModeDirect
)

// Modes lists every seeding mode.
var Modes = []Mode{ModeFair, ModeDirect}

func (m Mode) String() string {
	switch m {
	case ModeFair:
		return "fair"
	case ModeDirect:
		return "direct"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses "fair" or "direct" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fair", "fair-rank", "fair_rank":
		return ModeFair, nil
	case "direct", "rank", "direct-rank", "direct_rank":
		return ModeDirect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Bracket is the ordered output of the seed assembler.
type Bracket struct {
	Mode    Mode   `json:"mode"`
	Seeds   []Team `json:"seeds"`
	NextOut []Team `json:"nextOut"`
}
