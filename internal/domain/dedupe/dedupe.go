// Package dedupe collapses entries that refer to the same real-world team.
package dedupe

import (
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/internal/domain/record"
)

// Deduper merges teams keyed by normalized external id.
type Deduper struct {
	key func(model.Team) string
}

// NewDeduper creates a new deduper with configuration options.
func NewDeduper(opts ...Option) *Deduper {
	d := &Deduper{key: Key}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Key is the default dedup key, model.Team.Key. The assembler keys on the
// same value, so a custom key must not merge less than it.
func Key(t model.Team) string { return t.Key() }

// Dedupe returns one team per key in first-occurrence order. Later
// occurrences only fill what the first one is missing.
func (d *Deduper) Dedupe(teams []model.Team) []model.Team {
	index := make(map[string]int, len(teams))
	out := make([]model.Team, 0, len(teams))
	for _, t := range teams {
		k := d.key(t)
		if i, seen := index[k]; seen {
			out[i] = Merge(out[i], t)
			continue
		}
		index[k] = len(out)
		out = append(out, t)
	}
	return out
}

// Duplicates counts how many entries Dedupe would fold away.
func (d *Deduper) Duplicates(teams []model.Team) int {
	seen := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		seen[d.key(t)] = struct{}{}
	}
	return len(teams) - len(seen)
}

// Merge folds next into existing without overwriting known values.
func Merge(existing, next model.Team) model.Team {
	if !existing.SOR.Valid() && next.SOR.Valid() {
		existing.SOR = next.SOR
	}
	if !record.Present(existing.Record) && record.Present(next.Record) {
		r := record.Parse(next.Record)
		existing.Record, existing.Wins, existing.Losses = next.Record, r.Wins, r.Losses
	}
	if !existing.Rank.Valid() && next.Rank.Valid() {
		existing.Rank = next.Rank
	}
	if existing.HasUnknownConference() && !next.HasUnknownConference() {
		existing.Conference = next.Conference
	}
	fill(&existing.Name, next.Name)
	fill(&existing.ShortName, next.ShortName)
	fill(&existing.Logo, next.Logo)
	fill(&existing.Color, next.Color)
	return existing
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
