// Package autobid picks the leading team of each power conference.
package autobid

import (
	"slices"
	"strings"

	"github.com/okian/seedline/internal/domain/conference"
	"github.com/okian/seedline/internal/domain/headtohead"
	"github.com/okian/seedline/internal/domain/model"
)

// unrankedRank stands in for an absent poll rank.
const unrankedRank = 999

// HeadToHead is the tie-break oracle consulted by the comparator.
type HeadToHead interface {
	Resolve(a, b model.Team) headtohead.Verdict
}

// Selector selects at most one auto-bid per power conference.
type Selector struct {
	powers []conference.PowerConference
	h2h    HeadToHead
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithHeadToHead sets the head-to-head oracle.
func WithHeadToHead(h HeadToHead) Option {
	return func(s *Selector) {
		if h != nil {
			s.h2h = h
		}
	}
}

// NewSelector creates a selector for the ordered power conferences.
func NewSelector(powers []conference.PowerConference, opts ...Option) *Selector {
	s := &Selector{powers: powers}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns one leader per power conference, in conference order,
// marked as auto-bids. Conferences without candidates are skipped. A team
// can lead only one conference.
func (s *Selector) Select(teams []model.Team) []model.Team {
	taken := make(map[string]bool)
	out := make([]model.Team, 0, len(s.powers))
	for _, p := range s.powers {
		var candidates []model.Team
		for _, t := range teams {
			if !taken[t.Key()] && conference.Matches(t.Conference, p) {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		slices.SortStableFunc(candidates, s.Compare)
		leader := candidates[0]
		leader.AutoBid = true
		taken[leader.Key()] = true
		out = append(out, leader)
	}
	return out
}

// Compare orders two conference rivals; negative means a ranks ahead.
func (s *Selector) Compare(a, b model.Team) int {
	if a.Losses != b.Losses {
		return a.Losses - b.Losses
	}
	if a.Losses == 0 && b.Losses == 0 {
		if c := a.Rank.Or(unrankedRank) - b.Rank.Or(unrankedRank); c != 0 {
			return c
		}
	}
	if a.Losses > 0 && b.Losses > 0 && a.Wins != b.Wins {
		return b.Wins - a.Wins
	}
	if s.h2h != nil {
		switch s.h2h.Resolve(a, b) {
		case headtohead.VerdictA:
			return -1
		case headtohead.VerdictB:
			return 1
		}
	}
	if c := a.Rank.Or(unrankedRank) - b.Rank.Or(unrankedRank); c != 0 {
		return c
	}
	if c := model.CompareOrdinals(a.SOR, b.SOR); c != 0 {
		return c
	}
	return strings.Compare(a.Key(), b.Key())
}
