// Package seeding assembles the ordered playoff bracket.
package seeding

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/okian/seedline/internal/domain/headtohead"
	"github.com/okian/seedline/internal/domain/model"
)

const (
	unrankedRank = 999
	// scores closer than this are equal for tie-break purposes
	scoreEpsilon = 1e-9
)

// AutoBids selects conference leaders.
type AutoBids interface {
	Select(teams []model.Team) []model.Team
}

// Scorer computes the fitness score.
type Scorer interface {
	Score(t model.Team) float64
}

// HeadToHead breaks exact score ties.
type HeadToHead interface {
	Resolve(a, b model.Team) headtohead.Verdict
}

// Assembler builds brackets in either mode.
type Assembler struct {
	autoBids AutoBids
	scorer   Scorer
	h2h      HeadToHead
	size     int
	nextOut  int
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithHeadToHead sets the tie-break oracle for equal at-large scores.
func WithHeadToHead(h HeadToHead) Option {
	return func(a *Assembler) {
		if h != nil {
			a.h2h = h
		}
	}
}

// WithSize overrides the bracket size and next-out count.
func WithSize(size, nextOut int) Option {
	return func(a *Assembler) {
		if size > 0 {
			a.size = size
		}
		if nextOut >= 0 {
			a.nextOut = nextOut
		}
	}
}

// NewAssembler creates an Assembler.
func NewAssembler(autoBids AutoBids, scorer Scorer, opts ...Option) *Assembler {
	a := &Assembler{
		autoBids: autoBids,
		scorer:   scorer,
		size:     model.BracketSize,
		nextOut:  model.NextOutSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble seeds teams with the selected strategy. Duplicate ids are an
// upstream dedup defect and fail with ErrDuplicateTeam. With fewer teams
// than seeds the bracket is partial.
func (a *Assembler) Assemble(teams []model.Team, mode model.Mode) (model.Bracket, error) {
	if err := checkUnique(teams); err != nil {
		return model.Bracket{}, err
	}
	switch mode {
	case model.ModeDirect:
		return a.direct(teams), nil
	case model.ModeFair:
		return a.fair(teams), nil
	}
	return model.Bracket{}, fmt.Errorf("assemble: %w", model.ErrUnknownMode)
}

func (a *Assembler) direct(teams []model.Team) model.Bracket {
	ordered := slices.Clone(teams)
	slices.SortStableFunc(ordered, func(x, y model.Team) int {
		return x.Rank.Or(unrankedRank) - y.Rank.Or(unrankedRank)
	})
	seeds, rest := split(ordered, a.size)
	return model.Bracket{
		Mode:    model.ModeDirect,
		Seeds:   numbered(seeds, 1),
		NextOut: unseeded(head(rest, a.nextOut)),
	}
}

func (a *Assembler) fair(teams []model.Team) model.Bracket {
	bids := a.autoBids.Select(teams)
	if len(bids) > a.size {
		bids = bids[:a.size]
	}
	taken := make(map[string]bool, len(bids))
	for i := range bids {
		bids[i] = a.annotate(bids[i])
		taken[bids[i].Key()] = true
	}
	slices.SortStableFunc(bids, func(x, y model.Team) int {
		return compareScores(*x.FairRankScore, *y.FairRankScore)
	})

	pool := make([]model.Team, 0, len(teams))
	for _, t := range teams {
		if taken[t.Key()] {
			continue
		}
		t.AutoBid = false
		pool = append(pool, a.annotate(t))
	}
	slices.SortStableFunc(pool, a.compareAtLarge)

	atLarge, rest := split(pool, a.size-len(bids))
	seeds := append(numbered(bids, 1), numbered(atLarge, len(bids)+1)...)
	return model.Bracket{
		Mode:    model.ModeFair,
		Seeds:   seeds,
		NextOut: unseeded(head(rest, a.nextOut)),
	}
}

func (a *Assembler) annotate(t model.Team) model.Team {
	score := a.scorer.Score(t)
	t.FairRankScore = &score
	return t
}

// compareAtLarge orders by score desc, then head-to-head, then poll rank.
func (a *Assembler) compareAtLarge(x, y model.Team) int {
	if c := compareScores(*x.FairRankScore, *y.FairRankScore); c != 0 {
		return c
	}
	if a.h2h != nil {
		switch a.h2h.Resolve(x, y) {
		case headtohead.VerdictA:
			return -1
		case headtohead.VerdictB:
			return 1
		}
	}
	if c := x.Rank.Or(unrankedRank) - y.Rank.Or(unrankedRank); c != 0 {
		return c
	}
	return strings.Compare(x.Key(), y.Key())
}

// compareScores sorts higher scores first, treating near-equal as equal.
func compareScores(x, y float64) int {
	if math.Abs(x-y) <= scoreEpsilon {
		return 0
	}
	if x > y {
		return -1
	}
	return 1
}

func checkUnique(teams []model.Team) error {
	seen := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		k := t.Key()
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateTeam, t.Label())
		}
		seen[k] = struct{}{}
	}
	return nil
}

func split(teams []model.Team, n int) ([]model.Team, []model.Team) {
	if n < 0 {
		n = 0
	}
	if n > len(teams) {
		n = len(teams)
	}
	return teams[:n], teams[n:]
}

func head(teams []model.Team, n int) []model.Team {
	first, _ := split(teams, n)
	return first
}

// numbered copies teams and assigns consecutive seeds from start.
func numbered(teams []model.Team, start int) []model.Team {
	out := make([]model.Team, len(teams))
	for i, t := range teams {
		t.Seed = start + i
		out[i] = t
	}
	return out
}

// unseeded copies teams with any seed removed.
func unseeded(teams []model.Team) []model.Team {
	out := make([]model.Team, len(teams))
	for i, t := range teams {
		t.Seed = 0
		out[i] = t
	}
	return out
}
