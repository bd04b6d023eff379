// Package normalize merges one team's identity, record, conference and SOR
// from several untrusted feeds into a canonical model.Team.
package normalize

import (
	"slices"
	"strings"
	"time"

	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/internal/domain/record"
)

// Source names a feed class; a priority is an ordered list of them.
type Source string

const (
	// SourceLive is the authoritative live feed, matched by external id.
	SourceLive Source = "live"
	// SourceSecondary is any other record feed, matched by exact display name.
	SourceSecondary Source = "secondary"
	// SourceSOR is the supplemental strength-of-record feed.
	SourceSOR Source = "sor"
	// SourceDefault is whatever the rankings feed itself carried.
	SourceDefault Source = "default"
)

// DefaultPriority is the documented resolution order, highest first.
var DefaultPriority = []Source{SourceLive, SourceSecondary, SourceSOR, SourceDefault}

// Candidate is one feed's opinion about a team. Any field may be empty.
type Candidate struct {
	Source     Source
	Record     string
	Conference string
	SOR        model.Ordinal
	AsOf       time.Time
}

// Exception reorders sources for one team, matched by alias substring on
// its name or short name.
type Exception struct {
	Name     string   `koanf:"name" json:"name"`
	Aliases  []string `koanf:"aliases" json:"aliases"`
	Priority []Source `koanf:"priority" json:"priority"`
	// ByRecency puts the most recently announced dated record first.
	ByRecency bool `koanf:"by_recency" json:"byRecency"`
}

// Matches reports whether t is the team this exception names.
func (e Exception) Matches(t model.Team) bool {
	name, short := strings.ToLower(t.Name), strings.ToLower(t.ShortName)
	for _, a := range e.Aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if strings.Contains(name, a) || strings.Contains(short, a) {
			return true
		}
	}
	return false
}

// Normalizer resolves canonical teams from candidates.
type Normalizer struct {
	priority   []Source
	exceptions []Exception
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithPriority replaces the default source priority.
func WithPriority(p []Source) Option {
	return func(n *Normalizer) {
		if len(p) > 0 {
			n.priority = p
		}
	}
}

// WithExceptions sets the per-team exception table.
func WithExceptions(ex []Exception) Option {
	return func(n *Normalizer) {
		n.exceptions = ex
	}
}

// NewNormalizer creates a Normalizer with configuration options.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{priority: DefaultPriority}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize resolves record, conference and SOR from candidates. Each field
// takes the first present value in priority order.
func (n *Normalizer) Normalize(identity model.Team, candidates []Candidate) model.Team {
	ordered := n.order(identity, candidates)

	t := identity
	t.Seed, t.FairRankScore, t.AutoBid = 0, nil, false

	if rec, ok := firstPresent(ordered, func(c Candidate) (string, bool) {
		return c.Record, record.Present(c.Record)
	}); ok {
		t.Record = rec
	} else if strings.TrimSpace(t.Record) == "" {
		t.Record = "0-0"
	}
	r := record.Parse(t.Record)
	t.Wins, t.Losses = r.Wins, r.Losses

	if conf, ok := firstPresent(ordered, func(c Candidate) (string, bool) {
		ct := strings.TrimSpace(c.Conference)
		return ct, ct != "" && !strings.EqualFold(ct, model.UnknownConference)
	}); ok {
		t.Conference = conf
	} else if t.HasUnknownConference() {
		t.Conference = model.UnknownConference
	}

	if sor, ok := firstPresent(ordered, func(c Candidate) (model.Ordinal, bool) {
		return c.SOR, c.SOR.Valid()
	}); ok {
		t.SOR = sor
	}
	return t
}

// order sorts candidates by the priority that applies to this team.
// Candidates from unlisted sources keep their relative order at the end.
func (n *Normalizer) order(identity model.Team, candidates []Candidate) []Candidate {
	priority := n.priority
	byRecency := false
	for _, ex := range n.exceptions {
		if ex.Matches(identity) {
			if len(ex.Priority) > 0 {
				priority = ex.Priority
			}
			byRecency = ex.ByRecency
			break
		}
	}
	rank := func(s Source) int {
		if i := slices.Index(priority, s); i >= 0 {
			return i
		}
		return len(priority)
	}

	out := slices.Clone(candidates)
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if byRecency {
			ad, bd := !a.AsOf.IsZero(), !b.AsOf.IsZero()
			if ad != bd {
				if ad {
					return -1
				}
				return 1
			}
			if ad && !a.AsOf.Equal(b.AsOf) {
				if a.AsOf.After(b.AsOf) {
					return -1
				}
				return 1
			}
		}
		return rank(a.Source) - rank(b.Source)
	})
	return out
}

// firstPresent is the single reducer every merge point goes through.
func firstPresent[T any](candidates []Candidate, get func(Candidate) (T, bool)) (T, bool) {
	for _, c := range candidates {
		if v, ok := get(c); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
