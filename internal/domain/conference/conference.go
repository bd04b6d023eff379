// Package conference maps teams to their authoritative conference.
package conference

import (
	"strings"
	"unicode"

	"github.com/okian/seedline/internal/domain/model"
)

// Hint maps a case-insensitive name substring to a conference.
type Hint struct {
	Match      string `koanf:"match" json:"match"`
	Conference string `koanf:"conference" json:"conference"`
}

// PowerConference is a top-tier conference eligible for an auto-bid.
type PowerConference struct {
	Name    string   `koanf:"name" json:"name"`
	Aliases []string `koanf:"aliases" json:"aliases"`
}

// Resolver resolves a team's conference from an id override table, then
// ordered name hints, then whatever the team already carries.
type Resolver struct {
	overrides map[string]string
	hints     []Hint
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithOverrides sets the id -> conference override table.
func WithOverrides(overrides map[string]string) Option {
	return func(r *Resolver) {
		for id, conf := range overrides {
			r.overrides[strings.TrimSpace(id)] = conf
		}
	}
}

// WithHints sets the ordered name-substring heuristics.
func WithHints(hints []Hint) Option {
	return func(r *Resolver) {
		r.hints = make([]Hint, 0, len(hints))
		for _, h := range hints {
			if strings.TrimSpace(h.Match) == "" {
				continue
			}
			r.hints = append(r.hints, Hint{Match: strings.ToLower(h.Match), Conference: h.Conference})
		}
	}
}

// NewResolver creates a Resolver with configuration options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{overrides: make(map[string]string)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the team's conference. It is idempotent: feeding the
// result back as the team's conference yields the same answer.
func (r *Resolver) Resolve(t model.Team) string {
	if conf, ok := r.overrides[strings.TrimSpace(t.ID)]; ok && conf != "" {
		return conf
	}
	for _, name := range []string{t.Name, t.ShortName} {
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		for _, h := range r.hints {
			if strings.Contains(lower, h.Match) {
				return h.Conference
			}
		}
	}
	if t.HasUnknownConference() {
		return model.UnknownConference
	}
	return t.Conference
}

// ResolveAll returns a copy of teams with conferences resolved.
func (r *Resolver) ResolveAll(teams []model.Team) []model.Team {
	out := make([]model.Team, len(teams))
	for i, t := range teams {
		t.Conference = r.Resolve(t)
		out[i] = t
	}
	return out
}

// Matches reports whether conference names the power conference p, either
// by its name or an alias. Case, spacing and hyphens are ignored.
func Matches(conference string, p PowerConference) bool {
	c := compact(conference)
	if c == "" {
		return false
	}
	for _, name := range append([]string{p.Name}, p.Aliases...) {
		if n := compact(name); n != "" && strings.Contains(c, n) {
			return true
		}
	}
	return false
}

// IsPower reports whether conference matches any of powers.
func IsPower(conference string, powers []PowerConference) bool {
	for _, p := range powers {
		if Matches(conference, p) {
			return true
		}
	}
	return false
}

func compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
