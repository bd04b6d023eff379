// Package headtohead answers "who won when these two played" from a static
// table of known results. It is a lookup table, not a schedule model.
package headtohead

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/okian/seedline/internal/domain/model"
)

// Result is one configured game: any team matching Winner beat any team
// matching Loser.
type Result struct {
	Winner []string `koanf:"winner" json:"winner"`
	Loser  []string `koanf:"loser" json:"loser"`
}

// Verdict is the outcome of a head-to-head lookup.
type Verdict int

const (
	// VerdictNone means no configured result covers both teams.
	VerdictNone Verdict = iota
	// VerdictA means the first team won.
	VerdictA
	// VerdictB means the second team won.
	VerdictB
)

// Resolver holds the results as a directed winner -> loser graph over alias
// groups.
type Resolver struct {
	results graph.Graph[string, string]
	groups  map[string][]string
}

// New compiles results into a Resolver. Entries with an empty side are
// rejected.
func New(results []Result) (*Resolver, error) {
	r := &Resolver{
		results: graph.New(graph.StringHash, graph.Directed()),
		groups:  make(map[string][]string),
	}
	for i, res := range results {
		w, err := r.addGroup(res.Winner)
		if err != nil {
			return nil, fmt.Errorf("head-to-head result %d winner: %w", i, err)
		}
		l, err := r.addGroup(res.Loser)
		if err != nil {
			return nil, fmt.Errorf("head-to-head result %d loser: %w", i, err)
		}
		if w == l {
			return nil, fmt.Errorf("head-to-head result %d: %w", i, ErrSelfResult)
		}
		if err := r.results.AddEdge(w, l); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("head-to-head result %d: %w", i, err)
		}
	}
	return r, nil
}

// addGroup registers an alias group as a vertex keyed by its normalized
// aliases and returns the key.
func (r *Resolver) addGroup(aliases []string) (string, error) {
	norm := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			norm = append(norm, a)
		}
	}
	if len(norm) == 0 {
		return "", ErrEmptyAliases
	}
	key := strings.Join(norm, "|")
	if err := r.results.AddVertex(key); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return "", err
	}
	r.groups[key] = norm
	return key, nil
}

// Resolve reports which of a and b won a configured meeting. Conflicting
// results (each beat the other) resolve to VerdictNone.
func (r *Resolver) Resolve(a, b model.Team) Verdict {
	if r == nil || len(r.groups) == 0 {
		return VerdictNone
	}
	ka, kb := r.matching(a), r.matching(b)
	aWon, bWon := false, false
	for _, x := range ka {
		for _, y := range kb {
			if x == y {
				continue
			}
			if r.beat(x, y) {
				aWon = true
			}
			if r.beat(y, x) {
				bWon = true
			}
		}
	}
	switch {
	case aWon && !bWon:
		return VerdictA
	case bWon && !aWon:
		return VerdictB
	}
	return VerdictNone
}

// Len is the number of configured results.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	n, err := r.results.Size()
	if err != nil {
		return 0
	}
	return n
}

func (r *Resolver) beat(winner, loser string) bool {
	_, err := r.results.Edge(winner, loser)
	return err == nil
}

func (r *Resolver) matching(t model.Team) []string {
	name, short := strings.ToLower(t.Name), strings.ToLower(t.ShortName)
	var keys []string
	for key, aliases := range r.groups {
		for _, a := range aliases {
			if (name != "" && strings.Contains(name, a)) || (short != "" && strings.Contains(short, a)) {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}
