// Package engine wires the ranking pipeline from a single set of tables:
// normalize, dedupe, resolve conferences, then seed a bracket. An Engine is
// immutable after New and safe for concurrent use.
package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/okian/seedline/internal/domain/autobid"
	"github.com/okian/seedline/internal/domain/conference"
	"github.com/okian/seedline/internal/domain/dedupe"
	"github.com/okian/seedline/internal/domain/headtohead"
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/internal/domain/normalize"
	"github.com/okian/seedline/internal/domain/record"
	"github.com/okian/seedline/internal/domain/scoring"
	"github.com/okian/seedline/internal/domain/seeding"
	"github.com/okian/seedline/internal/domain/tables"
)

// Engine computes brackets.
type Engine struct {
	tables     tables.Tables
	normalizer *normalize.Normalizer
	deduper    *dedupe.Deduper
	resolver   *conference.Resolver
	h2h        *headtohead.Resolver
	scorer     *scoring.Scorer
	assembler  *seeding.Assembler
}

// Result is one evaluation of the inputs in every mode.
type Result struct {
	Teams      []model.Team
	Duplicates int
	Brackets   map[model.Mode]model.Bracket
}

// New builds an Engine from tables.
func New(t tables.Tables) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	h2h, err := headtohead.New(t.HeadToHead)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	scorer := scoring.NewScorer(
		scoring.WithWeights(t.Weights),
		scoring.WithPowerConferences(t.PowerConferences),
	)
	return &Engine{
		tables:     t,
		normalizer: normalize.NewNormalizer(normalize.WithExceptions(t.RecordExceptions)),
		deduper:    dedupe.NewDeduper(),
		resolver: conference.NewResolver(
			conference.WithOverrides(t.ConferenceOverrides),
			conference.WithHints(t.ConferenceHints),
		),
		h2h:    h2h,
		scorer: scorer,
		assembler: seeding.NewAssembler(
			autobid.NewSelector(t.PowerConferences, autobid.WithHeadToHead(h2h)),
			scorer,
			seeding.WithHeadToHead(h2h),
		),
	}, nil
}

// MustNew is New that panics on invalid tables.
func MustNew(t tables.Tables) *Engine {
	e, err := New(t)
	if err != nil {
		panic(err)
	}
	return e
}

// Tables returns the tables the engine was built with.
func (e *Engine) Tables() tables.Tables { return e.tables }

// Prepare turns raw multi-source inputs into canonical, unique teams with
// resolved conferences.
func (e *Engine) Prepare(in model.Inputs) []model.Team {
	teams, _ := e.prepare(in)
	return teams
}

func (e *Engine) prepare(in model.Inputs) ([]model.Team, int) {
	raw := e.normalizer.NormalizeAll(in)
	dups := e.deduper.Duplicates(raw)
	return e.resolver.ResolveAll(e.deduper.Dedupe(raw)), dups
}

// ComputeBracket seeds already-shaped teams. Records are parsed, duplicates
// merged and conferences resolved before seeding.
func (e *Engine) ComputeBracket(teams []model.Team, mode model.Mode) (model.Bracket, error) {
	parsed := make([]model.Team, len(teams))
	for i, t := range teams {
		if strings.TrimSpace(t.Record) != "" {
			r := record.Parse(t.Record)
			t.Wins, t.Losses = r.Wins, r.Losses
		}
		parsed[i] = t
	}
	clean := e.resolver.ResolveAll(e.deduper.Dedupe(parsed))
	return e.assembler.Assemble(clean, mode)
}

// Run prepares inputs and seeds one bracket.
func (e *Engine) Run(in model.Inputs, mode model.Mode) (model.Bracket, error) {
	return e.assembler.Assemble(e.Prepare(in), mode)
}

// Evaluate prepares inputs once and seeds a bracket in every mode.
func (e *Engine) Evaluate(in model.Inputs) (Result, error) {
	teams, dups := e.prepare(in)
	res := Result{
		Teams:      teams,
		Duplicates: dups,
		Brackets:   make(map[model.Mode]model.Bracket, len(model.Modes)),
	}
	for _, mode := range model.Modes {
		b, err := e.assembler.Assemble(teams, mode)
		if err != nil {
			return Result{}, fmt.Errorf("evaluate %s: %w", mode, err)
		}
		res.Brackets[mode] = b
	}
	return res, nil
}

// ComputeFairScore is the fitness score of one team.
func (e *Engine) ComputeFairScore(t model.Team) float64 {
	return e.scorer.Score(t)
}

// ResolveConference is the conference the engine assigns to one team.
func (e *Engine) ResolveConference(t model.Team) string {
	return e.resolver.Resolve(t)
}

// HeadToHead exposes the compiled tie-break oracle.
func (e *Engine) HeadToHead() *headtohead.Resolver { return e.h2h }

var defaultEngine = sync.OnceValue(func() *Engine {
	return MustNew(tables.Default())
})

// Default returns an Engine over the shipped tables.
func Default() *Engine { return defaultEngine() }

// ComputeBracket seeds teams with the shipped tables.
func ComputeBracket(teams []model.Team, mode model.Mode) (model.Bracket, error) {
	return Default().ComputeBracket(teams, mode)
}

// ComputeFairScore scores a team with the shipped weights.
func ComputeFairScore(t model.Team) float64 {
	return Default().ComputeFairScore(t)
}

// ResolveConference resolves a team's conference with the shipped tables.
func ResolveConference(t model.Team) string {
	return Default().ResolveConference(t)
}
