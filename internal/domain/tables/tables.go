// Package tables holds the static data the ranking engine is tuned with:
// power conferences, conference overrides, head-to-head results, record
// source exceptions and scoring weights. The defaults are versioned here;
// a YAML file can replace any section.
package tables

import (
	"context"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/seedline/internal/domain/conference"
	"github.com/okian/seedline/internal/domain/headtohead"
	"github.com/okian/seedline/internal/domain/normalize"
	"github.com/okian/seedline/internal/domain/scoring"
)

// Version identifies the shipped default data set.
const Version = "2025.1"

// Tables is the full static configuration of the engine.
type Tables struct {
	PowerConferences    []conference.PowerConference `koanf:"power_conferences" json:"powerConferences"`
	ConferenceOverrides map[string]string            `koanf:"conference_overrides" json:"conferenceOverrides"`
	ConferenceHints     []conference.Hint            `koanf:"conference_hints" json:"conferenceHints"`
	HeadToHead          []headtohead.Result          `koanf:"head_to_head" json:"headToHead"`
	RecordExceptions    []normalize.Exception        `koanf:"record_exceptions" json:"recordExceptions"`
	Weights             scoring.Weights              `koanf:"weights" json:"weights"`
}

// Default returns the shipped tables. Each call returns a fresh copy.
func Default() Tables {
	return Tables{
		PowerConferences: []conference.PowerConference{
			{Name: "SEC", Aliases: []string{"Southeastern"}},
			{Name: "Big Ten", Aliases: []string{"Big 10"}},
			{Name: "Big 12", Aliases: []string{"Big XII"}},
			{Name: "ACC", Aliases: []string{"Atlantic Coast"}},
		},
		ConferenceOverrides: map[string]string{
			"252":  "Big 12",        // BYU
			"9":    "Big 12",        // Arizona State
			"66":   "Big 12",        // Iowa State
			"2116": "Big 12",        // UCF
			"194":  "Big Ten",       // Ohio State
			"2483": "Big Ten",       // Oregon
			"84":   "Big Ten",       // Indiana
			"61":   "SEC",           // Georgia
			"251":  "SEC",           // Texas
			"2390": "ACC",           // Miami
			"2567": "ACC",           // SMU
			"228":  "ACC",           // Clemson
			"87":   "Independent",   // Notre Dame
			"68":   "Mountain West", // Boise State
		},
		ConferenceHints: []conference.Hint{
			{Match: "notre dame", Conference: "Independent"},
			{Match: "boise state", Conference: "Mountain West"},
			{Match: "unlv", Conference: "Mountain West"},
			{Match: "army", Conference: "American"},
			{Match: "tulane", Conference: "American"},
			{Match: "memphis", Conference: "American"},
			{Match: "james madison", Conference: "Sun Belt"},
		},
		HeadToHead: []headtohead.Result{
			{Winner: []string{"arizona state", "arizona st"}, Loser: []string{"byu", "brigham young"}},
			{Winner: []string{"byu", "brigham young"}, Loser: []string{"smu", "southern methodist"}},
			{Winner: []string{"oregon ducks"}, Loser: []string{"ohio state", "ohio st"}},
			{Winner: []string{"georgia bulldogs"}, Loser: []string{"texas longhorns"}},
			{Winner: []string{"ohio state", "ohio st"}, Loser: []string{"indiana hoosiers"}},
		},
		RecordExceptions: []normalize.Exception{
			{Name: "BYU", Aliases: []string{"byu", "brigham young"}, ByRecency: true},
		},
		Weights: scoring.DefaultWeights(),
	}
}

// Load reads tables from a YAML file. Sections absent from the file keep
// their default value; weight fields that are absent or zero do as well.
func Load(_ context.Context, path string) (Tables, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Tables{}, fmt.Errorf("%w: %s: %w", ErrLoadTables, path, err)
	}

	// Decode into a zero value so file slices replace the defaults rather
	// than overlaying them element by element.
	var f Tables
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Tables{}, fmt.Errorf("%w: %s: %w", ErrLoadTables, path, err)
	}

	t := Default()
	if k.Exists("power_conferences") {
		t.PowerConferences = f.PowerConferences
	}
	if k.Exists("conference_overrides") {
		t.ConferenceOverrides = f.ConferenceOverrides
	}
	if k.Exists("conference_hints") {
		t.ConferenceHints = f.ConferenceHints
	}
	if k.Exists("head_to_head") {
		t.HeadToHead = f.HeadToHead
	}
	if k.Exists("record_exceptions") {
		t.RecordExceptions = f.RecordExceptions
	}
	if k.Exists("weights") {
		t.Weights = mergeWeights(f.Weights, t.Weights)
	}

	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func mergeWeights(w, def scoring.Weights) scoring.Weights {
	if w.RecordWeight == 0 {
		w.RecordWeight = def.RecordWeight
	}
	if w.SORWeight == 0 {
		w.SORWeight = def.SORWeight
	}
	if w.SORCutoff == 0 {
		w.SORCutoff = def.SORCutoff
	}
	if w.PowerMultiplier == 0 {
		w.PowerMultiplier = def.PowerMultiplier
	}
	if w.G5Multiplier == 0 {
		w.G5Multiplier = def.G5Multiplier
	}
	if w.WinBonuses == nil {
		w.WinBonuses = def.WinBonuses
	}
	if w.LossPenalties == nil {
		w.LossPenalties = def.LossPenalties
	}
	return w
}

// Validate rejects tables the engine cannot run with.
func (t Tables) Validate() error {
	if len(t.PowerConferences) == 0 {
		return fmt.Errorf("%w: no power conferences", ErrInvalidTables)
	}
	for i, p := range t.PowerConferences {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: power conference %d has no name", ErrInvalidTables, i)
		}
	}
	for id, conf := range t.ConferenceOverrides {
		if strings.TrimSpace(conf) == "" {
			return fmt.Errorf("%w: override for %q is empty", ErrInvalidTables, id)
		}
	}
	for i, h := range t.ConferenceHints {
		if strings.TrimSpace(h.Match) == "" || strings.TrimSpace(h.Conference) == "" {
			return fmt.Errorf("%w: conference hint %d is incomplete", ErrInvalidTables, i)
		}
	}
	if t.Weights.SORCutoff < 0 {
		return fmt.Errorf("%w: negative sor cutoff", ErrInvalidTables)
	}
	return nil
}
