// Package scoring computes the fair-ranking fitness score for a team.
package scoring

import (
	"math"

	"github.com/okian/seedline/internal/domain/conference"
	"github.com/okian/seedline/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultRecordWeight     = 0.70
	defaultSORWeight        = 0.30
	defaultSORCutoff        = 100
	defaultG5Multiplier     = 0.85
	defaultPowerMultiplier  = 1.0
	percentScale            = 100.0
	defaultBonusElevenWins  = 15
	defaultBonusTenWins     = 10
	defaultBonusNineWins    = 5
	defaultPenaltyThreeLoss = 20
	defaultPenaltyTwoLoss   = 5
	defaultPenaltyOneLoss   = 1
)

// Threshold awards Points once a count reaches At.
type Threshold struct {
	At     int     `koanf:"at" json:"at"`
	Points float64 `koanf:"points" json:"points"`
}

// Weights holds every tunable of the fitness formula.
type Weights struct {
	RecordWeight    float64 `koanf:"record_weight" json:"recordWeight"`
	SORWeight       float64 `koanf:"sor_weight" json:"sorWeight"`
	SORCutoff       int     `koanf:"sor_cutoff" json:"sorCutoff"`
	PowerMultiplier float64 `koanf:"power_multiplier" json:"powerMultiplier"`
	G5Multiplier    float64 `koanf:"g5_multiplier" json:"g5Multiplier"`
	// WinBonuses and LossPenalties are checked highest At first.
	WinBonuses    []Threshold `koanf:"win_bonuses" json:"winBonuses"`
	LossPenalties []Threshold `koanf:"loss_penalties" json:"lossPenalties"`
}

// DefaultWeights returns the published scoring constants.
func DefaultWeights() Weights {
	return Weights{
		RecordWeight:    defaultRecordWeight,
		SORWeight:       defaultSORWeight,
		SORCutoff:       defaultSORCutoff,
		PowerMultiplier: defaultPowerMultiplier,
		G5Multiplier:    defaultG5Multiplier,
		WinBonuses: []Threshold{
			{At: 11, Points: defaultBonusElevenWins},
			{At: 10, Points: defaultBonusTenWins},
			{At: 9, Points: defaultBonusNineWins},
		},
		LossPenalties: []Threshold{
			{At: 3, Points: defaultPenaltyThreeLoss},
			{At: 2, Points: defaultPenaltyTwoLoss},
			{At: 1, Points: defaultPenaltyOneLoss},
		},
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights replaces the scoring weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithPowerConferences sets the conferences that get the power multiplier.
func WithPowerConferences(powers []conference.PowerConference) Option {
	return func(s *Scorer) {
		s.powers = powers
	}
}

// Scorer is a pure function of a team's wins, losses, SOR and conference.
type Scorer struct {
	weights Weights
	powers  []conference.PowerConference
}

// NewScorer creates a new scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the fitness score; a team with no decided games scores 0.
func (s *Scorer) Score(t model.Team) float64 {
	total := t.Wins + t.Losses
	if total <= 0 || t.Wins < 0 || t.Losses < 0 {
		return 0
	}
	w := s.weights

	winPct := float64(t.Wins) / float64(total) * percentScale
	recordScore := winPct * w.RecordWeight

	winBonus := firstReached(w.WinBonuses, t.Wins)
	lossPenalty := firstReached(w.LossPenalties, t.Losses)

	sorScore := 0.0
	if sor, ok := t.SOR.Get(); ok && sor <= w.SORCutoff {
		sorScore = (percentScale - float64(sor)) / percentScale * percentScale * w.SORWeight
	}

	multiplier := w.G5Multiplier
	if conference.IsPower(t.Conference, s.powers) {
		multiplier = w.PowerMultiplier
	}

	return math.Max(0, (recordScore+winBonus-lossPenalty+sorScore)*multiplier)
}

// Annotate returns a copy of t with FairRankScore populated.
func (s *Scorer) Annotate(t model.Team) model.Team {
	score := s.Score(t)
	t.FairRankScore = &score
	return t
}

// firstReached returns the points of the highest threshold n reaches.
func firstReached(thresholds []Threshold, n int) float64 {
	best := -1
	points := 0.0
	for _, th := range thresholds {
		if n >= th.At && th.At > best {
			best = th.At
			points = th.Points
		}
	}
	return points
}
