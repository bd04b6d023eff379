package normalize

import (
	"strings"
	"unicode"

	"github.com/okian/seedline/internal/domain/model"
)

// Identity builds the starting team for a ranking entry.
func Identity(e model.RankingEntry) model.Team {
	return model.Team{
		ID:         strings.TrimSpace(e.Team.ID),
		Name:       e.Team.Name,
		ShortName:  e.Team.ShortName,
		Conference: e.Team.ConferenceHint,
		Rank:       e.Rank,
		Logo:       e.Team.Logo,
		Color:      e.Team.Color,
	}
}

// Collect gathers every candidate the inputs hold for the ranking entry.
// Entries that do not match or carry nothing usable are skipped.
func Collect(e model.RankingEntry, in model.Inputs) []Candidate {
	var out []Candidate
	id := strings.TrimSpace(e.Team.ID)

	for _, feed := range in.RecordFeeds {
		for _, r := range feed.Entries {
			switch {
			case feed.Authoritative:
				if id == "" || strings.TrimSpace(r.TeamID) != id {
					continue
				}
				out = append(out, Candidate{Source: SourceLive, Record: r.Record, AsOf: r.AsOf})
			default:
				if !sameDisplayName(r.TeamName, e.Team) {
					continue
				}
				out = append(out, Candidate{Source: SourceSecondary, Record: r.Record, AsOf: r.AsOf})
			}
		}
	}

	for _, s := range in.SOR {
		if !FuzzyMatch(s.TeamName, e.Team) {
			continue
		}
		out = append(out, Candidate{Source: SourceSOR, SOR: s.SORRank, Conference: s.ConferenceHint})
	}

	out = append(out, Candidate{Source: SourceDefault, Record: e.RecordHint, Conference: e.Team.ConferenceHint})
	return out
}

// NormalizeAll runs Collect and Normalize for every ranking entry.
func (n *Normalizer) NormalizeAll(in model.Inputs) []model.Team {
	out := make([]model.Team, 0, len(in.Rankings))
	for _, e := range in.Rankings {
		out = append(out, n.Normalize(Identity(e), Collect(e, in)))
	}
	return out
}

func sameDisplayName(name string, ref model.TeamRef) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return name == strings.TrimSpace(ref.Name) || name == strings.TrimSpace(ref.ShortName)
}

// FuzzyMatch compares a free-form team name with a team's display names
// after folding case, punctuation and the "State"/"St" spelling.
func FuzzyMatch(name string, ref model.TeamRef) bool {
	key := NameKey(name)
	if key == "" {
		return false
	}
	for _, n := range []string{ref.Name, ref.ShortName} {
		if k := NameKey(n); k != "" && k == key {
			return true
		}
	}
	return false
}

// NameKey folds a team name into a comparison key.
func NameKey(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, f := range fields {
		switch f {
		case "st", "state":
			fields[i] = "st"
		case "univ", "university":
			fields[i] = "u"
		}
	}
	return strings.Join(fields, "")
}
