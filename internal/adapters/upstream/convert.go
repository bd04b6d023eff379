package upstream

import (
	"slices"
	"strings"
	"time"

	"github.com/okian/seedline/internal/domain/model"
)

// DefaultPollPreference picks the committee poll when it is out, then AP.
var DefaultPollPreference = []string{"cfp", "ap"}

// ESPN omits seconds in event dates.
var eventDateLayouts = []string{"2006-01-02T15:04Z", time.RFC3339}

// SelectPoll returns the first poll whose type is in preference, falling
// back to the first poll.
func SelectPoll(resp RankingsResponse, preference []string) (Poll, error) {
	if len(resp.Rankings) == 0 {
		return Poll{}, ErrNoPoll
	}
	for _, want := range preference {
		for _, p := range resp.Rankings {
			if strings.EqualFold(p.Type, want) {
				return p, nil
			}
		}
	}
	return resp.Rankings[0], nil
}

// RankingEntries converts a poll into ranking entries.
func RankingEntries(p Poll) []model.RankingEntry {
	out := make([]model.RankingEntry, 0, len(p.Ranks))
	for _, r := range p.Ranks {
		ref := model.TeamRef{
			ID:        strings.TrimSpace(r.Team.ID),
			Name:      strings.TrimSpace(r.Team.Location + " " + r.Team.Name),
			ShortName: firstNonEmpty(r.Team.Location, r.Team.Nickname, r.Team.Abbreviation),
			Color:     r.Team.Color,
			Logo:      r.Team.Logo,
		}
		if ref.Logo == "" && len(r.Team.Logos) > 0 {
			ref.Logo = r.Team.Logos[0].Href
		}
		e := model.RankingEntry{Team: ref, RecordHint: r.RecordSummary}
		if r.Current > 0 {
			e.Rank = model.OrdinalOf(r.Current)
		}
		out = append(out, e)
	}
	return out
}

// RecordEntries extracts each team's overall record from a scoreboard.
// When a team plays more than once in the window the latest game wins.
func RecordEntries(resp ScoreboardResponse) []model.RecordEntry {
	latest := map[string]model.RecordEntry{}
	var order []string
	for _, ev := range resp.Events {
		asOf := parseEventDate(ev.Date)
		for _, comp := range ev.Competitions {
			for _, c := range comp.Competitors {
				summary := overallRecord(c.Records)
				id := strings.TrimSpace(firstNonEmpty(c.Team.ID, c.ID))
				if summary == "" || id == "" {
					continue
				}
				e := model.RecordEntry{
					TeamID:   id,
					TeamName: c.Team.DisplayName,
					Record:   summary,
					AsOf:     asOf,
				}
				prev, seen := latest[id]
				if !seen {
					order = append(order, id)
				}
				if !seen || !e.AsOf.Before(prev.AsOf) {
					latest[id] = e
				}
			}
		}
	}
	out := make([]model.RecordEntry, 0, len(order))
	for _, id := range order {
		out = append(out, latest[id])
	}
	return out
}

func overallRecord(records []TeamRecord) string {
	i := slices.IndexFunc(records, func(r TeamRecord) bool {
		return strings.EqualFold(r.Type, "total") || strings.EqualFold(r.Name, "overall")
	})
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(records[i].Summary)
}

func parseEventDate(s string) time.Time {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
