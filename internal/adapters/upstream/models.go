package upstream

// RankingsResponse is the ESPN rankings payload.
type RankingsResponse struct {
	Rankings []Poll `json:"rankings"`
}

// Poll is one published poll (AP, coaches, CFP committee).
type Poll struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ShortName string     `json:"shortName"`
	Type      string     `json:"type"`
	Ranks     []PollRank `json:"ranks"`
}

// PollRank is one ranked team within a poll.
type PollRank struct {
	Current       int      `json:"current"`
	Previous      int      `json:"previous"`
	Points        float64  `json:"points"`
	RecordSummary string   `json:"recordSummary"`
	Team          PollTeam `json:"team"`
}

// PollTeam is the team block of a poll entry.
type PollTeam struct {
	ID           string `json:"id"`
	Location     string `json:"location"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
	Abbreviation string `json:"abbreviation"`
	Color        string `json:"color"`
	Logo         string `json:"logo"`
	Logos        []Logo `json:"logos"`
}

// Logo is an image reference.
type Logo struct {
	Href string `json:"href"`
}

// ScoreboardResponse is the ESPN scoreboard payload.
type ScoreboardResponse struct {
	Events []Event `json:"events"`
}

// Event is one game.
type Event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	Competitions []Competition `json:"competitions"`
}

// Competition holds the two sides of a game.
type Competition struct {
	ID          string       `json:"id"`
	Competitors []Competitor `json:"competitors"`
}

// Competitor is one side of a game with its season records.
type Competitor struct {
	ID          string       `json:"id"`
	HomeAway    string       `json:"homeAway"`
	Team        EventTeam    `json:"team"`
	Records     []TeamRecord `json:"records"`
	CuratedRank *CuratedRank `json:"curatedRank,omitempty"`
}

// EventTeam is the team block of a competitor.
type EventTeam struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
	Abbreviation     string `json:"abbreviation"`
	ConferenceID     string `json:"conferenceId"`
}

// TeamRecord is a record summary such as overall "11-1".
type TeamRecord struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

// CuratedRank is the poll rank shown on the scoreboard; 99 means unranked.
type CuratedRank struct {
	Current int `json:"current"`
}
