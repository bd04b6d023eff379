package model

import "time"

// TeamRef is a team's identity as delivered by the rankings feed.
type TeamRef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ShortName      string `json:"shortName"`
	ConferenceHint string `json:"conferenceHint,omitempty"`
	Logo           string `json:"logo,omitempty"`
	Color          string `json:"color,omitempty"`
}

// RankingEntry is one row of a rankings feed.
type RankingEntry struct {
	Team       TeamRef `json:"team"`
	Rank       Ordinal `json:"rank"`
	RecordHint string  `json:"recordHint,omitempty"`
}

// RecordEntry is one team's record as reported by a record feed.
type RecordEntry struct {
	TeamID   string    `json:"teamId"`
	TeamName string    `json:"teamName"`
	Record   string    `json:"record"`
	AsOf     time.Time `json:"asOf"`
}

// RecordFeed groups entries from one upstream call. Authoritative feeds are
// matched by external id; the rest by exact display name.
type RecordFeed struct {
	Name          string        `json:"name"`
	Authoritative bool          `json:"authoritative"`
	Entries       []RecordEntry `json:"entries"`
}

// SOREntry is a supplemental strength-of-record row keyed by team name.
type SOREntry struct {
	TeamName       string  `json:"teamName"`
	SORRank        Ordinal `json:"sorRank"`
	ConferenceHint string  `json:"conferenceHint,omitempty"`
}

// Inputs is everything one refresh cycle hands to the ranking engine.
type Inputs struct {
	Rankings    []RankingEntry `json:"rankings"`
	RecordFeeds []RecordFeed   `json:"recordFeeds"`
	SOR         []SOREntry     `json:"sor"`
}
