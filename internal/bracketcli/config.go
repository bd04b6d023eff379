package bracketcli

import "time"

// Config holds configuration for one offline evaluation.
type Config struct {
	InputsFile string        // JSON-encoded model.Inputs; empty fetches live
	TablesFile string        // YAML overrides for the ranking tables
	Mode       string        // fair, direct or both
	JSON       bool          // Emit JSON instead of a table
	BaseURL    string        // Upstream base URL for live fetches
	Timeout    time.Duration // Per-source timeout for live fetches
	Verbose    bool
}

// Output is the JSON document written with -json.
type Output struct {
	TablesVersion string        `json:"tablesVersion"`
	Teams         int           `json:"teams"`
	Duplicates    int           `json:"duplicates"`
	Failed        []string      `json:"failedSources,omitempty"`
	Brackets      []BracketView `json:"brackets"`
}

// BracketView is one mode's bracket as printed.
type BracketView struct {
	Mode    string     `json:"mode"`
	Seeds   []SeedView `json:"seeds"`
	NextOut []SeedView `json:"nextOut"`
}

// SeedView is a flattened team row.
type SeedView struct {
	Seed       int      `json:"seed,omitempty"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Conference string   `json:"conference"`
	Record     string   `json:"record"`
	Rank       *int     `json:"rank,omitempty"`
	Score      *float64 `json:"fairRankScore,omitempty"`
	AutoBid    bool     `json:"autoBid,omitempty"`
}
