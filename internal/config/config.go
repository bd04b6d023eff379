// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SEEDLINE_ env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/seedline/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RefreshIntervalSec is the pause between refresh cycles.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// FetchTimeoutMS bounds a single upstream request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchWorkers bounds concurrent upstream requests in one cycle.
	FetchWorkers int `koanf:"fetch_workers"`

	// UpstreamBaseURL and SportPath locate the rankings and scoreboard feeds.
	UpstreamBaseURL string `koanf:"upstream_base_url"`
	SportPath       string `koanf:"sport_path"`

	// HistoryWeeks is how many earlier weekly scoreboards feed the
	// secondary record sources.
	HistoryWeeks int `koanf:"history_weeks"`

	// SORDriver ("sqlite" or "postgres") and SORDSN locate the SOR table.
	// An empty DSN disables the SOR feed.
	SORDriver string `koanf:"sor_driver"`
	SORDSN    string `koanf:"sor_dsn"`

	// RedisAddr enables the snapshot cache when set.
	RedisAddr   string `koanf:"redis_addr"`
	CacheTTLSec int    `koanf:"cache_ttl_sec"`

	// TablesFile optionally replaces the shipped ranking tables.
	TablesFile string `koanf:"tables_file"`

	// DefaultMode is served when a request names no mode.
	DefaultMode string `koanf:"default_mode"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		RefreshIntervalSec: 300,
		FetchTimeoutMS:     8000,
		FetchWorkers:       4,
		UpstreamBaseURL:    "https://site.api.espn.com/apis/site/v2/sports",
		SportPath:          "football/college-football",
		HistoryWeeks:       2,
		SORDriver:          "sqlite",
		SORDSN:             "",
		RedisAddr:          "",
		CacheTTLSec:        900,
		TablesFile:         "",
		DefaultMode:        "fair",
		CORSOrigins:        []string{"*"},
	}
}

// RefreshInterval is RefreshIntervalSec as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// FetchTimeout is FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// CacheTTL is CacheTTLSec as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// Mode parses DefaultMode.
func (c *Config) Mode() (model.Mode, error) {
	return model.ParseMode(c.DefaultMode)
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.RefreshIntervalSec <= 0 {
		return fmt.Errorf("%w: refresh_interval_sec must be positive", ErrInvalidConfig)
	}
	if c.FetchWorkers <= 0 {
		return fmt.Errorf("%w: fetch_workers must be positive", ErrInvalidConfig)
	}
	if c.HistoryWeeks < 0 {
		return fmt.Errorf("%w: history_weeks must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("%w: default_mode: %w", ErrInvalidConfig, err)
	}
	switch c.SORDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: sor_driver %q", ErrInvalidConfig, c.SORDriver)
	}
	return nil
}
