// Package upstream fetches rankings, scoreboards and SOR data and turns them
// into engine inputs.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public ESPN site API.
	DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports"
	// DefaultSportPath selects college football.
	DefaultSportPath = "football/college-football"

	defaultUserAgent   = "Mozilla/5.0 (compatible; seedline/1.0)"
	defaultHTTPTimeout = 15 * time.Second
	maxErrorBody       = 512
	dateLayout         = "20060102"
)

// Client handles ESPN API requests.
type Client struct {
	baseURL    string
	sportPath  string
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSportPath overrides the sport path, e.g. "football/college-football".
func WithSportPath(p string) ClientOption {
	return func(c *Client) {
		if p != "" {
			c.sportPath = strings.Trim(p, "/")
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// NewClient creates a new ESPN API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		sportPath:  DefaultSportPath,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRankings fetches the current polls.
func (c *Client) FetchRankings(ctx context.Context) (RankingsResponse, error) {
	var out RankingsResponse
	err := c.fetch(ctx, fmt.Sprintf("%s/%s/rankings", c.baseURL, c.sportPath), &out)
	return out, err
}

// FetchScoreboard fetches games between from and to inclusive. With a zero
// from it fetches whatever ESPN considers the current week.
func (c *Client) FetchScoreboard(ctx context.Context, from, to time.Time) (ScoreboardResponse, error) {
	u := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, c.sportPath)
	if !from.IsZero() {
		if to.IsZero() || to.Before(from) {
			to = from
		}
		q := url.Values{}
		q.Set("dates", from.Format(dateLayout)+"-"+to.Format(dateLayout))
		u += "?" + q.Encode()
	}
	var out ScoreboardResponse
	err := c.fetch(ctx, u, &out)
	return out, err
}

// fetch makes an HTTP GET request and decodes the JSON body into v.
func (c *Client) fetch(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status=%d, body=%s", ErrUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
