package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"pickem-app-go/logging"
)

const (
	oddsSportKey    = "americanfootball_nfl"
	oddsPathOdds    = "/v4/sports/" + oddsSportKey + "/odds"
	oddsPathScores  = "/v4/sports/" + oddsSportKey + "/scores"
	oddsPathSports  = "/v4/sports"
	quotaHeaderName = "x-requests-remaining"
)

// OddsAPIConfig holds The Odds API client settings.
type OddsAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OddsAPIClient talks to The Odds API.
type OddsAPIClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *logging.Logger
}

// NewOddsAPIClient creates a new Odds API client
func NewOddsAPIClient(config OddsAPIConfig) *OddsAPIClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OddsAPIClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		logger:  logging.WithPrefix("OddsAPI"),
	}
}

// The Odds API response structures

// OddsGame is one upcoming or live game with its bookmaker lines.
type OddsGame struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one side of a market. Point is absent for h2h outcomes.
type Outcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Market keys used by the provider.
const (
	MarketH2H     = "h2h"
	MarketSpreads = "spreads"
	MarketTotals  = "totals"
)

// ScoredGame is one game from the scores feed. Scores is null until the
// game starts.
type ScoredGame struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	Completed    bool        `json:"completed"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Scores       []TeamScore `json:"scores"`
}

// TeamScore carries the provider's string-typed score for one team.
type TeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// OddsFetchResult bundles a parsed odds response with the raw payload and
// request metadata the audit trail records.
type OddsFetchResult struct {
	Games          []OddsGame
	Raw            []byte
	Params         map[string]string
	QuotaRemaining int // -1 when the provider omitted the header
}

// ScoresFetchResult bundles a parsed scores response the same way.
type ScoresFetchResult struct {
	Games          []ScoredGame
	Raw            []byte
	Params         map[string]string
	QuotaRemaining int
}

// FetchOdds retrieves current NFL lines for all bookmakers in US regions.
func (c *OddsAPIClient) FetchOdds(ctx context.Context) (*OddsFetchResult, error) {
	params := map[string]string{
		"regions":    "us",
		"markets":    "h2h,spreads,totals",
		"oddsFormat": "american",
		"dateFormat": "iso",
	}

	raw, quota, err := c.get(ctx, oddsPathOdds, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}

	var games []OddsGame
	if err := sonic.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("failed to decode odds response: %w", err)
	}

	c.logger.Infof("Fetched odds for %d games (quota remaining: %d)", len(games), quota)
	return &OddsFetchResult{
		Games:          games,
		Raw:            raw,
		Params:         params,
		QuotaRemaining: quota,
	}, nil
}

// FetchScores retrieves results over the lookback window. daysFrom covers
// 1 to 3 days back per the provider's contract.
func (c *OddsAPIClient) FetchScores(ctx context.Context, daysFrom int) (*ScoresFetchResult, error) {
	if daysFrom < 1 {
		daysFrom = 1
	}
	if daysFrom > 3 {
		daysFrom = 3
	}
	params := map[string]string{
		"daysFrom":   strconv.Itoa(daysFrom),
		"dateFormat": "iso",
	}

	raw, quota, err := c.get(ctx, oddsPathScores, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	var games []ScoredGame
	if err := sonic.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("failed to decode scores response: %w", err)
	}

	c.logger.Infof("Fetched scores for %d games (quota remaining: %d)", len(games), quota)
	return &ScoresFetchResult{
		Games:          games,
		Raw:            raw,
		Params:         params,
		QuotaRemaining: quota,
	}, nil
}

// HealthCheck verifies the provider is reachable and the key is accepted.
func (c *OddsAPIClient) HealthCheck(ctx context.Context) bool {
	raw, _, err := c.get(ctx, oddsPathSports, nil)
	return err == nil && len(raw) > 0
}

// get performs one provider request. The API key travels only in the query
// string and never in the returned params.
func (c *OddsAPIClient) get(ctx context.Context, path string, params map[string]string) ([]byte, int, error) {
	values := url.Values{}
	values.Set("apiKey", c.apiKey)
	for key, value := range params {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, -1, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, -1, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return raw, parseQuotaHeader(resp.Header.Get(quotaHeaderName)), nil
}

// parseQuotaHeader reads the remaining-quota header, -1 when absent or
// unparseable. The provider reports it as a decimal string.
func parseQuotaHeader(value string) int {
	if value == "" {
		return -1
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return -1
	}
	return int(parsed)
}

// FindBookmaker returns the bookmaker matching the given title or key.
func (g *OddsGame) FindBookmaker(name string) (*Bookmaker, bool) {
	for i := range g.Bookmakers {
		if strings.EqualFold(g.Bookmakers[i].Title, name) || strings.EqualFold(g.Bookmakers[i].Key, name) {
			return &g.Bookmakers[i], true
		}
	}
	return nil, false
}

// Market returns the named market from this bookmaker.
func (b *Bookmaker) Market(key string) (*Market, bool) {
	for i := range b.Markets {
		if b.Markets[i].Key == key {
			return &b.Markets[i], true
		}
	}
	return nil, false
}

// OutcomeByName returns the outcome with the given name (team, "Over",
// "Under").
func (m *Market) OutcomeByName(name string) (*Outcome, bool) {
	for i := range m.Outcomes {
		if strings.EqualFold(m.Outcomes[i].Name, name) {
			return &m.Outcomes[i], true
		}
	}
	return nil, false
}

// ScoreFor returns the parsed score for the named team.
func (s *ScoredGame) ScoreFor(team string) (int, bool) {
	for _, entry := range s.Scores {
		if strings.EqualFold(entry.Name, team) {
			score, err := strconv.Atoi(entry.Score)
			if err != nil {
				return 0, false
			}
			return score, true
		}
	}
	return 0, false
}
