package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/metrics"
	"github.com/yourusername/value-lines/internal/models"
)

const statsSourceName = "stats_api"

// Endpoint labels used in metrics
const (
	endpointFixture = "fixture"
	endpointMatches = "team_matches"
	endpointDetail  = "match_trends"
	endpointView    = "match_view"
)

const maxErrorBody = 512

// StatsClient implements Provider against the upstream stats HTTP API
type StatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	log        *logrus.Entry
}

// NewStatsClient creates a stats API client
func NewStatsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, log *logrus.Logger) *StatsClient {
	if log == nil {
		log = logger.Discard()
	}
	return &StatsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		log:        log.WithField("component", statsSourceName),
	}
}

// Name returns the data source name
func (c *StatsClient) Name() string {
	return statsSourceName
}

// Fixture retrieves an upcoming match
func (c *StatsClient) Fixture(ctx context.Context, fixtureID string) (*models.Fixture, error) {
	body, err := c.get(ctx, endpointFixture, "/fixtures/"+url.PathEscape(fixtureID))
	if err != nil {
		return nil, err
	}

	var wf wireFixture
	if err := json.Unmarshal(body, &wf); err != nil {
		return nil, NewDataSourceError(statsSourceName, ErrCodeInvalidData, "failed to parse fixture", err)
	}
	fixture, err := wf.toFixture()
	if err != nil {
		return nil, NewDataSourceError(statsSourceName, ErrCodeInvalidData, "invalid fixture", err)
	}
	return fixture, nil
}

// RecentMatches lists a team's most recent finished matches. Entries that
// fail to convert are logged and skipped.
func (c *StatsClient) RecentMatches(ctx context.Context, teamID string, limit int) ([]models.RawMatchRef, error) {
	path := fmt.Sprintf("/teams/%s/matches?status=finished&limit=%s", url.PathEscape(teamID), strconv.Itoa(limit))
	body, err := c.get(ctx, endpointMatches, path)
	if err != nil {
		return nil, err
	}

	var wms []wireMatch
	if err := json.Unmarshal(body, &wms); err != nil {
		return nil, NewDataSourceError(statsSourceName, ErrCodeInvalidData, "failed to parse matches", err)
	}

	matches := make([]models.RawMatchRef, 0, len(wms))
	for _, wm := range wms {
		ref, err := wm.toRef()
		if err != nil {
			c.log.WithError(err).WithField("team_id", teamID).Warn("Skipping unparseable match")
			continue
		}
		matches = append(matches, ref)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// MatchDetail retrieves the trend or totals payload for a match
func (c *StatsClient) MatchDetail(ctx context.Context, matchID string) (models.StatPayload, error) {
	body, err := c.get(ctx, endpointDetail, "/matches/"+url.PathEscape(matchID)+"/trends")
	if err != nil {
		return nil, err
	}
	payload, err := decodeDetail(body)
	if err != nil {
		return nil, NewDataSourceError(statsSourceName, ErrCodeInvalidData, "failed to parse match trends", err)
	}
	return payload, nil
}

// MatchView retrieves the full match view
func (c *StatsClient) MatchView(ctx context.Context, matchID string) (*models.MatchView, error) {
	body, err := c.get(ctx, endpointView, "/matches/"+url.PathEscape(matchID))
	if err != nil {
		return nil, err
	}
	view, err := decodeView(body)
	if err != nil {
		return nil, NewDataSourceError(statsSourceName, ErrCodeInvalidData, "failed to parse match view", err)
	}
	if view.MatchID == "" {
		view.MatchID = matchID
	}
	return view, nil
}

// get performs an authenticated GET and maps failures onto DataSourceError codes
func (c *StatsClient) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, NewDataSourceError(statsSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error")
		code := ErrCodeNetworkError
		if errors.Is(err, ErrCircuitOpen) {
			code = ErrCodeCircuitOpen
		}
		return nil, NewDataSourceError(statsSourceName, code, "request to "+endpoint+" failed", err)
	}
	defer resp.Body.Close()
	metrics.RecordProviderRequest(endpoint, strconv.Itoa(resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(statsSourceName, ErrCodeNotFound, endpoint+" not found", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(statsSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(statsSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, NewDataSourceError(statsSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(snippet)), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(statsSourceName, ErrCodeNetworkError, "failed to read response", err)
	}
	return body, nil
}
