package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-lines/internal/models"
)

var target = models.TeamIdentity{ID: "t-1", Name: "Rovers"}

func buildMatches(n int) []models.RawMatchRef {
	base := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	matches := make([]models.RawMatchRef, n)
	for i := range matches {
		m := models.RawMatchRef{
			ID:        fmt.Sprintf("m-%d", i),
			StartTime: base.Add(-time.Duration(i) * 7 * 24 * time.Hour),
		}
		if i%2 == 0 {
			m.HomeTeamID, m.HomeTeamName = "t-1", "Rovers"
			m.AwayTeamID, m.AwayTeamName = fmt.Sprintf("o-%d", i), fmt.Sprintf("Opp %d", i)
		} else {
			m.HomeTeamID, m.HomeTeamName = fmt.Sprintf("o-%d", i), fmt.Sprintf("Opp %d", i)
			m.AwayTeamID, m.AwayTeamName = "t-1", "Rovers"
		}
		matches[i] = m
	}
	return matches
}

func totalsFetcher(home, away map[string]float64) DetailFetcher {
	return func(ctx context.Context, matchID string) (models.StatPayload, error) {
		return models.TotalsPayload{Home: home, Away: away}, nil
	}
}

func TestResolveSide(t *testing.T) {
	match := models.RawMatchRef{HomeTeamID: "10", HomeTeamName: "Northside United", AwayTeamID: "20", AwayTeamName: "Southend Athletic"}

	tests := []struct {
		name        string
		target      models.TeamIdentity
		side        models.Side
		attribution models.Attribution
	}{
		{name: "id home", target: models.TeamIdentity{ID: "10"}, side: models.SideHome, attribution: models.AttributionID},
		{name: "id away", target: models.TeamIdentity{ID: "20", Name: "Northside"}, side: models.SideAway, attribution: models.AttributionID},
		{name: "name substring", target: models.TeamIdentity{Name: "southend"}, side: models.SideAway, attribution: models.AttributionName},
		{name: "unknown id falls back to name", target: models.TeamIdentity{ID: "99", Name: "NORTHSIDE UNITED"}, side: models.SideHome, attribution: models.AttributionName},
		{name: "no evidence defaults home", target: models.TeamIdentity{ID: "99", Name: "Elsewhere"}, side: models.SideHome, attribution: models.AttributionDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, attribution := ResolveSide(match, tt.target)
			assert.Equal(t, tt.side, side)
			assert.Equal(t, tt.attribution, attribution)
		})
	}
}

func TestAggregateTeamHistoryEmpty(t *testing.T) {
	history := AggregateTeamHistory(context.Background(), nil, totalsFetcher(nil, nil), nil, target)

	assert.Equal(t, 0, history.SampleSize)
	assert.Empty(t, history.Records)
	for _, field := range models.TrackedFields() {
		_, ok := history.Summary.Field(field)
		assert.False(t, ok, "field %s must be absent", field)
	}
}

func TestAggregateTeamHistoryAttributesSides(t *testing.T) {
	matches := buildMatches(4)
	fetch := totalsFetcher(
		map[string]float64{"corners": 7, "yellow_cards": 1},
		map[string]float64{"corners": 3, "yellow_cards": 2},
	)

	history := AggregateTeamHistory(context.Background(), matches, fetch, nil, target)

	require.Len(t, history.Records, 4)
	for i, rec := range history.Records {
		assert.Equal(t, matches[i].ID, rec.MatchID, "input order preserved")
		assert.Equal(t, models.AttributionID, rec.Attribution)
		if i%2 == 0 {
			assert.Equal(t, models.SideHome, rec.Side)
			assert.Equal(t, 7.0, rec.Fields[models.FieldCorners])
			assert.Equal(t, fmt.Sprintf("Opp %d", i), rec.OpponentName)
		} else {
			assert.Equal(t, models.SideAway, rec.Side)
			assert.Equal(t, 3.0, rec.Fields[models.FieldCorners])
		}
	}

	corners, ok := history.Summary.Field(models.FieldCorners)
	require.True(t, ok)
	assert.Equal(t, 5.0, corners.Mean)
	assert.Equal(t, 3.0, corners.Min)
	assert.Equal(t, 7.0, corners.Max)
	assert.Equal(t, 4, corners.Count)
	assert.Equal(t, 4, history.SampleSize)
}

func TestAggregateTeamHistoryToleratesFailures(t *testing.T) {
	matches := buildMatches(10)
	failing := map[string]bool{"m-3": true, "m-7": true}
	fetch := func(ctx context.Context, matchID string) (models.StatPayload, error) {
		if failing[matchID] {
			return nil, errors.New("upstream unavailable")
		}
		return models.TotalsPayload{
			Home: map[string]float64{"corners": 5},
			Away: map[string]float64{"corners": 5},
		}, nil
	}

	var history models.TeamHistory
	assert.NotPanics(t, func() {
		history = AggregateTeamHistory(context.Background(), matches, fetch, nil, target)
	})

	assert.Len(t, history.Records, 8)
	assert.Equal(t, 8, history.SampleSize)
	assert.Equal(t, 2, history.FailedMatches)
	for _, rec := range history.Records {
		assert.False(t, failing[rec.MatchID])
	}
}

func TestAggregateTeamHistoryRecoversPanickingFetch(t *testing.T) {
	matches := buildMatches(3)
	fetch := func(ctx context.Context, matchID string) (models.StatPayload, error) {
		if matchID == "m-1" {
			panic("malformed payload")
		}
		return models.TotalsPayload{Home: map[string]float64{"corners": 4}, Away: map[string]float64{"corners": 4}}, nil
	}

	history := AggregateTeamHistory(context.Background(), matches, fetch, nil, target)
	assert.Len(t, history.Records, 2)
}

func TestAggregateTeamHistoryMissingFieldExcluded(t *testing.T) {
	matches := buildMatches(3)
	fetch := func(ctx context.Context, matchID string) (models.StatPayload, error) {
		values := map[string]float64{"corners": 6, "yellow_cards": 2}
		if matchID == "m-1" {
			values = map[string]float64{"yellow_cards": 4}
		}
		return models.TotalsPayload{Home: values, Away: values}, nil
	}

	history := AggregateTeamHistory(context.Background(), matches, fetch, nil, target)

	corners, ok := history.Summary.Field(models.FieldCorners)
	require.True(t, ok)
	assert.Equal(t, 6.0, corners.Mean)
	assert.Equal(t, 6.0, corners.Min)
	assert.Equal(t, 2, corners.Count)
	assert.Equal(t, 3, history.Summary.SampleSize, "match without corners still counts")
	assert.Equal(t, 3, history.SampleSize)
}

func TestAggregateTeamHistoryOffsideEnrichment(t *testing.T) {
	matches := buildMatches(3)
	fetch := totalsFetcher(
		map[string]float64{"corners": 5, "offsides": 9},
		map[string]float64{"corners": 4, "offsides": 9},
	)
	home, away := 2.0, 1.0
	view := func(ctx context.Context, matchID string) (*models.MatchView, error) {
		if matchID == "m-2" {
			return nil, errors.New("view timeout")
		}
		return &models.MatchView{MatchID: matchID, Statistics: []models.ViewStatistic{{Name: "offsides", Home: &home, Away: &away}}}, nil
	}

	history := AggregateTeamHistory(context.Background(), matches, fetch, view, target)

	require.Len(t, history.Records, 3)
	assert.Equal(t, 2.0, history.Records[0].Fields[models.FieldOffsides], "home side overwritten from view")
	assert.Equal(t, 1.0, history.Records[1].Fields[models.FieldOffsides], "away side overwritten from view")
	assert.Equal(t, 9.0, history.Records[2].Fields[models.FieldOffsides], "failed view keeps trend value")
}

func TestAggregateTeamHistoryDefaultedAttribution(t *testing.T) {
	matches := []models.RawMatchRef{{ID: "x", HomeTeamName: "Alpha", AwayTeamName: "Beta"}}
	fetch := totalsFetcher(map[string]float64{"corners": 8}, map[string]float64{"corners": 1})

	history := AggregateTeamHistory(context.Background(), matches, fetch, nil, models.TeamIdentity{Name: "Gamma"})

	require.Len(t, history.Records, 1)
	assert.Equal(t, models.SideHome, history.Records[0].Side)
	assert.Equal(t, models.AttributionDefault, history.Records[0].Attribution)
	assert.Equal(t, 1, history.DefaultedAttribution)
}

func TestAggregatorRespectsConcurrencyCeiling(t *testing.T) {
	var inFlight, peak int32
	var mu sync.Mutex
	fetch := func(ctx context.Context, matchID string) (models.StatPayload, error) {
		n := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return models.TotalsPayload{Home: map[string]float64{"corners": 1}, Away: map[string]float64{"corners": 1}}, nil
	}

	agg := NewAggregator(Config{DetailConcurrency: 2}, nil)
	history := agg.AggregateTeamHistory(context.Background(), buildMatches(12), fetch, nil, target)

	assert.Len(t, history.Records, 12)
	assert.LessOrEqual(t, peak, int32(2))
}

func TestFanOutPreservesOrder(t *testing.T) {
	results := fanOut(20, 4, func(i int) (int, error) {
		time.Sleep(time.Duration(20-i) * time.Millisecond / 4)
		if i == 5 {
			return 0, errors.New("boom")
		}
		return i * i, nil
	})

	require.Len(t, results, 20)
	for i, r := range results {
		if i == 5 {
			assert.False(t, r.ok)
			assert.Error(t, r.err)
			continue
		}
		assert.True(t, r.ok)
		assert.Equal(t, i*i, r.value)
	}
}
