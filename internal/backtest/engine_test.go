package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-lines/internal/datasource"
	"github.com/yourusername/value-lines/internal/models"
	"github.com/yourusername/value-lines/internal/service"
)

var kickoff = time.Date(2026, 4, 4, 15, 0, 0, 0, time.UTC)

type stubAnalyzer map[string][]models.LineRecommendation

func (s stubAnalyzer) AnalyzeFixtureID(ctx context.Context, fixtureID string) (*service.AnalysisResult, error) {
	recs, ok := s[fixtureID]
	if !ok {
		return nil, errors.New("fixture unknown")
	}
	return &service.AnalysisResult{
		Fixture:         models.Fixture{ID: fixtureID, Home: models.TeamIdentity{Name: "Home"}, Away: models.TeamIdentity{Name: "Away"}, StartTime: kickoff},
		Recommendations: recs,
	}, nil
}

// finalStats implements datasource.Provider for MatchDetail and MatchView
type finalStats struct {
	datasource.Provider
	details map[string]models.StatPayload
	views   map[string]*models.MatchView
}

func (f finalStats) MatchView(ctx context.Context, matchID string) (*models.MatchView, error) {
	if v, ok := f.views[matchID]; ok {
		return v, nil
	}
	return nil, datasource.NewDataSourceError("stub", datasource.ErrCodeNotFound, "no view", nil)
}

func (f finalStats) MatchDetail(ctx context.Context, matchID string) (models.StatPayload, error) {
	if d, ok := f.details[matchID]; ok {
		return d, nil
	}
	return nil, datasource.NewDataSourceError("stub", datasource.ErrCodeNotFound, "no stats", nil)
}

func rec(field models.FieldName, line float64, side models.Direction) models.LineRecommendation {
	return models.LineRecommendation{Field: field, Line: line, Side: side, Probability: 0.6, FairDecimalOdds: 1 / 0.6, Confidence: models.ConfidenceMedium}
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	_, err := NewEngine(nil, finalStats{}, nil)
	assert.Error(t, err)
	_, err = NewEngine(stubAnalyzer{}, nil, nil)
	assert.Error(t, err)
}

func TestEngineRun(t *testing.T) {
	analyzer := stubAnalyzer{
		"played": {
			rec(models.FieldCorners, 9.5, models.DirectionOver),
			rec(models.FieldYellowCards, 3.5, models.DirectionUnder),
			rec(models.FieldShotsOnTarget, 7.5, models.DirectionOver),
		},
		"upcoming": {rec(models.FieldCorners, 9.5, models.DirectionOver)},
	}
	provider := finalStats{details: map[string]models.StatPayload{
		"played": models.TotalsPayload{
			Home: map[string]float64{"corners": 6, "yellow_cards": 3},
			Away: map[string]float64{"corners": 5, "yellow_cards": 2},
		},
	}}

	engine, err := NewEngine(analyzer, provider, nil)
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), []string{"played", "upcoming", "unknown"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Fixtures)
	assert.Equal(t, 1, result.Graded)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Predictions, 2, "lines without final stats are dropped")

	corners := result.Predictions[0]
	assert.Equal(t, models.PredictionWon, corners.Status)
	require.NotNil(t, corners.ActualValue)
	assert.Equal(t, 11.0, *corners.ActualValue)
	assert.Equal(t, kickoff, *corners.SettledAt)

	assert.Equal(t, models.PredictionLost, result.Predictions[1].Status)
	assert.Equal(t, 2, result.Metrics.Settled)
	assert.InDelta(t, 0.5, result.Metrics.HitRate, 1e-9)
}

func TestEngineRunGradesOffsidesFromView(t *testing.T) {
	analyzer := stubAnalyzer{"played": {rec(models.FieldOffsides, 2.5, models.DirectionUnder)}}
	home, away := 1.0, 1.0
	provider := finalStats{
		details: map[string]models.StatPayload{
			"played": models.TotalsPayload{
				Home: map[string]float64{"offsides": 4},
				Away: map[string]float64{"offsides": 3},
			},
		},
		views: map[string]*models.MatchView{
			"played": {MatchID: "played", Statistics: []models.ViewStatistic{{Name: "offsides", Home: &home, Away: &away}}},
		},
	}

	engine, err := NewEngine(analyzer, provider, nil)
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), []string{"played"})
	require.NoError(t, err)
	require.Len(t, result.Predictions, 1)
	assert.Equal(t, models.PredictionWon, result.Predictions[0].Status)
	assert.Equal(t, 2.0, *result.Predictions[0].ActualValue)
}

func TestEngineRunCancelled(t *testing.T) {
	engine, err := NewEngine(stubAnalyzer{}, finalStats{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx, []string{"any"})
	assert.ErrorIs(t, err, context.Canceled)
}
