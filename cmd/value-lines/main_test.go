package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-lines/internal/config"
	"github.com/yourusername/value-lines/internal/models"
	"github.com/yourusername/value-lines/internal/service"
)

const snapshotPath = "../../internal/datasource/testdata/snapshot.json"

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.LoadWithDefaults("testdata/missing.yaml")
	require.NoError(t, err)
	require.NoError(t, config.Validate(c))
	return c
}

func TestEngineOptionsFromConfig(t *testing.T) {
	c := defaultConfig(t)

	opts, err := engineOptions(c.Engine)
	require.NoError(t, err)
	assert.Equal(t, 0.60, opts.TargetProbability)
	assert.Equal(t, []models.FieldName{models.FieldCorners, models.FieldYellowCards, models.FieldShotsTotal, models.FieldShotsOnTarget}, opts.Fields)
	assert.Equal(t, 8, opts.Confidence.HighMinSample)
	require.NotNil(t, opts.WeightedShare)
	assert.Equal(t, 0.6, *opts.WeightedShare)

	c.Engine.WeightedShare = 0
	opts, err = engineOptions(c.Engine)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *opts.WeightedShare, "zero survives as simple mean only")

	c.Engine.Fields = []string{"possession"}
	_, err = engineOptions(c.Engine)
	assert.ErrorIs(t, err, models.ErrUnknownField)
}

func TestHTTPClientConfigFromProvider(t *testing.T) {
	hc := httpClientConfig(config.ProviderConfig{
		TimeoutSeconds:             4,
		MaxRetries:                 2,
		RequestsPerSecond:          1.5,
		Burst:                      3,
		CircuitBreakerThreshold:    7,
		CircuitBreakerResetSeconds: 30,
	})

	assert.Equal(t, 4*time.Second, hc.Timeout)
	assert.Equal(t, 2, hc.MaxRetries)
	assert.Equal(t, 1.5, hc.RateLimit)
	assert.Equal(t, 3, hc.Burst)
	assert.Equal(t, 7, hc.CircuitBreakerMax)
	assert.Equal(t, 30*time.Second, hc.CircuitBreakerReset)
}

func TestRenderAnalysisTable(t *testing.T) {
	result := &service.AnalysisResult{
		Fixture: models.Fixture{ID: "900", Home: models.TeamIdentity{Name: "Northside United"}, Away: models.TeamIdentity{Name: "Southend Athletic"}},
		Recommendations: []models.LineRecommendation{{
			Field:           models.FieldCorners,
			Line:            9.5,
			Side:            models.DirectionOver,
			Probability:     0.6,
			FairDecimalOdds: 1 / 0.6,
			PredictedTotal:  9.94,
			PredictedStdDev: 1.7,
			SampleSize:      12,
			Confidence:      models.ConfidenceHigh,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderAnalysis(&buf, "table", result))
	out := buf.String()
	assert.Contains(t, out, "Northside United vs Southend Athletic")
	assert.Contains(t, out, "corners")
	assert.Contains(t, out, "1.67")
	assert.Contains(t, out, "-150")
	assert.Contains(t, out, "4/6")

	buf.Reset()
	require.NoError(t, renderAnalysis(&buf, "table", &service.AnalysisResult{}))
	assert.Contains(t, buf.String(), "no line in the target band")
}

func TestReplayCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"replay", snapshotPath, "--config", "testdata/missing.yaml", "--output", "json", "--log-level", "error"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var result service.AnalysisResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "900", result.Fixture.ID)
	assert.Equal(t, 3, result.Home.SampleSize)
}

func TestBacktestCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"backtest", snapshotPath, "--config", "testdata/missing.yaml", "--output", "table", "--log-level", "error"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "fixtures 1, graded 1, skipped 0")
	assert.Contains(t, out.String(), "Track Record")
}
