// Package backtest grades the engine's lines against finished matches and
// summarizes the resulting track record.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/datasource"
	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/models"
	"github.com/yourusername/value-lines/internal/service"
)

// Analyzer prices a fixture
type Analyzer interface {
	AnalyzeFixtureID(ctx context.Context, fixtureID string) (*service.AnalysisResult, error)
}

// Result is the outcome of a replay over a set of fixtures
type Result struct {
	Fixtures    int                  `json:"fixtures"`
	Graded      int                  `json:"graded"`
	Skipped     int                  `json:"skipped"`
	Predictions []*models.Prediction `json:"predictions"`
	Metrics     Metrics              `json:"metrics"`
}

// Engine replays fixtures through the analyzer and grades each line
// against the fixture's own final stats. The provider must only list
// matches played before each fixture, or history leaks into the price.
type Engine struct {
	analyzer Analyzer
	provider datasource.Provider
	logger   *logrus.Entry
}

// NewEngine creates a new backtesting engine
func NewEngine(analyzer Analyzer, provider datasource.Provider, log *logrus.Logger) (*Engine, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{
		analyzer: analyzer,
		provider: provider,
		logger:   log.WithField("component", "backtest"),
	}, nil
}

// Run prices and grades each fixture. Fixtures that cannot be priced or
// have no final stats yet are skipped.
func (e *Engine) Run(ctx context.Context, fixtureIDs []string) (*Result, error) {
	start := time.Now()
	result := &Result{Fixtures: len(fixtureIDs)}

	for _, id := range fixtureIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		graded, err := e.gradeFixture(ctx, id)
		if err != nil {
			e.logger.WithError(err).WithField("fixture_id", id).Warn("Skipping fixture")
			result.Skipped++
			continue
		}
		result.Graded++
		result.Predictions = append(result.Predictions, graded...)
	}

	result.Metrics = CalculateMetrics(result.Predictions)
	e.logger.WithFields(logrus.Fields{
		"fixtures":    result.Fixtures,
		"graded":      result.Graded,
		"skipped":     result.Skipped,
		"predictions": len(result.Predictions),
		"hit_rate":    result.Metrics.HitRate,
		"units":       result.Metrics.Units,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Backtest completed")
	return result, nil
}

var errNoFinalStats = errors.New("no final stats")

func (e *Engine) gradeFixture(ctx context.Context, fixtureID string) ([]*models.Prediction, error) {
	analysis, err := e.analyzer.AnalyzeFixtureID(ctx, fixtureID)
	if err != nil {
		return nil, err
	}

	withView := false
	for _, rec := range analysis.Recommendations {
		if rec.Field == models.FieldOffsides {
			withView = true
		}
	}

	final, err := service.FetchFinalStats(ctx, e.provider, fixtureID, withView, e.logger)
	if err != nil {
		if errors.Is(err, datasource.ErrNotFound) {
			return nil, errNoFinalStats
		}
		return nil, err
	}

	f := analysis.Fixture
	settledAt := f.StartTime
	graded := make([]*models.Prediction, 0, len(analysis.Recommendations))
	for _, rec := range analysis.Recommendations {
		actual, ok := final.Total(rec.Field)
		if !ok {
			continue
		}
		p := models.NewPrediction(f.ID, f.Home.Name, f.Away.Name, rec)
		status, err := service.Settle(p, actual)
		if err != nil {
			return nil, err
		}
		p.Status = status
		p.ActualValue = &actual
		p.SettledAt = &settledAt
		graded = append(graded, p)
	}
	return graded, nil
}
