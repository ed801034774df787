// Package service wires the provider, aggregator and engine into end-to-end workflows.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/cache"
	"github.com/yourusername/value-lines/internal/datasource"
	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/metrics"
	"github.com/yourusername/value-lines/internal/models"
	"github.com/yourusername/value-lines/internal/repository"
	"github.com/yourusername/value-lines/internal/stats"
	"github.com/yourusername/value-lines/internal/valueline"
)

// DefaultMatchLimit is how many recent matches are pulled per team
const DefaultMatchLimit = 10

// AnalysisConfig holds the collaborators of an AnalysisService. Cache and
// Predictions are optional.
type AnalysisConfig struct {
	Provider    datasource.Provider
	Aggregator  *stats.Aggregator
	Engine      *valueline.Engine
	Cache       *cache.FetchCache
	Predictions repository.PredictionRepository
	MatchLimit  int
	Persist     bool
	Logger      *logrus.Logger
}

// AnalysisResult is the outcome of pricing one fixture
type AnalysisResult struct {
	Fixture         models.Fixture              `json:"fixture"`
	Home            models.TeamHistory          `json:"home"`
	Away            models.TeamHistory          `json:"away"`
	Recommendations []models.LineRecommendation `json:"recommendations"`
	Predictions     []*models.Prediction        `json:"predictions,omitempty"`
	Duration        time.Duration               `json:"duration"`
}

// AnalysisService prices fixtures end to end
type AnalysisService struct {
	provider    datasource.Provider
	aggregator  *stats.Aggregator
	engine      *valueline.Engine
	cache       *cache.FetchCache
	predictions repository.PredictionRepository
	matchLimit  int
	persist     bool
	audit       *logger.AuditLogger
	log         *logrus.Entry
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(cfg AnalysisConfig) (*AnalysisService, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Persist && cfg.Predictions == nil {
		return nil, fmt.Errorf("prediction repository is required when persisting")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.Aggregator == nil {
		cfg.Aggregator = stats.NewAggregator(stats.Config{}, cfg.Logger)
	}
	if cfg.Engine == nil {
		cfg.Engine = valueline.NewEngine(valueline.Options{}, cfg.Logger)
	}
	if cfg.MatchLimit <= 0 {
		cfg.MatchLimit = DefaultMatchLimit
	}

	return &AnalysisService{
		provider:    cfg.Provider,
		aggregator:  cfg.Aggregator,
		engine:      cfg.Engine,
		cache:       cfg.Cache,
		predictions: cfg.Predictions,
		matchLimit:  cfg.MatchLimit,
		persist:     cfg.Persist,
		audit:       logger.NewAuditLogger(cfg.Logger),
		log:         cfg.Logger.WithField("component", "analysis"),
	}, nil
}

// AnalyzeFixtureID looks the fixture up through the provider and prices it
func (s *AnalysisService) AnalyzeFixtureID(ctx context.Context, fixtureID string) (*AnalysisResult, error) {
	fixture, err := s.provider.Fixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture %s: %w", fixtureID, err)
	}
	return s.AnalyzeFixture(ctx, *fixture)
}

// AnalyzeFixture aggregates both teams' recent history, ranks value lines
// and optionally stores them as pending predictions.
func (s *AnalysisService) AnalyzeFixture(ctx context.Context, fixture models.Fixture) (*AnalysisResult, error) {
	start := time.Now()
	if fixture.Home.ID == "" || fixture.Away.ID == "" {
		return nil, fmt.Errorf("fixture %s: both team IDs are required", fixture.ID)
	}

	var (
		wg               sync.WaitGroup
		home, away       models.TeamHistory
		homeErr, awayErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		home, homeErr = s.teamHistory(ctx, fixture.Home)
	}()
	go func() {
		defer wg.Done()
		away, awayErr = s.teamHistory(ctx, fixture.Away)
	}()
	wg.Wait()

	if err := errors.Join(homeErr, awayErr); err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Fixture:         fixture,
		Home:            home,
		Away:            away,
		Recommendations: s.engine.FindValueLines(home.Records, away.Records),
	}

	if s.persist {
		stored, err := s.store(ctx, fixture, result.Recommendations)
		if err != nil {
			return nil, err
		}
		result.Predictions = stored
	}

	result.Duration = time.Since(start)
	s.log.WithFields(logrus.Fields{
		"fixture_id":      fixture.ID,
		"home_records":    home.SampleSize,
		"away_records":    away.SampleSize,
		"recommendations": len(result.Recommendations),
		"duration_ms":     result.Duration.Milliseconds(),
	}).Info("Fixture analyzed")
	return result, nil
}

func (s *AnalysisService) teamHistory(ctx context.Context, team models.TeamIdentity) (models.TeamHistory, error) {
	matches, err := s.provider.RecentMatches(ctx, team.ID, s.matchLimit)
	if err != nil {
		return models.TeamHistory{}, fmt.Errorf("failed to list matches for %s: %w", team.Name, err)
	}

	detail, view := s.fetchers()
	return s.aggregator.AggregateTeamHistory(ctx, matches, detail, view, team), nil
}

func (s *AnalysisService) fetchers() (stats.DetailFetcher, stats.ViewFetcher) {
	detail := stats.DetailFetcher(s.provider.MatchDetail)
	view := stats.ViewFetcher(s.provider.MatchView)
	if s.cache != nil {
		return s.cache.WrapDetail(detail), s.cache.WrapView(view)
	}
	return detail, view
}

// store writes recommendations as pending predictions. Lines already stored
// for the fixture are skipped.
func (s *AnalysisService) store(ctx context.Context, fixture models.Fixture, recs []models.LineRecommendation) ([]*models.Prediction, error) {
	stored := make([]*models.Prediction, 0, len(recs))
	for _, rec := range recs {
		p := models.NewPrediction(fixture.ID, fixture.Home.Name, fixture.Away.Name, rec)
		if err := s.predictions.Create(ctx, p); err != nil {
			if errors.Is(err, models.ErrDuplicateKey) {
				s.log.WithField("fixture_id", fixture.ID).WithField("field", rec.Field).Debug("Prediction already stored")
				continue
			}
			return nil, fmt.Errorf("failed to store prediction: %w", err)
		}
		metrics.RecordPredictionStored()
		s.audit.LogPredictionStored(p.ID.String(), p.FixtureID, string(p.Field), p.Line, string(p.Side), p.Probability)
		stored = append(stored, p)
	}
	return stored, nil
}
