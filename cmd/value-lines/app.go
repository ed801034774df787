package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/cache"
	"github.com/yourusername/value-lines/internal/config"
	"github.com/yourusername/value-lines/internal/database"
	"github.com/yourusername/value-lines/internal/datasource"
	"github.com/yourusername/value-lines/internal/models"
	"github.com/yourusername/value-lines/internal/repository"
	"github.com/yourusername/value-lines/internal/service"
	"github.com/yourusername/value-lines/internal/stats"
	"github.com/yourusername/value-lines/internal/valueline"
)

// engineOptions maps the engine config section onto engine options
func engineOptions(ec config.EngineConfig) (valueline.Options, error) {
	fields := make([]models.FieldName, 0, len(ec.Fields))
	for _, name := range ec.Fields {
		field, err := models.ParseFieldName(name)
		if err != nil {
			return valueline.Options{}, err
		}
		fields = append(fields, field)
	}

	return valueline.Options{
		TargetProbability: ec.TargetProbability,
		MinProbability:    ec.MinProbability,
		MaxProbability:    ec.MaxProbability,
		Fields:            fields,
		DecayFactor:       ec.DecayFactor,
		WeightedShare:     valueline.Share(ec.WeightedShare),
		MinSampleSize:     ec.MinSampleSize,
		Confidence: valueline.ConfidencePolicy{
			HighMinSample:   ec.Confidence.HighMinSample,
			HighMaxStdDev:   ec.Confidence.HighMaxStdDev,
			MediumMinSample: ec.Confidence.MediumMinSample,
			MediumMaxStdDev: ec.Confidence.MediumMaxStdDev,
		},
	}, nil
}

func httpClientConfig(pc config.ProviderConfig) datasource.HTTPClientConfig {
	hc := datasource.DefaultHTTPClientConfig()
	hc.Timeout = time.Duration(pc.TimeoutSeconds) * time.Second
	hc.MaxRetries = pc.MaxRetries
	hc.RateLimit = pc.RequestsPerSecond
	hc.Burst = pc.Burst
	hc.CircuitBreakerMax = pc.CircuitBreakerThreshold
	hc.CircuitBreakerReset = time.Duration(pc.CircuitBreakerResetSeconds) * time.Second
	return hc
}

// app holds the components shared by the subcommands
type app struct {
	cfg        *config.Config
	log        *logrus.Logger
	http       *datasource.RateLimitedHTTPClient
	cache      *cache.FetchCache
	db         *database.DB
	repos      *repository.Repositories
	aggregator *stats.Aggregator
	engine     *valueline.Engine
}

func newApp(c *config.Config, log *logrus.Logger) (*app, error) {
	opts, err := engineOptions(c.Engine)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg: c,
		log: log,
		aggregator: stats.NewAggregator(stats.Config{
			DetailConcurrency: c.Aggregator.DetailConcurrency,
			ViewConcurrency:   c.Aggregator.ViewConcurrency,
		}, log),
		engine: valueline.NewEngine(opts, log),
	}
	if c.Cache.Enabled {
		a.cache = cache.NewFetchCache(c.CacheTTL(), time.Duration(c.Cache.CleanupIntervalSeconds)*time.Second, log)
	}
	return a, nil
}

// statsProvider builds the HTTP provider for the configured stats API
func (a *app) statsProvider() *datasource.StatsClient {
	if a.http == nil {
		a.http = datasource.NewRateLimitedHTTPClient(httpClientConfig(a.cfg.Provider), a.log)
	}
	return datasource.NewStatsClient(a.http, a.cfg.Provider.BaseURL, a.cfg.Provider.APIKey, a.log)
}

// openDatabase connects when the database is enabled. Callers must Close.
func (a *app) openDatabase(ctx context.Context) error {
	if !a.cfg.Database.Enabled || a.db != nil {
		return nil
	}
	db, err := database.Initialize(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return err
	}
	a.db, a.repos = db, repos
	return nil
}

func (a *app) analysisService(ctx context.Context, provider datasource.Provider, persist bool) (*service.AnalysisService, error) {
	ac := service.AnalysisConfig{
		Provider:   provider,
		Aggregator: a.aggregator,
		Engine:     a.engine,
		Cache:      a.cache,
		MatchLimit: a.cfg.Aggregator.MatchLimit,
		Logger:     a.log,
	}
	if persist {
		if err := a.openDatabase(ctx); err != nil {
			return nil, err
		}
		if a.repos == nil {
			return nil, fmt.Errorf("persisting predictions requires database.enabled")
		}
		ac.Predictions = a.repos.Prediction
		ac.Persist = true
	}
	return service.NewAnalysisService(ac)
}

func (a *app) settlementService(ctx context.Context) (*service.SettlementService, error) {
	if err := a.openDatabase(ctx); err != nil {
		return nil, err
	}
	if a.repos == nil {
		return nil, fmt.Errorf("settlement requires database.enabled")
	}
	return service.NewSettlementService(a.statsProvider(), a.repos.Prediction, a.log), nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.http != nil {
		a.http.Close()
	}
}
