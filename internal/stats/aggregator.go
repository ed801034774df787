package stats

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/metrics"
	"github.com/yourusername/value-lines/internal/models"
)

// Default fetch ceilings
const (
	DefaultDetailConcurrency = 4
	DefaultViewConcurrency   = 3
)

// DetailFetcher loads the trend or totals payload for a match
type DetailFetcher func(ctx context.Context, matchID string) (models.StatPayload, error)

// ViewFetcher loads the full match view used for offside counts
type ViewFetcher func(ctx context.Context, matchID string) (*models.MatchView, error)

// Config holds aggregator settings
type Config struct {
	DetailConcurrency int
	ViewConcurrency   int
}

// Aggregator turns a team's recent matches into normalized records and a summary
type Aggregator struct {
	detailWorkers int
	viewWorkers   int
	log           *logger.AggregationLogger
}

// NewAggregator creates an aggregator. A nil logger discards output.
func NewAggregator(cfg Config, log *logrus.Logger) *Aggregator {
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = DefaultDetailConcurrency
	}
	if cfg.ViewConcurrency <= 0 {
		cfg.ViewConcurrency = DefaultViewConcurrency
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Aggregator{
		detailWorkers: cfg.DetailConcurrency,
		viewWorkers:   cfg.ViewConcurrency,
		log:           logger.NewAggregationLogger(log),
	}
}

// AggregateTeamHistory runs the default aggregator without logging
func AggregateTeamHistory(ctx context.Context, matches []models.RawMatchRef, fetchDetail DetailFetcher, fetchView ViewFetcher, target models.TeamIdentity) models.TeamHistory {
	return NewAggregator(Config{}, nil).AggregateTeamHistory(ctx, matches, fetchDetail, fetchView, target)
}

type resolvedMatch struct {
	ref         models.RawMatchRef
	side        models.Side
	attribution models.Attribution
}

// AggregateTeamHistory fetches detail and offside data for every match with
// bounded parallelism and folds the results. Individual fetch failures drop
// that match only; the call itself never fails.
func (a *Aggregator) AggregateTeamHistory(ctx context.Context, matches []models.RawMatchRef, fetchDetail DetailFetcher, fetchView ViewFetcher, target models.TeamIdentity) models.TeamHistory {
	start := time.Now()
	history := models.TeamHistory{
		Team:    target,
		Records: make([]models.NormalizedMatchRecord, 0, len(matches)),
	}

	resolved := make([]resolvedMatch, len(matches))
	for i, m := range matches {
		side, attribution := ResolveSide(m, target)
		if attribution == models.AttributionDefault {
			history.DefaultedAttribution++
			a.log.LogDefaultedAttribution(m.ID, target.ID, target.Name)
		}
		resolved[i] = resolvedMatch{ref: m, side: side, attribution: attribution}
	}

	var (
		details []result[models.StatPayload]
		views   []result[*models.MatchView]
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		details = a.fetchDetails(ctx, matches, fetchDetail)
	}()
	go func() {
		defer wg.Done()
		views = a.fetchViews(ctx, matches, fetchView)
	}()
	wg.Wait()

	for i, rm := range resolved {
		if !details[i].ok {
			history.FailedMatches++
			continue
		}
		fields := NormalizePayload(details[i].value, rm.side)
		if views != nil && views[i].ok {
			enrichOffsides(fields, views[i].value, rm.side)
		}
		if len(fields) == 0 {
			continue
		}
		history.Records = append(history.Records, models.NormalizedMatchRecord{
			MatchID:      rm.ref.ID,
			Side:         rm.side,
			Attribution:  rm.attribution,
			OccurredAt:   rm.ref.StartTime,
			OpponentName: opponentName(rm.ref, rm.side),
			FinalScore:   rm.ref.FinalScore,
			Fields:       fields,
		})
	}

	history.Summary = Summarize(history.Records)
	history.SampleSize = len(history.Records)

	elapsed := time.Since(start)
	metrics.RecordAggregation(history.SampleSize, history.FailedMatches, elapsed.Seconds())
	a.log.LogAggregation(target.ID, target.Name, len(matches), history.SampleSize, history.FailedMatches, float64(elapsed.Milliseconds()))
	return history
}

func (a *Aggregator) fetchDetails(ctx context.Context, matches []models.RawMatchRef, fetch DetailFetcher) []result[models.StatPayload] {
	if fetch == nil {
		return make([]result[models.StatPayload], len(matches))
	}
	return fanOut(len(matches), a.detailWorkers, func(i int) (models.StatPayload, error) {
		payload, err := fetch(ctx, matches[i].ID)
		if err != nil {
			metrics.RecordFetch(metrics.StageDetail, metrics.StatusFailure)
			a.log.LogFetchFailure(matches[i].ID, metrics.StageDetail, err)
			return nil, err
		}
		metrics.RecordFetch(metrics.StageDetail, metrics.StatusSuccess)
		return payload, nil
	})
}

func (a *Aggregator) fetchViews(ctx context.Context, matches []models.RawMatchRef, fetch ViewFetcher) []result[*models.MatchView] {
	if fetch == nil {
		return nil
	}
	return fanOut(len(matches), a.viewWorkers, func(i int) (*models.MatchView, error) {
		view, err := fetch(ctx, matches[i].ID)
		if err != nil {
			metrics.RecordFetch(metrics.StageView, metrics.StatusFailure)
			a.log.LogFetchFailure(matches[i].ID, metrics.StageView, err)
			return nil, err
		}
		metrics.RecordFetch(metrics.StageView, metrics.StatusSuccess)
		return view, nil
	})
}
