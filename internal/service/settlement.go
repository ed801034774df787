package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/datasource"
	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/metrics"
	"github.com/yourusername/value-lines/internal/models"
	"github.com/yourusername/value-lines/internal/repository"
	"github.com/yourusername/value-lines/internal/stats"
)

// Settle grades a prediction against the actual match total. An actual
// exactly on the line is a push.
func Settle(p *models.Prediction, actual float64) (models.PredictionStatus, error) {
	if p.IsSettled() {
		return p.Status, models.ErrAlreadySettled
	}
	switch {
	case actual == p.Line:
		return models.PredictionPush, nil
	case p.Side == models.DirectionOver && actual > p.Line,
		p.Side == models.DirectionUnder && actual < p.Line:
		return models.PredictionWon, nil
	case p.Side == models.DirectionOver || p.Side == models.DirectionUnder:
		return models.PredictionLost, nil
	default:
		return "", fmt.Errorf("prediction %s has unknown side %q", p.ID, p.Side)
	}
}

// FinalStats is what a finished fixture is graded on. View is only fetched
// for offside lines and may be nil.
type FinalStats struct {
	Detail models.StatPayload
	View   *models.MatchView
}

// Total sums both sides for field. Offside counts prefer the match view per
// side and fall back to the detail payload, as aggregation does.
func (f FinalStats) Total(field models.FieldName) (float64, bool) {
	total := 0.0
	for _, side := range []models.Side{models.SideHome, models.SideAway} {
		if field == models.FieldOffsides {
			if v, ok := stats.ExtractOffsides(f.View, side); ok {
				total += v
				continue
			}
		}
		v, ok := stats.NormalizePayload(f.Detail, side)[field]
		if !ok {
			return 0, false
		}
		total += v
	}
	return total, true
}

// MatchTotal sums both sides of a finished match's payload for one field
func MatchTotal(payload models.StatPayload, field models.FieldName) (float64, bool) {
	return FinalStats{Detail: payload}.Total(field)
}

// FetchFinalStats loads a fixture's detail payload and, when withView is
// set, its match view. A failed view fetch leaves View nil.
func FetchFinalStats(ctx context.Context, provider datasource.Provider, fixtureID string, withView bool, log *logrus.Entry) (*FinalStats, error) {
	detail, err := provider.MatchDetail(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	final := &FinalStats{Detail: detail}
	if !withView {
		return final, nil
	}
	view, err := provider.MatchView(ctx, fixtureID)
	if err != nil {
		if !errors.Is(err, datasource.ErrNotFound) && log != nil {
			log.WithError(err).WithField("fixture_id", fixtureID).Warn("Failed to fetch match view, grading offsides from detail")
		}
		return final, nil
	}
	final.View = view
	return final, nil
}

// SettlementReport summarizes a settlement run
type SettlementReport struct {
	Checked int `json:"checked"`
	Settled int `json:"settled"`
	Skipped int `json:"skipped"`
	Won     int `json:"won"`
	Lost    int `json:"lost"`
	Push    int `json:"push"`
}

func (r *SettlementReport) add(status models.PredictionStatus) {
	r.Settled++
	switch status {
	case models.PredictionWon:
		r.Won++
	case models.PredictionLost:
		r.Lost++
	case models.PredictionPush:
		r.Push++
	}
}

// SettlementService grades stored predictions once their fixtures finish
type SettlementService struct {
	provider    datasource.Provider
	predictions repository.PredictionRepository
	audit       *logger.AuditLogger
	log         *logrus.Entry
	now         func() time.Time
}

// NewSettlementService creates a settlement service
func NewSettlementService(provider datasource.Provider, predictions repository.PredictionRepository, log *logrus.Logger) *SettlementService {
	if log == nil {
		log = logger.Discard()
	}
	return &SettlementService{
		provider:    provider,
		predictions: predictions,
		audit:       logger.NewAuditLogger(log),
		log:         log.WithField("component", "settlement"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SettleByID grades a single prediction against a known actual value
func (s *SettlementService) SettleByID(ctx context.Context, id uuid.UUID, actual float64) (models.PredictionStatus, error) {
	p, err := s.predictions.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.apply(ctx, p, actual)
}

// SettlePending grades up to limit pending predictions whose fixture stats
// are available. Fixtures without stats yet are left pending.
func (s *SettlementService) SettlePending(ctx context.Context, limit int) (*SettlementReport, error) {
	pending, err := s.predictions.ListPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	needsView := make(map[string]bool)
	for _, p := range pending {
		if p.Field == models.FieldOffsides {
			needsView[p.FixtureID] = true
		}
	}

	report := &SettlementReport{}
	finals := make(map[string]*FinalStats)
	for _, p := range pending {
		report.Checked++

		final, ok := finals[p.FixtureID]
		if !ok {
			final, err = FetchFinalStats(ctx, s.provider, p.FixtureID, needsView[p.FixtureID], s.log)
			if err != nil {
				if !errors.Is(err, datasource.ErrNotFound) {
					s.log.WithError(err).WithField("fixture_id", p.FixtureID).Warn("Failed to fetch fixture stats")
				}
				report.Skipped++
				continue
			}
			finals[p.FixtureID] = final
		}

		actual, ok := final.Total(p.Field)
		if !ok {
			report.Skipped++
			continue
		}

		status, err := s.apply(ctx, p, actual)
		if err != nil {
			if errors.Is(err, models.ErrAlreadySettled) {
				report.Skipped++
				continue
			}
			return report, err
		}
		report.add(status)
	}
	return report, nil
}

func (s *SettlementService) apply(ctx context.Context, p *models.Prediction, actual float64) (models.PredictionStatus, error) {
	status, err := Settle(p, actual)
	if err != nil {
		return status, err
	}
	settledAt := s.now()
	if err := s.predictions.UpdateSettlement(ctx, p.ID, status, actual, settledAt); err != nil {
		return "", err
	}
	metrics.RecordPredictionSettled(string(status))
	s.audit.LogPredictionSettled(p.ID.String(), actual, string(status), settledAt)
	return status, nil
}
