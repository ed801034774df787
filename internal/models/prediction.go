package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionStatus is the settlement state of a stored prediction
type PredictionStatus string

const (
	PredictionPending PredictionStatus = "pending"
	PredictionWon     PredictionStatus = "won"
	PredictionLost    PredictionStatus = "lost"
	PredictionPush    PredictionStatus = "push"
)

// Prediction is a recommendation recorded against an upcoming fixture
type Prediction struct {
	ID              uuid.UUID        `db:"id" json:"id" validate:"required"`
	FixtureID       string           `db:"fixture_id" json:"fixture_id" validate:"required"`
	HomeTeam        string           `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam        string           `db:"away_team" json:"away_team" validate:"required"`
	Field           FieldName        `db:"field" json:"field" validate:"required"`
	Line            float64          `db:"line" json:"line" validate:"gte=0"`
	Side            Direction        `db:"side" json:"side" validate:"required,oneof=over under"`
	Probability     float64          `db:"probability" json:"probability" validate:"gt=0,lte=1"`
	FairDecimalOdds float64          `db:"fair_decimal_odds" json:"fair_decimal_odds" validate:"gte=1"`
	PredictedTotal  float64          `db:"predicted_total" json:"predicted_total"`
	Confidence      Confidence       `db:"confidence" json:"confidence" validate:"required"`
	SampleSize      int              `db:"sample_size" json:"sample_size" validate:"gte=0"`
	Status          PredictionStatus `db:"status" json:"status" validate:"required"`
	ActualValue     *float64         `db:"actual_value" json:"actual_value,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	SettledAt       *time.Time       `db:"settled_at" json:"settled_at,omitempty"`
}

// NewPrediction records a recommendation for a fixture
func NewPrediction(fixtureID, homeTeam, awayTeam string, rec LineRecommendation) *Prediction {
	return &Prediction{
		ID:              uuid.New(),
		FixtureID:       fixtureID,
		HomeTeam:        homeTeam,
		AwayTeam:        awayTeam,
		Field:           rec.Field,
		Line:            rec.Line,
		Side:            rec.Side,
		Probability:     rec.Probability,
		FairDecimalOdds: rec.FairDecimalOdds,
		PredictedTotal:  rec.PredictedTotal,
		Confidence:      rec.Confidence,
		SampleSize:      rec.SampleSize,
		Status:          PredictionPending,
		CreatedAt:       time.Now().UTC(),
	}
}

// IsSettled reports whether an outcome has been recorded
func (p *Prediction) IsSettled() bool {
	return p.Status != PredictionPending
}
