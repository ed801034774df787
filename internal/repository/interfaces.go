package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/value-lines/internal/models"
)

// PredictionRepository defines operations for tracked line predictions
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	ListByMatch(ctx context.Context, fixtureID string) ([]*models.Prediction, error)
	ListPending(ctx context.Context, limit int) ([]*models.Prediction, error)
	ListSettled(ctx context.Context, since time.Time) ([]*models.Prediction, error)
	UpdateSettlement(ctx context.Context, id uuid.UUID, status models.PredictionStatus, actual float64, settledAt time.Time) error
}
