package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/value-lines/internal/database"
	"github.com/yourusername/value-lines/internal/models"
)

const uniqueViolation = "23505"

const predictionColumns = `id, fixture_id, home_team, away_team, field, line, side, probability,
	fair_decimal_odds, predicted_total, confidence, sample_size, status, actual_value, created_at, settled_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a new prediction
func (r *PostgresPredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	query := `INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Pool().Exec(ctx, query,
		p.ID, p.FixtureID, p.HomeTeam, p.AwayTeam, p.Field, p.Line, p.Side, p.Probability,
		p.FairDecimalOdds, p.PredictedTotal, p.Confidence, p.SampleSize, p.Status, p.ActualValue, p.CreatedAt, p.SettledAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("prediction %s %s %.1f %s: %w", p.FixtureID, p.Field, p.Line, p.Side, models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	p, err := scanPrediction(r.db.Pool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// ListByMatch retrieves every prediction stored for a fixture in insertion
// order. Analysis stores recommendations already ranked, so this keeps the
// ranking of whichever target probability produced them.
func (r *PostgresPredictionRepository) ListByMatch(ctx context.Context, fixtureID string) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
		WHERE fixture_id = $1
		ORDER BY created_at, field, line`
	return r.list(ctx, query, fixtureID)
}

// ListPending retrieves unsettled predictions, oldest first
func (r *PostgresPredictionRepository) ListPending(ctx context.Context, limit int) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2`
	return r.list(ctx, query, models.PredictionPending, limit)
}

// ListSettled retrieves predictions settled at or after since, in settlement order
func (r *PostgresPredictionRepository) ListSettled(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
		WHERE status <> $1 AND settled_at >= $2
		ORDER BY settled_at, created_at`
	return r.list(ctx, query, models.PredictionPending, since)
}

// UpdateSettlement records the outcome of a pending prediction. The row is
// locked first so concurrent settlers cannot both grade it.
func (r *PostgresPredictionRepository) UpdateSettlement(ctx context.Context, id uuid.UUID, status models.PredictionStatus, actual float64, settledAt time.Time) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		var current models.PredictionStatus
		err := tx.QueryRow(ctx, `SELECT status FROM predictions WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock prediction: %w", err)
		}
		if current != models.PredictionPending {
			return models.ErrAlreadySettled
		}

		if _, err := tx.Exec(ctx, `UPDATE predictions
			SET status = $2, actual_value = $3, settled_at = $4
			WHERE id = $1`, id, status, actual, settledAt); err != nil {
			return fmt.Errorf("failed to settle prediction: %w", err)
		}
		return nil
	})
}

func (r *PostgresPredictionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Prediction, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}
	return predictions, nil
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	p := &models.Prediction{}
	err := row.Scan(
		&p.ID, &p.FixtureID, &p.HomeTeam, &p.AwayTeam, &p.Field, &p.Line, &p.Side, &p.Probability,
		&p.FairDecimalOdds, &p.PredictedTotal, &p.Confidence, &p.SampleSize, &p.Status, &p.ActualValue, &p.CreatedAt, &p.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
