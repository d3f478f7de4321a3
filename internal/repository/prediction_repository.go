package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert stores a model prediction. Predictions are write-once per
// (game, model version); replays are ignored.
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.ModelPrediction) error {
	query := `
		INSERT INTO predictions (game_id, model_version, predicted_at, home_prob, away_prob, draw_prob)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, model_version) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		prediction.GameID, prediction.ModelVersion, prediction.PredictedAt,
		prediction.HomeProb, prediction.AwayProb, prediction.DrawProb,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent prediction for a game
func (r *PostgresPredictionRepository) GetLatest(ctx context.Context, gameID uuid.UUID) (*models.ModelPrediction, error) {
	query := `
		SELECT game_id, model_version, predicted_at, home_prob, away_prob, draw_prob
		FROM predictions
		WHERE game_id = $1
		ORDER BY predicted_at DESC
		LIMIT 1
	`

	prediction := &models.ModelPrediction{}
	err := r.db.QueryRow(ctx, query, gameID).Scan(
		&prediction.GameID, &prediction.ModelVersion, &prediction.PredictedAt,
		&prediction.HomeProb, &prediction.AwayProb, &prediction.DrawProb,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// ListByVersion retrieves predictions produced by a model version within a
// time range
func (r *PostgresPredictionRepository) ListByVersion(ctx context.Context, modelVersion string, start, end time.Time) ([]*models.ModelPrediction, error) {
	query := `
		SELECT game_id, model_version, predicted_at, home_prob, away_prob, draw_prob
		FROM predictions
		WHERE model_version = $1 AND predicted_at >= $2 AND predicted_at <= $3
		ORDER BY predicted_at ASC
	`

	rows, err := r.db.Query(ctx, query, modelVersion, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.ModelPrediction
	for rows.Next() {
		prediction := &models.ModelPrediction{}
		err := rows.Scan(
			&prediction.GameID, &prediction.ModelVersion, &prediction.PredictedAt,
			&prediction.HomeProb, &prediction.AwayProb, &prediction.DrawProb,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, prediction)
	}

	return predictions, rows.Err()
}
