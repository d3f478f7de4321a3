// Package repository provides PostgreSQL data access for games, odds
// quotes, player game logs, and stored predictions.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/oddsedge/internal/models"
)

// GameRepository defines the interface for game data access
type GameRepository interface {
	Create(ctx context.Context, game *models.GameRecord) error
	Upsert(ctx context.Context, game *models.GameRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GameRecord, error)
	ListByLeague(ctx context.Context, league string, start, end time.Time) ([]*models.GameRecord, error)
	ListUnsettled(ctx context.Context, league string) ([]*models.GameRecord, error)
	RecordFinalScore(ctx context.Context, id uuid.UUID, homeScore, awayScore float64) error
}

// OddsRepository defines the interface for odds quote data access
type OddsRepository interface {
	Insert(ctx context.Context, quote *models.OddsQuote) error
	InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.OddsQuote, error)
	// PreferredQuote returns the latest quote of the requested class,
	// falling back to the latest quote of any class. models.ErrNotFound
	// when the game has no quotes at all.
	PreferredQuote(ctx context.Context, gameID uuid.UUID, class models.QuoteClass) (*models.OddsQuote, error)
}

// GameLogRepository defines the interface for player game log data access
type GameLogRepository interface {
	UpsertPlayer(ctx context.Context, stats *models.PlayerStats) error
	AppendGameLog(ctx context.Context, playerID string, log *models.PlayerGameLog) error
	GetByPlayerID(ctx context.Context, playerID string) (*models.PlayerStats, error)
	GetByPlayerName(ctx context.Context, name string) (*models.PlayerStats, error)
	ListByTeam(ctx context.Context, team string) ([]*models.PlayerStats, error)
}

// PredictionRepository defines the interface for stored model predictions
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.ModelPrediction) error
	GetLatest(ctx context.Context, gameID uuid.UUID) (*models.ModelPrediction, error)
	ListByVersion(ctx context.Context, modelVersion string, start, end time.Time) ([]*models.ModelPrediction, error)
}
