package repository

import (
	"fmt"

	"github.com/yourusername/oddsedge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Games       GameRepository
	Odds        OddsRepository
	GameLogs    GameLogRepository
	Predictions PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Games:       NewPostgresGameRepository(db),
		Odds:        NewPostgresOddsRepository(db),
		GameLogs:    NewPostgresGameLogRepository(db),
		Predictions: NewPostgresPredictionRepository(db),
	}, nil
}
