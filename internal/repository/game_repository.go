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

const errScanGame = "failed to scan game: %w"

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Create inserts a new game
func (r *PostgresGameRepository) Create(ctx context.Context, game *models.GameRecord) error {
	query := `
		INSERT INTO games (id, league, home_team, away_team, start_time, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		game.ID, game.League, game.HomeTeam, game.AwayTeam, game.StartTime,
		game.HomeScore, game.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

// Upsert inserts a game or refreshes its schedule and scores on conflict
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.GameRecord) error {
	query := `
		INSERT INTO games (id, league, home_team, away_team, start_time, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			home_score = COALESCE(EXCLUDED.home_score, games.home_score),
			away_score = COALESCE(EXCLUDED.away_score, games.away_score),
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		game.ID, game.League, game.HomeTeam, game.AwayTeam, game.StartTime,
		game.HomeScore, game.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GameRecord, error) {
	query := `
		SELECT id, league, home_team, away_team, start_time, home_score, away_score
		FROM games WHERE id = $1
	`

	game := &models.GameRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&game.ID, &game.League, &game.HomeTeam, &game.AwayTeam, &game.StartTime,
		&game.HomeScore, &game.AwayScore,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListByLeague retrieves a league's games within a date range ordered by
// start time
func (r *PostgresGameRepository) ListByLeague(ctx context.Context, league string, start, end time.Time) ([]*models.GameRecord, error) {
	query := `
		SELECT id, league, home_team, away_team, start_time, home_score, away_score
		FROM games
		WHERE league = $1 AND start_time >= $2 AND start_time <= $3
		ORDER BY start_time ASC
	`

	rows, err := r.db.Query(ctx, query, league, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by league: %w", err)
	}
	defer rows.Close()

	var games []*models.GameRecord
	for rows.Next() {
		game := &models.GameRecord{}
		err := rows.Scan(
			&game.ID, &game.League, &game.HomeTeam, &game.AwayTeam, &game.StartTime,
			&game.HomeScore, &game.AwayScore,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// ListUnsettled retrieves started games still missing a final score
func (r *PostgresGameRepository) ListUnsettled(ctx context.Context, league string) ([]*models.GameRecord, error) {
	query := `
		SELECT id, league, home_team, away_team, start_time, home_score, away_score
		FROM games
		WHERE league = $1 AND start_time < NOW()
		  AND (home_score IS NULL OR away_score IS NULL)
		ORDER BY start_time ASC
	`

	rows, err := r.db.Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled games: %w", err)
	}
	defer rows.Close()

	var games []*models.GameRecord
	for rows.Next() {
		game := &models.GameRecord{}
		err := rows.Scan(
			&game.ID, &game.League, &game.HomeTeam, &game.AwayTeam, &game.StartTime,
			&game.HomeScore, &game.AwayScore,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// RecordFinalScore writes final scores for a game. Scores are write-once;
// a game that already has both scores is left untouched.
func (r *PostgresGameRepository) RecordFinalScore(ctx context.Context, id uuid.UUID, homeScore, awayScore float64) error {
	query := `
		UPDATE games SET
			home_score = $2, away_score = $3, updated_at = NOW()
		WHERE id = $1 AND (home_score IS NULL OR away_score IS NULL)
	`

	commandTag, err := r.db.Exec(ctx, query, id, homeScore, awayScore)
	if err != nil {
		return fmt.Errorf("failed to record final score: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
