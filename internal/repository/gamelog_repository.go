package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

// PostgresGameLogRepository implements GameLogRepository for PostgreSQL.
// Players live in a players table; each game log row carries its stat map
// as jsonb keyed by the canonical stat names.
type PostgresGameLogRepository struct {
	db *database.DB
}

// NewPostgresGameLogRepository creates a new game log repository
func NewPostgresGameLogRepository(db *database.DB) GameLogRepository {
	return &PostgresGameLogRepository{db: db}
}

// UpsertPlayer stores a player's identity and replaces their game log
func (r *PostgresGameLogRepository) UpsertPlayer(ctx context.Context, stats *models.PlayerStats) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO players (player_id, player_name, team, league, position)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (player_id) DO UPDATE SET
				player_name = EXCLUDED.player_name,
				team = EXCLUDED.team,
				league = EXCLUDED.league,
				position = EXCLUDED.position,
				updated_at = NOW()
		`
		_, err := tx.Exec(ctx, query,
			stats.PlayerID, stats.PlayerName, stats.Team, stats.League, stats.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert player: %w", err)
		}

		if _, err := tx.Exec(ctx, "DELETE FROM player_game_logs WHERE player_id = $1", stats.PlayerID); err != nil {
			return fmt.Errorf("failed to clear game logs: %w", err)
		}

		for i := range stats.GameLogs {
			if err := insertGameLog(ctx, tx, stats.PlayerID, &stats.GameLogs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendGameLog adds a single game log row for an existing player
func (r *PostgresGameLogRepository) AppendGameLog(ctx context.Context, playerID string, log *models.PlayerGameLog) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return insertGameLog(ctx, tx, playerID, log)
	})
}

func insertGameLog(ctx context.Context, tx pgx.Tx, playerID string, log *models.PlayerGameLog) error {
	statsJSON, err := encodeStats(log.Stats)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO player_game_logs (player_id, game_id, date, opponent, is_home, minutes, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			minutes = EXCLUDED.minutes,
			stats = EXCLUDED.stats
	`
	if _, err := tx.Exec(ctx, query,
		playerID, log.GameID, log.Date, log.Opponent, log.IsHome, log.Minutes, statsJSON,
	); err != nil {
		return fmt.Errorf("failed to insert game log: %w", err)
	}
	return nil
}

// GetByPlayerID retrieves a player and their full game log ordered by date
func (r *PostgresGameLogRepository) GetByPlayerID(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	return r.getPlayer(ctx, "WHERE player_id = $1", playerID)
}

// GetByPlayerName retrieves a player by case-insensitive name match
func (r *PostgresGameLogRepository) GetByPlayerName(ctx context.Context, name string) (*models.PlayerStats, error) {
	return r.getPlayer(ctx, "WHERE LOWER(player_name) = LOWER($1)", name)
}

func (r *PostgresGameLogRepository) getPlayer(ctx context.Context, where string, arg interface{}) (*models.PlayerStats, error) {
	query := "SELECT player_id, player_name, team, league, position FROM players " + where

	stats := &models.PlayerStats{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&stats.PlayerID, &stats.PlayerName, &stats.Team, &stats.League, &stats.Position,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	logs, err := r.loadGameLogs(ctx, stats.PlayerID)
	if err != nil {
		return nil, err
	}
	stats.GameLogs = logs

	return stats, nil
}

// ListByTeam retrieves all players on a team with their game logs
func (r *PostgresGameLogRepository) ListByTeam(ctx context.Context, team string) ([]*models.PlayerStats, error) {
	query := `
		SELECT player_id, player_name, team, league, position
		FROM players
		WHERE team = $1
		ORDER BY player_name ASC
	`

	rows, err := r.db.Query(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("failed to query players by team: %w", err)
	}
	defer rows.Close()

	var players []*models.PlayerStats
	for rows.Next() {
		stats := &models.PlayerStats{}
		err := rows.Scan(
			&stats.PlayerID, &stats.PlayerName, &stats.Team, &stats.League, &stats.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, stats := range players {
		logs, err := r.loadGameLogs(ctx, stats.PlayerID)
		if err != nil {
			return nil, err
		}
		stats.GameLogs = logs
	}

	return players, nil
}

func (r *PostgresGameLogRepository) loadGameLogs(ctx context.Context, playerID string) ([]models.PlayerGameLog, error) {
	query := `
		SELECT game_id, date, opponent, is_home, minutes, stats
		FROM player_game_logs
		WHERE player_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	var logs []models.PlayerGameLog
	for rows.Next() {
		var log models.PlayerGameLog
		var statsJSON []byte
		err := rows.Scan(&log.GameID, &log.Date, &log.Opponent, &log.IsHome, &log.Minutes, &statsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game log: %w", err)
		}
		log.Stats, err = decodeStats(statsJSON)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func encodeStats(stats map[models.StatType]float64) ([]byte, error) {
	named := make(map[string]float64, len(stats))
	for st, v := range stats {
		named[st.String()] = v
	}
	data, err := json.Marshal(named)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stats: %w", err)
	}
	return data, nil
}

func decodeStats(data []byte) (map[models.StatType]float64, error) {
	named := make(map[string]float64)
	if err := json.Unmarshal(data, &named); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	stats := make(map[models.StatType]float64, len(named))
	for name, v := range named {
		st, err := models.ParseStatType(name)
		if err != nil {
			// Stored stats predate the current stat set; skip unknowns.
			continue
		}
		stats[st] = v
	}
	return stats, nil
}
