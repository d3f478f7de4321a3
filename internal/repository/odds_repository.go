package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

const errScanQuote = "failed to scan odds quote: %w"

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// Insert stores a single odds quote
func (r *PostgresOddsRepository) Insert(ctx context.Context, quote *models.OddsQuote) error {
	query := `
		INSERT INTO odds_quotes (game_id, bookmaker, captured_at, class, home_price, away_price, draw_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		quote.GameID, quote.Bookmaker, quote.CapturedAt, quote.Class.String(),
		quote.HomePrice, quote.AwayPrice, quote.DrawPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds quote: %w", err)
	}

	return nil
}

// InsertBatch stores multiple odds quotes in a single transaction
func (r *PostgresOddsRepository) InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO odds_quotes (game_id, bookmaker, captured_at, class, home_price, away_price, draw_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for _, quote := range quotes {
			_, err := tx.Exec(ctx, query,
				quote.GameID, quote.Bookmaker, quote.CapturedAt, quote.Class.String(),
				quote.HomePrice, quote.AwayPrice, quote.DrawPrice,
			)
			if err != nil {
				return fmt.Errorf("failed to insert odds quote batch entry: %w", err)
			}
		}
		return nil
	})
}

// ListByGame retrieves all quotes for a game ordered by capture time
func (r *PostgresOddsRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.OddsQuote, error) {
	query := `
		SELECT game_id, bookmaker, captured_at, class, home_price, away_price, draw_price
		FROM odds_quotes
		WHERE game_id = $1
		ORDER BY captured_at ASC
	`

	rows, err := r.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*models.OddsQuote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	return quotes, rows.Err()
}

// PreferredQuote returns the latest quote of the requested class for a game,
// falling back to the latest quote of any class when that class was never
// captured
func (r *PostgresOddsRepository) PreferredQuote(ctx context.Context, gameID uuid.UUID, class models.QuoteClass) (*models.OddsQuote, error) {
	query := `
		SELECT game_id, bookmaker, captured_at, class, home_price, away_price, draw_price
		FROM odds_quotes
		WHERE game_id = $1
		ORDER BY (class = $2) DESC, captured_at DESC
		LIMIT 1
	`

	row := r.db.QueryRow(ctx, query, gameID, class.String())
	quote, err := scanQuoteRow(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferred quote: %w", err)
	}

	return quote, nil
}

func scanQuote(rows pgx.Rows) (*models.OddsQuote, error) {
	quote := &models.OddsQuote{}
	var class string
	err := rows.Scan(
		&quote.GameID, &quote.Bookmaker, &quote.CapturedAt, &class,
		&quote.HomePrice, &quote.AwayPrice, &quote.DrawPrice,
	)
	if err != nil {
		return nil, fmt.Errorf(errScanQuote, err)
	}
	quote.Class = parseQuoteClass(class)
	return quote, nil
}

func scanQuoteRow(row pgx.Row) (*models.OddsQuote, error) {
	quote := &models.OddsQuote{}
	var class string
	err := row.Scan(
		&quote.GameID, &quote.Bookmaker, &quote.CapturedAt, &class,
		&quote.HomePrice, &quote.AwayPrice, &quote.DrawPrice,
	)
	if err != nil {
		return nil, err
	}
	quote.Class = parseQuoteClass(class)
	return quote, nil
}

func parseQuoteClass(raw string) models.QuoteClass {
	switch raw {
	case "opening":
		return models.QuoteOpening
	case "live":
		return models.QuoteLive
	default:
		return models.QuoteClosing
	}
}
