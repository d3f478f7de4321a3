package backtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/rating"
)

// Row is one replayable observation: the model's pre-game probabilities, the
// market quote captured for the game, and the realized outcome. Quote is nil
// when no odds were captured; Winner is nil for games that never settled.
type Row struct {
	GameID   uuid.UUID
	Date     time.Time
	League   string
	HomeProb float64
	AwayProb float64
	Quote    *models.OddsQuote
	Winner   *models.Side
}

// RowsFromFeatures joins point-in-time feature rows with captured quotes into
// replayable rows. Games without a quote still produce a row with a nil
// quote so the replay can count them as skipped.
func RowsFromFeatures(features []rating.Feature, quotes map[uuid.UUID]*models.OddsQuote) []Row {
	rows := make([]Row, 0, len(features))
	for _, f := range features {
		rows = append(rows, Row{
			GameID:   f.GameID,
			Date:     f.Date,
			League:   f.League,
			HomeProb: f.HomeProb,
			AwayProb: f.AwayProb,
			Quote:    quotes[f.GameID],
			Winner:   f.Winner,
		})
	}
	return rows
}
