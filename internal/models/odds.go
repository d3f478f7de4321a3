package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteClass distinguishes when in a market's life a quote was captured.
type QuoteClass int

const (
	QuoteOpening QuoteClass = iota
	QuoteClosing
	QuoteLive
)

// String returns the lowercase wire name for the quote class.
func (c QuoteClass) String() string {
	switch c {
	case QuoteOpening:
		return "opening"
	case QuoteClosing:
		return "closing"
	case QuoteLive:
		return "live"
	default:
		return "unknown"
	}
}

// OddsQuote represents a point-in-time priced market snapshot with one
// American price per side. DrawPrice is nil for two-way markets.
type OddsQuote struct {
	GameID     uuid.UUID  `db:"game_id" json:"game_id" validate:"required"`
	Bookmaker  string     `db:"bookmaker" json:"bookmaker" validate:"required"`
	CapturedAt time.Time  `db:"captured_at" json:"captured_at" validate:"required"`
	Class      QuoteClass `db:"class" json:"class"`
	HomePrice  int        `db:"home_price" json:"home_price"`
	AwayPrice  int        `db:"away_price" json:"away_price"`
	DrawPrice  *int       `db:"draw_price" json:"draw_price"`
}

// ThreeWay reports whether the quote prices a draw outcome.
func (q *OddsQuote) ThreeWay() bool {
	return q.DrawPrice != nil
}

// Price returns the American price for the requested side. The second
// return value is false when the quote does not carry that side.
func (q *OddsQuote) Price(side Side) (int, bool) {
	switch side {
	case SideHome:
		return q.HomePrice, true
	case SideAway:
		return q.AwayPrice, true
	case SideDraw:
		if q.DrawPrice == nil {
			return 0, false
		}
		return *q.DrawPrice, true
	default:
		return 0, false
	}
}

// ModelPrediction is a per-side probability estimate produced at decision
// time. It is written once per (game, model version) and read-only afterward.
type ModelPrediction struct {
	GameID       uuid.UUID `db:"game_id" json:"game_id" validate:"required"`
	ModelVersion string    `db:"model_version" json:"model_version" validate:"required"`
	PredictedAt  time.Time `db:"predicted_at" json:"predicted_at" validate:"required"`
	HomeProb     float64   `db:"home_prob" json:"home_prob" validate:"gte=0,lte=1"`
	AwayProb     float64   `db:"away_prob" json:"away_prob" validate:"gte=0,lte=1"`
	DrawProb     float64   `db:"draw_prob" json:"draw_prob" validate:"gte=0,lte=1"`
}

// Probability returns the predicted probability for a side.
func (p *ModelPrediction) Probability(side Side) float64 {
	switch side {
	case SideHome:
		return p.HomeProb
	case SideAway:
		return p.AwayProb
	case SideDraw:
		return p.DrawProb
	default:
		return 0
	}
}
