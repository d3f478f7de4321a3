package service

import (
	"encoding/json"
	"math"
	"time"

	"github.com/yourusername/oddsedge/internal/datasource"
	"github.com/yourusername/oddsedge/internal/edge"
	"github.com/yourusername/oddsedge/internal/models"
)

// GamePrediction is the serialized evaluation of one quoted game. Downstream
// consumers depend on the exact field names and rounding, so the shape is
// fixed by MarshalJSON.
type GamePrediction struct {
	ID       string
	League   string
	HomeTeam string
	AwayTeam string
	GameTime time.Time

	HomeElo         float64
	AwayElo         float64
	HomeEloAdjusted float64
	AwayEloAdjusted float64

	HomeProb float64
	AwayProb float64
	DrawProb float64

	HomeOdds int
	AwayOdds int
	DrawOdds *int

	Home edge.SideEvaluation
	Away edge.SideEvaluation
	Draw *edge.SideEvaluation

	RecommendedBet *models.Side
	Confidence     string
	SampleSize     int
}

func newGamePrediction(model *LeagueModel, event datasource.EventOdds, pred *models.ModelPrediction, result *edge.Result) *GamePrediction {
	game := event.Game
	return &GamePrediction{
		ID:              game.ID.String(),
		League:          game.League,
		HomeTeam:        game.HomeTeam,
		AwayTeam:        game.AwayTeam,
		GameTime:        game.StartTime,
		HomeElo:         model.StoredRating(game.HomeTeam),
		AwayElo:         model.StoredRating(game.AwayTeam),
		HomeEloAdjusted: model.AdjustedRating(game.HomeTeam),
		AwayEloAdjusted: model.AdjustedRating(game.AwayTeam),
		HomeProb:        pred.HomeProb,
		AwayProb:        pred.AwayProb,
		DrawProb:        pred.DrawProb,
		HomeOdds:        event.Quote.HomePrice,
		AwayOdds:        event.Quote.AwayPrice,
		DrawOdds:        event.Quote.DrawPrice,
		Home:            result.Home,
		Away:            result.Away,
		Draw:            result.Draw,
		RecommendedBet:  result.Recommended,
		Confidence:      result.Confidence,
		SampleSize:      result.SampleSize,
	}
}

// bestScore is the EV-weighted stake of the best side, the ranking key for
// exported predictions.
func (g *GamePrediction) bestScore() float64 {
	best := 0.0
	for _, side := range []edge.SideEvaluation{g.Home, g.Away} {
		best = math.Max(best, side.EV*side.StakeFraction)
	}
	if g.Draw != nil {
		best = math.Max(best, g.Draw.EV*g.Draw.StakeFraction)
	}
	return best
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// MarshalJSON serializes the prediction with the documented payload shape:
// probabilities as percentages at 1 decimal, EV and decimal odds at 3,
// stake fractions at 4, dollar stakes at 2, ratings rounded to integers.
// Draw fields are null for two-way markets.
func (g *GamePrediction) MarshalJSON() ([]byte, error) {
	var recommended *string
	if g.RecommendedBet != nil {
		s := g.RecommendedBet.String()
		recommended = &s
	}

	payload := map[string]interface{}{
		"id":               g.ID,
		"league":           g.League,
		"homeTeam":         g.HomeTeam,
		"awayTeam":         g.AwayTeam,
		"gameTime":         g.GameTime.Format(time.RFC3339),
		"homeElo":          math.Round(g.HomeElo),
		"awayElo":          math.Round(g.AwayElo),
		"homeEloAdjusted":  math.Round(g.HomeEloAdjusted),
		"awayEloAdjusted":  math.Round(g.AwayEloAdjusted),
		"homeProbability":  round(g.HomeProb*100, 1),
		"awayProbability":  round(g.AwayProb*100, 1),
		"homeOdds":         g.HomeOdds,
		"awayOdds":         g.AwayOdds,
		"drawOdds":         g.DrawOdds,
		"homeMarketProb":   round(g.Home.MarketProb*100, 1),
		"awayMarketProb":   round(g.Away.MarketProb*100, 1),
		"homeDecimalOdds":  round(g.Home.DecimalOdds, 3),
		"awayDecimalOdds":  round(g.Away.DecimalOdds, 3),
		"homeEdge":         round(g.Home.EdgePct, 1),
		"awayEdge":         round(g.Away.EdgePct, 1),
		"homeEV":           round(g.Home.EV, 3),
		"awayEV":           round(g.Away.EV, 3),
		"homeStakeFrac":    round(g.Home.StakeFraction, 4),
		"awayStakeFrac":    round(g.Away.StakeFraction, 4),
		"homeStakeDollars": round(g.Home.StakeDollars, 2),
		"awayStakeDollars": round(g.Away.StakeDollars, 2),
		"recommendedBet":   recommended,
		"confidence":       g.Confidence,
		"sampleSize":       g.SampleSize,
		"drawProbability":  nil,
		"drawMarketProb":   nil,
		"drawDecimalOdds":  nil,
		"drawEdge":         nil,
		"drawEV":           nil,
		"drawStakeFrac":    nil,
		"drawStakeDollars": nil,
	}
	if g.Draw != nil {
		payload["drawProbability"] = round(g.DrawProb*100, 1)
		payload["drawMarketProb"] = round(g.Draw.MarketProb*100, 1)
		payload["drawDecimalOdds"] = round(g.Draw.DecimalOdds, 3)
		payload["drawEdge"] = round(g.Draw.EdgePct, 1)
		payload["drawEV"] = round(g.Draw.EV, 3)
		payload["drawStakeFrac"] = round(g.Draw.StakeFraction, 4)
		payload["drawStakeDollars"] = round(g.Draw.StakeDollars, 2)
	}

	return json.Marshal(payload)
}
