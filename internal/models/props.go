package models

import (
	"encoding/json"
	"math"
	"time"
)

// PropBet is a player prop betting line with American prices for over and
// under.
type PropBet struct {
	PlayerID   string    `json:"player_id" validate:"required"`
	PlayerName string    `json:"player_name" validate:"required"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent"`
	GameDate   time.Time `json:"game_date"`
	Stat       StatType  `json:"stat"`
	Line       float64   `json:"line" validate:"gt=0"`
	OverOdds   int       `json:"over_odds"`
	UnderOdds  int       `json:"under_odds"`
	Book       string    `json:"book"`
	EventID    string    `json:"event_id"`
}

// Name returns a human-readable label for the prop.
func (p *PropBet) Name() string {
	return p.PlayerName + " " + p.Stat.String()
}

// PropEdge is the analysis result for a prop bet. Probabilities are stored
// as fractions; serialization converts to the documented percentage fields.
type PropEdge struct {
	Prop PropBet

	ProjectedValue float64
	HitRateSeason  float64
	HitRateLast10  float64
	HitRateLast5   float64

	ModelProbOver  float64
	MarketProbOver float64
	EdgePct        float64
	EVOver         float64
	EVUnder        float64
	DecimalOver    float64
	DecimalUnder   float64

	StakeFracOver     float64
	StakeFracUnder    float64
	StakeDollarsOver  float64
	StakeDollarsUnder float64

	RecommendedSide *Side
	Confidence      string
	SampleSize      int
	VsOpponentAvg   *float64
	HomeAvg         *float64
	AwayAvg         *float64
	Trend           string
}

// BestEV returns the larger of the over and under expected values.
func (e *PropEdge) BestEV() float64 {
	if e.EVOver >= e.EVUnder {
		return e.EVOver
	}
	return e.EVUnder
}

// BestStakeWeightedEV returns the larger EV*stakeFraction product across
// sides, used by the staking-aware ranking.
func (e *PropEdge) BestStakeWeightedEV() float64 {
	over := e.EVOver * e.StakeFracOver
	under := e.EVUnder * e.StakeFracUnder
	if over >= under {
		return over
	}
	return under
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// MarshalJSON serializes the edge with the documented field names and
// rounding precision; downstream consumers depend on the exact shape.
func (e *PropEdge) MarshalJSON() ([]byte, error) {
	var recommended *string
	if e.RecommendedSide != nil {
		s := e.RecommendedSide.String()
		recommended = &s
	}
	var vsOpp *float64
	if e.VsOpponentAvg != nil {
		v := round(*e.VsOpponentAvg, 1)
		vsOpp = &v
	}

	return json.Marshal(map[string]interface{}{
		"player_id":           e.Prop.PlayerID,
		"player_name":         e.Prop.PlayerName,
		"team":                e.Prop.Team,
		"opponent":            e.Prop.Opponent,
		"game_date":           e.Prop.GameDate.Format(time.RFC3339),
		"prop_type":           e.Prop.Stat.String(),
		"line":                e.Prop.Line,
		"over_odds":           e.Prop.OverOdds,
		"under_odds":          e.Prop.UnderOdds,
		"book":                e.Prop.Book,
		"projected_value":     round(e.ProjectedValue, 1),
		"hit_rate_season":     round(e.HitRateSeason*100, 1),
		"hit_rate_last10":     round(e.HitRateLast10*100, 1),
		"hit_rate_last5":      round(e.HitRateLast5*100, 1),
		"model_prob_over":     round(e.ModelProbOver*100, 1),
		"market_prob_over":    round(e.MarketProbOver*100, 1),
		"edge_pct":            round(e.EdgePct, 1),
		"ev_over":             round(e.EVOver, 3),
		"ev_under":            round(e.EVUnder, 3),
		"decimal_over":        round(e.DecimalOver, 3),
		"decimal_under":       round(e.DecimalUnder, 3),
		"stake_frac_over":     round(e.StakeFracOver, 4),
		"stake_frac_under":    round(e.StakeFracUnder, 4),
		"stake_dollars_over":  round(e.StakeDollarsOver, 2),
		"stake_dollars_under": round(e.StakeDollarsUnder, 2),
		"recommended_side":    recommended,
		"confidence":          e.Confidence,
		"sample_size":         e.SampleSize,
		"vs_opponent_avg":     vsOpp,
		"trend":               e.Trend,
	})
}
