// Package oddsmath provides pure numeric conversions between American odds,
// decimal odds, implied probability, de-vigged probability, expected value
// and Kelly staking fractions.
package oddsmath

import (
	"math"

	"github.com/yourusername/oddsedge/internal/models"
)

// ImpliedProbability converts American odds to the raw implied probability,
// vig included.
func ImpliedProbability(american float64) float64 {
	if american < 0 {
		return math.Abs(american) / (math.Abs(american) + 100)
	}
	return 100 / (american + 100)
}

// DecimalOdds converts American odds to decimal odds. The result is always
// greater than 1 for finite nonzero input.
func DecimalOdds(american float64) float64 {
	if american < 0 {
		return 1 + 100/math.Abs(american)
	}
	return 1 + american/100
}

// DeVig normalizes a set of raw implied probabilities to sum to exactly 1,
// preserving their ratios. It fails with ErrInvalidMarket when the inputs
// sum to zero or less; a malformed market is never silently repaired.
func DeVig(raw ...float64) ([]float64, error) {
	total := 0.0
	for _, p := range raw {
		total += p
	}
	if total <= 0 {
		return nil, models.ErrInvalidMarket
	}
	fair := make([]float64, len(raw))
	for i, p := range raw {
		fair[i] = p / total
	}
	return fair, nil
}

// DeVig2 strips the overround from a two-way market.
func DeVig2(a, b float64) (float64, float64, error) {
	fair, err := DeVig(a, b)
	if err != nil {
		return 0, 0, err
	}
	return fair[0], fair[1], nil
}

// DeVig3 strips the overround from a three-way (home/draw/away) market.
func DeVig3(a, b, c float64) (float64, float64, float64, error) {
	fair, err := DeVig(a, b, c)
	if err != nil {
		return 0, 0, 0, err
	}
	return fair[0], fair[1], fair[2], nil
}

// ExpectedValue returns the long-run average profit per unit stake for a
// true probability p at the given decimal odds. Strictly increasing in p.
func ExpectedValue(p, decimalOdds float64) float64 {
	return p*(decimalOdds-1) - (1 - p)
}

// KellyFraction returns the Kelly-optimal fraction of bankroll scaled by the
// given multiplier. It is zero whenever there is no edge or the market is
// degenerate (decimal odds at or below 1).
func KellyFraction(p, decimalOdds, multiplier float64) float64 {
	if decimalOdds <= 1 {
		return 0
	}
	edge := p*decimalOdds - 1
	if edge <= 0 {
		return 0
	}
	return math.Max(0, edge/(decimalOdds-1)) * multiplier
}

// Edge holds the market math for one side of a quote.
type Edge struct {
	MarketRawProb  float64 `json:"market_raw_prob"`
	MarketFairProb float64 `json:"market_fair_prob"`
	DecimalOdds    float64 `json:"decimal_odds"`
	EV             float64 `json:"ev"`
	EdgePct        float64 `json:"edge_pct"`
}

// ComputeEdge composes the conversions into an edge record for one side of
// a quote: de-vigged market probability, decimal odds, EV against the model
// probability, and edge percentage (pModel - marketFair) * 100.
func ComputeEdge(pModel float64, quote *models.OddsQuote, side models.Side) (Edge, error) {
	if quote == nil {
		return Edge{}, models.ErrMissingOdds
	}
	price, ok := quote.Price(side)
	if !ok {
		return Edge{}, models.ErrMissingOdds
	}

	var raw []float64
	var index int
	if quote.ThreeWay() {
		raw = []float64{
			ImpliedProbability(float64(quote.HomePrice)),
			ImpliedProbability(float64(quote.AwayPrice)),
			ImpliedProbability(float64(*quote.DrawPrice)),
		}
		switch side {
		case models.SideHome:
			index = 0
		case models.SideAway:
			index = 1
		case models.SideDraw:
			index = 2
		}
	} else {
		raw = []float64{
			ImpliedProbability(float64(quote.HomePrice)),
			ImpliedProbability(float64(quote.AwayPrice)),
		}
		if side == models.SideAway {
			index = 1
		}
	}

	fair, err := DeVig(raw...)
	if err != nil {
		return Edge{}, err
	}

	decimal := DecimalOdds(float64(price))
	return Edge{
		MarketRawProb:  raw[index],
		MarketFairProb: fair[index],
		DecimalOdds:    decimal,
		EV:             ExpectedValue(pModel, decimal),
		EdgePct:        (pModel - fair[index]) * 100,
	}, nil
}
