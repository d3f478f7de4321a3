// Package edge combines model probabilities with market quotes into bounded
// stake recommendations.
package edge

import (
	"math"

	"github.com/yourusername/oddsedge/internal/calibration"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/oddsmath"
)

// Config holds the staking parameters. ShrinkWeight and MaxStakeFraction
// must lie in [0,1].
type Config struct {
	ShrinkWeight     float64 `mapstructure:"shrink_weight" validate:"gte=0,lte=1"`
	KellyMultiplier  float64 `mapstructure:"kelly_multiplier" validate:"gt=0,lte=1"`
	MaxStakeFraction float64 `mapstructure:"max_stake_fraction" validate:"gte=0,lte=1"`
	Bankroll         float64 `mapstructure:"bankroll" validate:"gt=0"`
	EdgeThreshold    float64 `mapstructure:"edge_threshold" validate:"gte=0"`
	MinSamples       int     `mapstructure:"min_samples" validate:"gte=0"`
}

// DefaultConfig returns conservative staking defaults: 70% model weight,
// quarter Kelly capped at 2% of a $1000 bankroll.
func DefaultConfig() Config {
	return Config{
		ShrinkWeight:     0.7,
		KellyMultiplier:  0.25,
		MaxStakeFraction: 0.02,
		Bankroll:         1000,
		EdgeThreshold:    2.0,
		MinSamples:       0,
	}
}

// SideEvaluation is the staking result for one side of a market.
type SideEvaluation struct {
	Side          models.Side `json:"side"`
	DecimalOdds   float64     `json:"decimal_odds"`
	MarketProb    float64     `json:"market_prob"`
	BlendedProb   float64     `json:"blended_prob"`
	EdgePct       float64     `json:"edge_pct"`
	EV            float64     `json:"ev"`
	StakeFraction float64     `json:"stake_fraction"`
	StakeDollars  float64     `json:"stake_dollars"`
	Qualifies     bool        `json:"qualifies"`
}

// Result is the full evaluation of a quoted game: both (or all three) sides
// plus an optional recommendation.
type Result struct {
	Home        SideEvaluation  `json:"home"`
	Away        SideEvaluation  `json:"away"`
	Draw        *SideEvaluation `json:"draw,omitempty"`
	Recommended *models.Side    `json:"recommended,omitempty"`
	Confidence  string          `json:"confidence"`
	SampleSize  int             `json:"sample_size"`
}

// Side returns the evaluation for the given side. Asking for the draw side
// of a two-way market returns a zero evaluation.
func (r *Result) Side(side models.Side) SideEvaluation {
	switch side {
	case models.SideHome:
		return r.Home
	case models.SideAway:
		return r.Away
	default:
		if r.Draw != nil {
			return *r.Draw
		}
		return SideEvaluation{Side: side}
	}
}

// Calculator evaluates market edges under a staking config, optionally
// passing model probabilities through a fitted calibrator first.
type Calculator struct {
	cfg        Config
	calibrator *calibration.Isotonic
}

// NewCalculator creates a calculator. A nil calibrator means raw model
// probabilities are used as-is.
func NewCalculator(cfg Config, calibrator *calibration.Isotonic) *Calculator {
	return &Calculator{cfg: cfg, calibrator: calibrator}
}

// Config returns the staking configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// EvaluateSide computes the staking metrics for one side: calibrate, shrink
// toward the de-vigged market probability, then derive EV, edge and a capped
// Kelly stake.
func (c *Calculator) EvaluateSide(pModel float64, quote *models.OddsQuote, side models.Side, sampleSize int) (SideEvaluation, error) {
	if c.calibrator != nil {
		pModel = c.calibrator.Predict(pModel)
	}

	market, err := oddsmath.ComputeEdge(pModel, quote, side)
	if err != nil {
		return SideEvaluation{}, err
	}

	w := math.Max(0, math.Min(1, c.cfg.ShrinkWeight))
	blended := w*pModel + (1-w)*market.MarketFairProb
	edgePct := (blended - market.MarketFairProb) * 100
	ev := oddsmath.ExpectedValue(blended, market.DecimalOdds)
	kelly := oddsmath.KellyFraction(blended, market.DecimalOdds, 1)
	stakeFraction := math.Min(kelly*c.cfg.KellyMultiplier, c.cfg.MaxStakeFraction)

	qualifies := ev > 0 && edgePct >= c.cfg.EdgeThreshold
	if c.cfg.MinSamples > 0 && sampleSize < c.cfg.MinSamples {
		qualifies = false
	}

	return SideEvaluation{
		Side:          side,
		DecimalOdds:   market.DecimalOdds,
		MarketProb:    market.MarketFairProb,
		BlendedProb:   blended,
		EdgePct:       edgePct,
		EV:            ev,
		StakeFraction: stakeFraction,
		StakeDollars:  stakeFraction * c.cfg.Bankroll,
		Qualifies:     qualifies,
	}, nil
}

// Evaluate scores every priced side of a quote against a model prediction
// and recommends the qualifying side with the best EV-weighted stake.
func (c *Calculator) Evaluate(pred *models.ModelPrediction, quote *models.OddsQuote, sampleSize int) (*Result, error) {
	home, err := c.EvaluateSide(pred.HomeProb, quote, models.SideHome, sampleSize)
	if err != nil {
		return nil, err
	}
	away, err := c.EvaluateSide(pred.AwayProb, quote, models.SideAway, sampleSize)
	if err != nil {
		return nil, err
	}

	result := &Result{Home: home, Away: away, SampleSize: sampleSize}
	if quote.ThreeWay() {
		draw, err := c.EvaluateSide(pred.DrawProb, quote, models.SideDraw, sampleSize)
		if err != nil {
			return nil, err
		}
		result.Draw = &draw
	}

	best := -1.0
	options := []SideEvaluation{home, away}
	if result.Draw != nil {
		options = append(options, *result.Draw)
	}
	for _, option := range options {
		if !option.Qualifies {
			continue
		}
		score := option.EV * option.StakeFraction
		if score > best {
			best = score
			side := option.Side
			result.Recommended = &side
			result.Confidence = ConfidenceLabel(option.EdgePct, option.EV, sampleSize)
		}
	}
	if result.Recommended == nil {
		result.Confidence = ConfidenceLow
	}

	return result, nil
}
