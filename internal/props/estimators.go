package props

import (
	"math"

	"github.com/yourusername/oddsedge/internal/models"
)

type estimatorInputs struct {
	line          float64
	seasonAvg     float64
	seasonMedian  float64
	last5Avg      float64
	last10Avg     float64
	hitRateSeason float64
	hitRateLast10 float64
	std           float64
	vsOpponentAvg *float64
}

// modelProbOver combines four independent estimates of P(stat > line):
// empirical hit rate (35%), a gaussian approximation over the season
// distribution (30%), a bounded recent-form signal (25%) and opponent
// context (10%). The result is clamped to [0.05, 0.95].
func modelProbOver(in estimatorInputs) float64 {
	empirical := 0.6*in.hitRateLast10 + 0.4*in.hitRateSeason

	var gaussian float64
	if in.std > 0 {
		// P(X > line) via a logistic approximation of the normal CDF.
		z := (in.line - in.seasonAvg) / in.std
		gaussian = 1 / (1 + math.Exp(1.7*z))
	} else {
		gaussian = 0.5 + 0.5*clamp((in.seasonAvg-in.line)/math.Max(in.line, 1), -1, 1)
	}

	recentAvg := 0.6*in.last5Avg + 0.4*in.last10Avg
	var recent float64
	if recentAvg > in.line {
		recent = 0.5 + 0.3*math.Min(1, (recentAvg-in.line)/math.Max(in.line*0.2, 1))
	} else {
		recent = 0.5 - 0.3*math.Min(1, (in.line-recentAvg)/math.Max(in.line*0.2, 1))
	}

	context := 0.5
	if in.vsOpponentAvg != nil {
		if *in.vsOpponentAvg > in.seasonAvg {
			context += 0.05
		} else if *in.vsOpponentAvg < in.seasonAvg {
			context -= 0.05
		}
	}

	prob := 0.35*empirical + 0.30*gaussian + 0.25*recent + 0.10*context
	return clamp(prob, 0.05, 0.95)
}

// projection estimates the stat value for the upcoming game, weighting
// recent games heavier and blending in the opponent history when present.
func projection(seasonAvg, last5Avg, last10Avg float64, vsOpponentAvg *float64) float64 {
	base := 0.3*seasonAvg + 0.35*last10Avg + 0.35*last5Avg
	if vsOpponentAvg != nil {
		base = 0.85*base + 0.15**vsOpponentAvg
	}
	return base
}

// Trend labels.
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// trend compares the last 3 games against the last 6 and the season. Fewer
// than 6 games is always neutral.
func trend(stats *models.PlayerStats, st models.StatType) string {
	if stats.GamesPlayed() < 6 {
		return TrendNeutral
	}
	last3 := stats.StatAverage(st, 3)
	last6 := stats.StatAverage(st, 6)
	season := stats.StatAverage(st, 0)

	switch {
	case last3 > last6*1.1 && last3 > season:
		return TrendUp
	case last3 < last6*0.9 && last3 < season:
		return TrendDown
	default:
		return TrendNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
