// Package props finds value in player prop lines by deriving a model
// probability from a player's game log and comparing it to the priced
// market.
package props

import (
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/edge"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/oddsmath"
)

// Config holds the analyzer thresholds and staking parameters.
type Config struct {
	MinGames      int     `mapstructure:"min_games" validate:"gte=0"`
	EdgeThreshold float64 `mapstructure:"edge_threshold" validate:"gte=0"`
	EVThreshold   float64 `mapstructure:"ev_threshold" validate:"gte=0"`
	ShrinkWeight  float64 `mapstructure:"shrink_weight" validate:"gte=0,lte=1"`
	KellyMult     float64 `mapstructure:"kelly_mult" validate:"gt=0,lte=1"`
	MaxStake      float64 `mapstructure:"max_stake" validate:"gte=0,lte=1"`
	Bankroll      float64 `mapstructure:"bankroll" validate:"gt=0"`
}

// DefaultConfig returns the standard analyzer thresholds.
func DefaultConfig() Config {
	return Config{
		MinGames:      5,
		EdgeThreshold: 1.0,
		EVThreshold:   0.03,
		ShrinkWeight:  0.7,
		KellyMult:     0.25,
		MaxStake:      0.02,
		Bankroll:      1000,
	}
}

// Analyzer scores prop lines against player game logs.
type Analyzer struct {
	cfg    Config
	logger *logrus.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to the default.
func NewAnalyzer(cfg Config, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// AnalyzeProp scores one prop line against the player's history. It never
// fails on thin data; the result simply carries no recommendation when the
// sample is below the minimum.
func (a *Analyzer) AnalyzeProp(prop *models.PropBet, stats *models.PlayerStats) (*models.PropEdge, error) {
	st := prop.Stat
	seasonAvg := stats.StatAverage(st, 0)
	last10Avg := stats.StatAverage(st, 10)
	last5Avg := stats.StatAverage(st, 5)
	seasonMedian := stats.StatMedian(st, 0)

	hitSeason := stats.HitRate(st, prop.Line, 0)
	hitLast10 := stats.HitRate(st, prop.Line, 10)
	hitLast5 := stats.HitRate(st, prop.Line, 5)

	var vsOpponentAvg *float64
	if values := stats.VsOpponent(st, prop.Opponent); len(values) > 0 {
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		avg := sum / float64(len(values))
		vsOpponentAvg = &avg
	}
	homeAvg, awayAvg := stats.SplitAverages(st)

	modelProb := modelProbOver(estimatorInputs{
		line:          prop.Line,
		seasonAvg:     seasonAvg,
		seasonMedian:  seasonMedian,
		last5Avg:      last5Avg,
		last10Avg:     last10Avg,
		hitRateSeason: hitSeason,
		hitRateLast10: hitLast10,
		std:           stats.StatStd(st, 0),
		vsOpponentAvg: vsOpponentAvg,
	})

	rawOver := oddsmath.ImpliedProbability(float64(prop.OverOdds))
	rawUnder := oddsmath.ImpliedProbability(float64(prop.UnderOdds))
	fairOver, _, err := oddsmath.DeVig2(rawOver, rawUnder)
	if err != nil {
		return nil, err
	}

	w := math.Max(0, math.Min(1, a.cfg.ShrinkWeight))
	probOver := w*modelProb + (1-w)*fairOver
	edgePct := (probOver - fairOver) * 100

	decimalOver := oddsmath.DecimalOdds(float64(prop.OverOdds))
	decimalUnder := oddsmath.DecimalOdds(float64(prop.UnderOdds))
	evOver := oddsmath.ExpectedValue(probOver, decimalOver)
	evUnder := oddsmath.ExpectedValue(1-probOver, decimalUnder)

	stakeOver := math.Min(oddsmath.KellyFraction(probOver, decimalOver, a.cfg.KellyMult), a.cfg.MaxStake)
	stakeUnder := math.Min(oddsmath.KellyFraction(1-probOver, decimalUnder, a.cfg.KellyMult), a.cfg.MaxStake)

	result := &models.PropEdge{
		Prop:              *prop,
		ProjectedValue:    projection(seasonAvg, last5Avg, last10Avg, vsOpponentAvg),
		HitRateSeason:     hitSeason,
		HitRateLast10:     hitLast10,
		HitRateLast5:      hitLast5,
		ModelProbOver:     probOver,
		MarketProbOver:    fairOver,
		EdgePct:           edgePct,
		EVOver:            evOver,
		EVUnder:           evUnder,
		DecimalOver:       decimalOver,
		DecimalUnder:      decimalUnder,
		StakeFracOver:     stakeOver,
		StakeFracUnder:    stakeUnder,
		StakeDollarsOver:  stakeOver * a.cfg.Bankroll,
		StakeDollarsUnder: stakeUnder * a.cfg.Bankroll,
		Confidence:        edge.ConfidenceLow,
		SampleSize:        stats.GamesPlayed(),
		VsOpponentAvg:     vsOpponentAvg,
		HomeAvg:           homeAvg,
		AwayAvg:           awayAvg,
		Trend:             trend(stats, st),
	}

	if stats.GamesPlayed() >= a.cfg.MinGames {
		switch {
		case evOver > 0 && edgePct >= a.cfg.EdgeThreshold:
			over := models.SideOver
			result.RecommendedSide = &over
			result.Confidence = edge.ConfidenceLabel(edgePct, evOver, result.SampleSize)
		case evUnder > 0 && -edgePct >= a.cfg.EdgeThreshold:
			under := models.SideUnder
			result.RecommendedSide = &under
			result.Confidence = edge.ConfidenceLabel(-edgePct, evUnder, result.SampleSize)
		}
	}

	return result, nil
}

// AnalyzeProps scores a batch of props, matching each to player stats by ID
// first and lowercased name second. Props without stats are skipped.
func (a *Analyzer) AnalyzeProps(propBets []*models.PropBet, statsByPlayer map[string]*models.PlayerStats) []*models.PropEdge {
	byName := make(map[string]*models.PlayerStats, len(statsByPlayer))
	for _, stats := range statsByPlayer {
		byName[strings.ToLower(stats.PlayerName)] = stats
	}

	edges := make([]*models.PropEdge, 0, len(propBets))
	for _, prop := range propBets {
		stats, ok := statsByPlayer[prop.PlayerID]
		if !ok {
			stats, ok = byName[strings.ToLower(prop.PlayerName)]
		}
		if !ok {
			a.logger.WithField("player", prop.PlayerName).Debug("no stats for prop, skipping")
			continue
		}
		result, err := a.AnalyzeProp(prop, stats)
		if err != nil {
			a.logger.WithError(err).WithField("prop", prop.Name()).Warn("prop analysis failed")
			continue
		}
		metrics.PropsAnalyzedTotal.Inc()
		edges = append(edges, result)
	}
	return edges
}

// BestEdges filters recommendations by strength and returns the top picks
// sorted by best-side EV.
func (a *Analyzer) BestEdges(edges []*models.PropEdge, minEdge, minEV float64, topN int) []*models.PropEdge {
	qualified := make([]*models.PropEdge, 0, len(edges))
	for _, e := range edges {
		if e.RecommendedSide == nil {
			continue
		}
		if math.Abs(e.EdgePct) < minEdge || e.BestEV() < minEV || e.SampleSize < a.cfg.MinGames {
			continue
		}
		qualified = append(qualified, e)
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].BestEV() > qualified[j].BestEV()
	})
	if topN > 0 && len(qualified) > topN {
		qualified = qualified[:topN]
	}
	return qualified
}

// BestEdgesByStake ranks like BestEdges but orders by EV weighted by the
// recommended stake, favoring picks the staking plan actually sizes up.
func (a *Analyzer) BestEdgesByStake(edges []*models.PropEdge, minEdge, minEV float64, topN int) []*models.PropEdge {
	qualified := a.BestEdges(edges, minEdge, minEV, 0)
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].BestStakeWeightedEV() > qualified[j].BestStakeWeightedEV()
	})
	if topN > 0 && len(qualified) > topN {
		qualified = qualified[:topN]
	}
	return qualified
}
