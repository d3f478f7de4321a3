package props

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/oddsedge/internal/models"
)

func playerWithScores(scores ...float64) *models.PlayerStats {
	logs := make([]models.PlayerGameLog, len(scores))
	for i, pts := range scores {
		logs[i] = models.PlayerGameLog{
			GameID:   fmt.Sprintf("game_%d", i),
			Date:     time.Date(2025, 1, i+1, 19, 0, 0, 0, time.UTC),
			Opponent: "OPP",
			IsHome:   i%2 == 0,
			Stats:    map[models.StatType]float64{models.StatPoints: pts},
		}
	}
	return &models.PlayerStats{
		PlayerID:   "player1",
		PlayerName: "Test Player",
		Team:       "BOS",
		League:     "NBA",
		GameLogs:   logs,
	}
}

func pointsProp(line float64) *models.PropBet {
	return &models.PropBet{
		PlayerID:   "player1",
		PlayerName: "Test Player",
		Team:       "BOS",
		Opponent:   "NYK",
		GameDate:   time.Date(2025, 2, 1, 19, 0, 0, 0, time.UTC),
		Stat:       models.StatPoints,
		Line:       line,
		OverOdds:   -110,
		UnderOdds:  -110,
		Book:       "draftkings",
	}
}

func TestAnalyzePropStrongOver(t *testing.T) {
	analyzer := NewAnalyzer(DefaultConfig(), nil)
	// Ten identical 30-point games against a 20.5 line: every estimator
	// agrees on the over.
	stats := playerWithScores(30, 30, 30, 30, 30, 30, 30, 30, 30, 30)

	result, err := analyzer.AnalyzeProp(pointsProp(20.5), stats)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.HitRateSeason, 1e-9)
	assert.InDelta(t, 0.5, result.MarketProbOver, 1e-9)
	// model 0.8195 shrunk 70/30 toward the fair 0.5 market
	assert.InDelta(t, 0.7237, result.ModelProbOver, 1e-3)
	assert.InDelta(t, 22.37, result.EdgePct, 1e-1)
	assert.InDelta(t, 0.3815, result.EVOver, 1e-3)
	assert.InDelta(t, 30.0, result.ProjectedValue, 1e-9)

	require.NotNil(t, result.RecommendedSide)
	assert.Equal(t, models.SideOver, *result.RecommendedSide)
	assert.Equal(t, "high", result.Confidence)
	// Quarter Kelly far exceeds the 2% cap here.
	assert.InDelta(t, 0.02, result.StakeFracOver, 1e-9)
	assert.InDelta(t, 20.0, result.StakeDollarsOver, 1e-9)
	assert.Equal(t, TrendNeutral, result.Trend)
}

func TestAnalyzePropStrongUnder(t *testing.T) {
	analyzer := NewAnalyzer(DefaultConfig(), nil)
	stats := playerWithScores(10, 10, 10, 10, 10, 10, 10, 10, 10, 10)

	result, err := analyzer.AnalyzeProp(pointsProp(20.5), stats)
	require.NoError(t, err)

	assert.Negative(t, result.EdgePct)
	assert.Positive(t, result.EVUnder)
	require.NotNil(t, result.RecommendedSide)
	assert.Equal(t, models.SideUnder, *result.RecommendedSide)
}

func TestAnalyzePropThinSampleSuppressed(t *testing.T) {
	analyzer := NewAnalyzer(DefaultConfig(), nil)
	stats := playerWithScores(30, 30, 30)

	result, err := analyzer.AnalyzeProp(pointsProp(20.5), stats)
	require.NoError(t, err)

	assert.Nil(t, result.RecommendedSide, "below min games must suppress the recommendation")
	assert.Equal(t, "low", result.Confidence)
	assert.Equal(t, 3, result.SampleSize)
}

func TestModelProbClamped(t *testing.T) {
	// An absurd line cannot push the probability outside [0.05, 0.95].
	p := modelProbOver(estimatorInputs{line: 1, seasonAvg: 100, last5Avg: 100, last10Avg: 100, hitRateSeason: 1, hitRateLast10: 1, std: 1})
	assert.LessOrEqual(t, p, 0.95)
	p = modelProbOver(estimatorInputs{line: 100, seasonAvg: 1, last5Avg: 1, last10Avg: 1, std: 1})
	assert.GreaterOrEqual(t, p, 0.05)
}

func TestTrendDetection(t *testing.T) {
	up := playerWithScores(10, 10, 10, 10, 10, 10, 20, 20, 20)
	down := playerWithScores(20, 20, 20, 20, 20, 20, 10, 10, 10)
	short := playerWithScores(10, 30, 10)

	assert.Equal(t, TrendUp, trend(up, models.StatPoints))
	assert.Equal(t, TrendDown, trend(down, models.StatPoints))
	assert.Equal(t, TrendNeutral, trend(short, models.StatPoints))
}

func TestProjectionBlendsOpponentHistory(t *testing.T) {
	assert.InDelta(t, 30.0, projection(30, 30, 30, nil), 1e-9)
	vsOpp := 20.0
	assert.InDelta(t, 28.5, projection(30, 30, 30, &vsOpp), 1e-9)
}

func TestAnalyzePropsMatchesByIDThenName(t *testing.T) {
	analyzer := NewAnalyzer(DefaultConfig(), nil)
	stats := playerWithScores(30, 30, 30, 30, 30, 30)

	byID := pointsProp(20.5)
	byName := pointsProp(20.5)
	byName.PlayerID = "unknown-id"
	byName.PlayerName = "TEST PLAYER" // case-insensitive name match
	unmatched := pointsProp(20.5)
	unmatched.PlayerID = "nobody"
	unmatched.PlayerName = "Nobody"

	edges := analyzer.AnalyzeProps(
		[]*models.PropBet{byID, byName, unmatched},
		map[string]*models.PlayerStats{"player1": stats},
	)

	assert.Len(t, edges, 2)
}

func TestBestEdgesRanking(t *testing.T) {
	analyzer := NewAnalyzer(DefaultConfig(), nil)
	over := models.SideOver

	mild := &models.PropEdge{EdgePct: 6, EVOver: 0.05, SampleSize: 20, RecommendedSide: &over, StakeFracOver: 0.02}
	strong := &models.PropEdge{EdgePct: 12, EVOver: 0.15, SampleSize: 20, RecommendedSide: &over, StakeFracOver: 0.02}
	unrecommended := &models.PropEdge{EdgePct: 20, EVOver: 0.30, SampleSize: 20}
	weak := &models.PropEdge{EdgePct: 2, EVOver: 0.01, SampleSize: 20, RecommendedSide: &over}

	ranked := analyzer.BestEdges([]*models.PropEdge{mild, weak, unrecommended, strong}, 5.0, 0.03, 10)

	require.Len(t, ranked, 2)
	assert.Same(t, strong, ranked[0])
	assert.Same(t, mild, ranked[1])
}
