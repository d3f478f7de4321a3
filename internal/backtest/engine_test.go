package backtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/oddsedge/internal/models"
)

func testConfig() Config {
	return Config{
		EVThreshold:     0.02,
		FlatStake:       10,
		WarmupRows:      0,
		InitialBankroll: 1000,
		ShrinkWeight:    0.7,
	}
}

func side(s models.Side) *models.Side { return &s }

func row(day int, homeProb float64, homePrice, awayPrice int, winner models.Side) Row {
	return Row{
		GameID:   uuid.New(),
		Date:     time.Date(2025, 1, day, 19, 0, 0, 0, time.UTC),
		League:   "NBA",
		HomeProb: homeProb,
		AwayProb: 1 - homeProb,
		Quote: &models.OddsQuote{
			GameID:    uuid.New(),
			Bookmaker: "pinnacle",
			Class:     models.QuoteClosing,
			HomePrice: homePrice,
			AwayPrice: awayPrice,
		},
		Winner: side(winner),
	}
}

func TestReplaySingleWinningBet(t *testing.T) {
	rows := []Row{row(1, 0.60, -110, -110, models.SideHome)}

	state, result := Replay(rows, testConfig())

	require.Equal(t, 1, result.TotalBets)
	assert.Equal(t, 1, result.WinningBets)
	assert.Equal(t, models.SideHome, state.Ledger[0].Side)
	// -110 pays 10/11 per unit: profit = 10 * (1.9090.. - 1)
	assert.InDelta(t, 9.0909, result.TotalProfit, 1e-3)
	assert.InDelta(t, 10.0, result.TotalStaked, 1e-9)
	assert.InDelta(t, 90.909, result.ROIPct, 1e-2)
	assert.InDelta(t, 1.0, result.WinRate, 1e-9)
	assert.Zero(t, result.MaxDrawdown)
	assert.InDelta(t, 1009.0909, state.Bankroll, 1e-3)
}

func TestReplayLosingBet(t *testing.T) {
	rows := []Row{row(1, 0.60, -110, -110, models.SideAway)}

	state, result := Replay(rows, testConfig())

	require.Equal(t, 1, result.TotalBets)
	assert.InDelta(t, -10.0, result.TotalProfit, 1e-9)
	assert.InDelta(t, 10.0, result.MaxDrawdown, 1e-9)
	assert.InDelta(t, 990.0, state.Bankroll, 1e-9)
}

func TestReplayZeroQualifyingBets(t *testing.T) {
	// Even-money model on a vigged market: negative EV both ways.
	rows := []Row{
		row(1, 0.50, -110, -110, models.SideHome),
		row(2, 0.50, -110, -110, models.SideAway),
	}

	state, result := Replay(rows, testConfig())

	assert.Equal(t, Result{}, result, "zero bets must yield an all-zero result")
	assert.Equal(t, 2, state.RowsNoBet)
	assert.InDelta(t, 1000.0, state.Bankroll, 1e-9)
}

func TestReplayWarmupRowsSkipped(t *testing.T) {
	rows := []Row{
		row(1, 0.60, -110, -110, models.SideHome),
		row(2, 0.60, -110, -110, models.SideHome),
	}
	cfg := testConfig()
	cfg.WarmupRows = 1

	state, result := Replay(rows, cfg)

	assert.Equal(t, 1, state.RowsWarmup)
	assert.Equal(t, 1, result.TotalBets)
}

func TestReplaySkipsRowsWithoutQuoteOrOutcome(t *testing.T) {
	noQuote := row(1, 0.60, -110, -110, models.SideHome)
	noQuote.Quote = nil
	unsettled := row(2, 0.60, -110, -110, models.SideHome)
	unsettled.Winner = nil

	state, result := Replay([]Row{noQuote, unsettled}, testConfig())

	assert.Zero(t, result.TotalBets)
	assert.Equal(t, 1, state.RowsNoQuote)
	assert.Equal(t, 1, state.RowsUnsettled)
}

func TestReplayHomePriorityTieBreak(t *testing.T) {
	// +120 both ways leaves positive EV on both sides for a confident model.
	homeFavored := Row{
		GameID: uuid.New(), Date: time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC), League: "NBA",
		HomeProb: 0.60, AwayProb: 0.58,
		Quote:  &models.OddsQuote{GameID: uuid.New(), Bookmaker: "pinnacle", HomePrice: 120, AwayPrice: 120},
		Winner: side(models.SideHome),
	}
	awayFavored := homeFavored
	awayFavored.HomeProb, awayFavored.AwayProb = 0.58, 0.60
	awayFavored.Winner = side(models.SideAway)

	state, _ := Replay([]Row{homeFavored}, testConfig())
	require.Len(t, state.Ledger, 1)
	assert.Equal(t, models.SideHome, state.Ledger[0].Side, "home wins the tie-break when its EV leads")

	state, _ = Replay([]Row{awayFavored}, testConfig())
	require.Len(t, state.Ledger, 1)
	assert.Equal(t, models.SideAway, state.Ledger[0].Side, "away is chosen only when it out-EVs home")
}

func TestReplaySortsRowsChronologically(t *testing.T) {
	later := row(5, 0.60, -110, -110, models.SideHome)
	earlier := row(1, 0.60, -110, -110, models.SideAway)

	state, _ := Replay([]Row{later, earlier}, testConfig())

	require.Len(t, state.Ledger, 2)
	assert.True(t, state.Ledger[0].Date.Before(state.Ledger[1].Date))
}

func TestStateDrawdownInDollars(t *testing.T) {
	state := NewState(1000)
	entries := []float64{-10, 15, -10, -10}
	for i, profit := range entries {
		state.Settle(LedgerEntry{
			Date:   time.Date(2025, 1, i+1, 0, 0, 0, 0, time.UTC),
			Stake:  10,
			Won:    profit > 0,
			Profit: profit,
		})
	}

	assert.InDelta(t, 985.0, state.Bankroll, 1e-9)
	assert.InDelta(t, 1005.0, state.Peak, 1e-9)
	assert.InDelta(t, 20.0, state.MaxDrawdown, 1e-9)
	assert.LessOrEqual(t, state.MaxDrawdown, state.Peak)
	require.Len(t, state.Curve, 4)
	assert.InDelta(t, 985.0, state.Ledger[3].BankrollAfter, 1e-9)
}

func TestMonteCarloStaysBounded(t *testing.T) {
	ledger := []LedgerEntry{{ModelProb: 0.57, Stake: 10, DecimalOdds: 1.909091}}
	result := RunMonteCarlo(ledger, MonteCarloConfig{Iterations: 500, Seed: 42, InitialBankroll: 1000})

	assert.Equal(t, 500, result.Iterations)
	assert.Zero(t, result.ProbabilityOfRuin)
	// One $10 bet on a $1000 bankroll moves the mean by at most 1%.
	assert.InDelta(t, 0.0, result.MeanReturn, 0.01)
}

func TestWalkForwardConsistency(t *testing.T) {
	rows := make([]Row, 0, 8)
	for day := 1; day <= 8; day++ {
		rows = append(rows, row(day, 0.60, -110, -110, models.SideHome))
	}

	result := RunWalkForward(rows, testConfig(), 2)

	require.Len(t, result.Windows, 2)
	assert.Equal(t, 4, result.Windows[0].Rows)
	assert.InDelta(t, 1.0, result.ConsistencyScore, 1e-9)
	assert.Greater(t, result.MeanROIPct, 0.0)
}
