package backtest

import "encoding/json"

// Result is the aggregate P&L summary of one replay. A run with zero placed
// bets reports every numeric field as 0.
type Result struct {
	TotalBets    int     `json:"total_bets"`
	WinningBets  int     `json:"winning_bets"`
	LosingBets   int     `json:"losing_bets"`
	TotalStaked  float64 `json:"total_staked"`
	TotalProfit  float64 `json:"total_profit"`
	ROIPct       float64 `json:"roi_pct"`
	WinRate      float64 `json:"win_rate"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	ProfitFactor float64 `json:"profit_factor"`
	AverageEV    float64 `json:"average_ev"`
}

// Summarize reduces the simulation state to its aggregate result.
func Summarize(state *State, cfg Config) Result {
	if state == nil || len(state.Ledger) == 0 {
		return Result{}
	}

	result := Result{TotalBets: len(state.Ledger)}
	grossProfit := 0.0
	grossLoss := 0.0
	evSum := 0.0
	for _, entry := range state.Ledger {
		result.TotalProfit += entry.Profit
		evSum += entry.EV
		if entry.Won {
			result.WinningBets++
			grossProfit += entry.Profit
		} else {
			result.LosingBets++
			grossLoss += -entry.Profit
		}
	}

	result.TotalStaked = float64(result.TotalBets) * cfg.FlatStake
	result.ROIPct = result.TotalProfit / result.TotalStaked * 100
	result.WinRate = float64(result.WinningBets) / float64(result.TotalBets)
	result.MaxDrawdown = state.MaxDrawdown
	result.AverageEV = evSum / float64(result.TotalBets)
	if grossLoss > 0 {
		result.ProfitFactor = grossProfit / grossLoss
	} else if grossProfit > 0 {
		// No losing bets; keep the field JSON-encodable.
		result.ProfitFactor = 999
	}

	return result
}

// ToJSON serializes the result for export.
func (r Result) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}
