package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConsoleReport formats a replay result for terminal output.
func ConsoleReport(state *State, result Result) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Rows Replayed: %d (warmup %d, no quote %d, unsettled %d)\n",
		state.RowsSeen, state.RowsWarmup, state.RowsNoQuote, state.RowsUnsettled))
	builder.WriteString(fmt.Sprintf("Total Bets: %d\n", result.TotalBets))
	builder.WriteString(fmt.Sprintf("Total Staked: $%.2f\n", result.TotalStaked))
	builder.WriteString(fmt.Sprintf("Total Profit: $%.2f\n", result.TotalProfit))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", result.ROIPct))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", result.WinRate*100))
	builder.WriteString(fmt.Sprintf("Max Drawdown: $%.2f\n", result.MaxDrawdown))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", result.ProfitFactor))
	builder.WriteString(fmt.Sprintf("Final Bankroll: $%.2f\n", state.Bankroll))
	return builder.String()
}

// WriteCSVReport exports the aggregate metrics for spreadsheets.
func WriteCSVReport(result Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("total_bets,%d\n", result.TotalBets) +
		fmt.Sprintf("total_staked,%.2f\n", result.TotalStaked) +
		fmt.Sprintf("total_profit,%.2f\n", result.TotalProfit) +
		fmt.Sprintf("roi_pct,%.4f\n", result.ROIPct) +
		fmt.Sprintf("win_rate,%.4f\n", result.WinRate) +
		fmt.Sprintf("max_drawdown,%.2f\n", result.MaxDrawdown) +
		fmt.Sprintf("profit_factor,%.4f\n", result.ProfitFactor)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}

// WriteEquityCurve exports the per-bet bankroll series.
func WriteEquityCurve(curve EquityCurve, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(curve.ToCSV()), 0o644)
}
