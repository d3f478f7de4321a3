package backtest

import (
	"math"
	"math/rand"
	"time"
)

// MonteCarloConfig configures outcome resampling over a settled ledger.
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	InitialBankroll float64
}

// MonteCarloResult summarizes the resampled bankroll distribution.
type MonteCarloResult struct {
	Iterations          int     `json:"iterations"`
	MeanReturn          float64 `json:"mean_return"`
	StdReturn           float64 `json:"std_return"`
	VaR95               float64 `json:"var_95"`
	VaR99               float64 `json:"var_99"`
	ProbabilityOfProfit float64 `json:"probability_of_profit"`
	ProbabilityOfRuin   float64 `json:"probability_of_ruin"`
}

// RunMonteCarlo resimulates the ledger with each bet won at its blended
// model probability, estimating how sensitive the historical P&L is to
// outcome luck.
func RunMonteCarlo(ledger []LedgerEntry, cfg MonteCarloConfig) MonteCarloResult {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		bankroll := cfg.InitialBankroll
		for _, entry := range ledger {
			prob := entry.ModelProb
			if prob <= 0 || prob >= 1 {
				prob = 0.5
			}
			if rng.Float64() < prob {
				bankroll += entry.Stake * (entry.DecimalOdds - 1)
			} else {
				bankroll -= entry.Stake
			}
			if bankroll <= 0 {
				bankroll = 0
				break
			}
		}
		distribution[i] = bankroll
	}

	mean, std := meanStd(distribution)
	return MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanReturn:          (mean - cfg.InitialBankroll) / cfg.InitialBankroll,
		StdReturn:           std / cfg.InitialBankroll,
		VaR95:               (percentile(distribution, 0.05) - cfg.InitialBankroll) / cfg.InitialBankroll,
		VaR99:               (percentile(distribution, 0.01) - cfg.InitialBankroll) / cfg.InitialBankroll,
		ProbabilityOfProfit: probabilityAbove(distribution, cfg.InitialBankroll),
		ProbabilityOfRuin:   probabilityAtOrBelow(distribution, 0),
	}
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sortFloats(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func sortFloats(values []float64) {
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if values[j] < values[i] {
				values[i], values[j] = values[j], values[i]
			}
		}
	}
}
