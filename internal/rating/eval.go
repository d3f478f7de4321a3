package rating

import (
	"math"
	"sort"

	"github.com/yourusername/oddsedge/internal/models"
)

// EvalReport summarizes model quality over a chronological train/test split.
type EvalReport struct {
	TrainSize     int     `json:"train_size"`
	TestSize      int     `json:"test_size"`
	TrainBrier    float64 `json:"train_brier"`
	TestBrier     float64 `json:"test_brier"`
	TrainLogLoss  float64 `json:"train_logloss"`
	TestLogLoss   float64 `json:"test_logloss"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
	BaselineBrier float64 `json:"baseline_brier"`
}

// BrierScore is the mean squared error of probabilistic predictions; 0 is
// perfect, 0.25 is coin-flipping.
func BrierScore(outcomes []int, probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	sum := 0.0
	for i := range probs {
		d := probs[i] - float64(outcomes[i])
		sum += d * d
	}
	return sum / float64(len(probs))
}

// LogLoss is the mean negative log-likelihood with probabilities clipped
// away from 0 and 1.
func LogLoss(outcomes []int, probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	const eps = 1e-15
	sum := 0.0
	for i := range probs {
		p := math.Min(1-eps, math.Max(eps, probs[i]))
		y := float64(outcomes[i])
		sum += y*math.Log(p) + (1-y)*math.Log(1-p)
	}
	return -sum / float64(len(probs))
}

// Accuracy is the fraction of games where the modal prediction matched the
// outcome.
func Accuracy(outcomes []int, probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	correct := 0
	for i := range probs {
		predicted := 0
		if probs[i] > 0.5 {
			predicted = 1
		}
		if predicted == outcomes[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(probs))
}

// Evaluate scores the home-probability predictions of completed two-way
// feature rows over a chronological split: the earliest (1-testFraction)
// share trains, the remainder tests. Draws are excluded.
func Evaluate(features []Feature, testFraction float64) EvalReport {
	decided := make([]Feature, 0, len(features))
	for _, f := range features {
		if f.Winner != nil && *f.Winner != models.SideDraw {
			decided = append(decided, f)
		}
	}
	sort.SliceStable(decided, func(i, j int) bool {
		return decided[i].Date.Before(decided[j].Date)
	})

	split := len(decided)
	if testFraction > 0 && testFraction < 1 {
		split = int(float64(len(decided)) * (1 - testFraction))
	}

	collect := func(rows []Feature) ([]int, []float64) {
		outcomes := make([]int, len(rows))
		probs := make([]float64, len(rows))
		for i, f := range rows {
			if *f.Winner == models.SideHome {
				outcomes[i] = 1
			}
			probs[i] = f.HomeProb
		}
		return outcomes, probs
	}

	trainY, trainP := collect(decided[:split])
	testY, testP := collect(decided[split:])

	return EvalReport{
		TrainSize:     len(trainP),
		TestSize:      len(testP),
		TrainBrier:    BrierScore(trainY, trainP),
		TestBrier:     BrierScore(testY, testP),
		TrainLogLoss:  LogLoss(trainY, trainP),
		TestLogLoss:   LogLoss(testY, testP),
		TrainAccuracy: Accuracy(trainY, trainP),
		TestAccuracy:  Accuracy(testY, testP),
		BaselineBrier: 0.25,
	}
}
