// Package calibration fits monotonic probability calibrators over historical
// prediction/outcome pairs.
package calibration

import "sort"

// Sample is one observed (predicted probability, binary outcome) pair with a
// recency weight.
type Sample struct {
	Prob    float64
	Outcome int
	Weight  float64
}

// Block is one step of the fitted calibration map: every input probability in
// [Start, End] maps to Mean.
type Block struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Mean  float64 `json:"mean"`
}

// Isotonic is a pool-adjacent-violators calibrator. An unfitted (or
// empty-fitted) calibrator predicts the identity function. The fitted map is
// non-decreasing in its input by construction.
type Isotonic struct {
	blocks []Block
}

type block struct {
	start       float64
	end         float64
	weightedSum float64
	weightTotal float64
}

func (b block) mean() float64 {
	return b.weightedSum / b.weightTotal
}

// Fit rebuilds the calibration map from samples. Samples with non-positive
// weight are treated as weight 1. The merge loop is an explicit stack: a new
// block is pushed per sample, and while the top block's mean is below its
// predecessor's the two are pooled.
func (c *Isotonic) Fit(samples []Sample) {
	if len(samples) == 0 {
		c.blocks = nil
		return
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Prob < sorted[j].Prob
	})

	stack := make([]block, 0, len(sorted))
	for _, s := range sorted {
		w := s.Weight
		if w <= 0 {
			w = 1
		}
		stack = append(stack, block{
			start:       s.Prob,
			end:         s.Prob,
			weightedSum: float64(s.Outcome) * w,
			weightTotal: w,
		})
		for len(stack) >= 2 && stack[len(stack)-2].mean() > stack[len(stack)-1].mean() {
			top := stack[len(stack)-1]
			prev := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, block{
				start:       prev.start,
				end:         top.end,
				weightedSum: prev.weightedSum + top.weightedSum,
				weightTotal: prev.weightTotal + top.weightTotal,
			})
		}
	}

	c.blocks = make([]Block, len(stack))
	for i, b := range stack {
		c.blocks[i] = Block{Start: b.start, End: b.end, Mean: b.mean()}
	}
}

// Predict maps a raw probability through the fitted step function: the mean
// of the first block whose range end covers it, or the last block's mean
// beyond all ranges. With no fitted blocks it returns the input unchanged.
func (c *Isotonic) Predict(prob float64) float64 {
	if len(c.blocks) == 0 {
		return prob
	}
	for _, b := range c.blocks {
		if prob <= b.End {
			return b.Mean
		}
	}
	return c.blocks[len(c.blocks)-1].Mean
}

// Fitted reports whether the calibrator holds a usable map.
func (c *Isotonic) Fitted() bool {
	return len(c.blocks) > 0
}

// Blocks returns a copy of the fitted step function.
func (c *Isotonic) Blocks() []Block {
	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}
