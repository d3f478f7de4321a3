package calibration

import (
	"math"
	"testing"
	"time"
)

func TestFitCollapsesViolation(t *testing.T) {
	c := &Isotonic{}
	c.Fit([]Sample{
		{Prob: 0.2, Outcome: 1, Weight: 1},
		{Prob: 0.4, Outcome: 0, Weight: 1},
	})

	blocks := c.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("expected violation to pool into one block, got %d", len(blocks))
	}
	if blocks[0].Start != 0.2 || blocks[0].End != 0.4 {
		t.Fatalf("pooled block must span both inputs, got %+v", blocks[0])
	}
	if math.Abs(blocks[0].Mean-0.5) > 1e-9 {
		t.Fatalf("pooled mean must be 0.5, got %v", blocks[0].Mean)
	}
}

func TestFitOutputMonotonic(t *testing.T) {
	c := &Isotonic{}
	samples := []Sample{
		{Prob: 0.1, Outcome: 0, Weight: 1},
		{Prob: 0.2, Outcome: 1, Weight: 1},
		{Prob: 0.3, Outcome: 0, Weight: 1},
		{Prob: 0.5, Outcome: 1, Weight: 1},
		{Prob: 0.6, Outcome: 0, Weight: 1},
		{Prob: 0.7, Outcome: 1, Weight: 1},
		{Prob: 0.9, Outcome: 1, Weight: 1},
	}
	c.Fit(samples)

	prev := -1.0
	for p := 0.0; p <= 1.0; p += 0.01 {
		got := c.Predict(p)
		if got < prev-1e-12 {
			t.Fatalf("calibrated output must be non-decreasing, broke at p=%v", p)
		}
		prev = got
	}
}

func TestPredictIdentityWhenUnfitted(t *testing.T) {
	c := &Isotonic{}
	for _, p := range []float64{0, 0.25, 0.5, 0.99} {
		if got := c.Predict(p); got != p {
			t.Fatalf("unfitted calibrator must be identity, got %v for %v", got, p)
		}
	}

	c.Fit(nil)
	if got := c.Predict(0.42); got != 0.42 {
		t.Fatalf("empty fit must behave as identity, got %v", got)
	}
	if c.Fitted() {
		t.Fatalf("empty fit must not report fitted")
	}
}

func TestPredictBeyondLastBlock(t *testing.T) {
	c := &Isotonic{}
	c.Fit([]Sample{
		{Prob: 0.3, Outcome: 0, Weight: 1},
		{Prob: 0.6, Outcome: 1, Weight: 1},
	})
	if got := c.Predict(0.95); got != 1.0 {
		t.Fatalf("inputs past all ranges must map to last block mean, got %v", got)
	}
}

func TestFitRespectsWeights(t *testing.T) {
	c := &Isotonic{}
	c.Fit([]Sample{
		{Prob: 0.2, Outcome: 1, Weight: 3},
		{Prob: 0.4, Outcome: 0, Weight: 1},
	})
	blocks := c.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("expected single pooled block, got %d", len(blocks))
	}
	if math.Abs(blocks[0].Mean-0.75) > 1e-9 {
		t.Fatalf("weighted pooled mean must be 0.75, got %v", blocks[0].Mean)
	}
}

func TestTimeWeight(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if w := TimeWeight(now, now, 45); w != 1.0 {
		t.Fatalf("zero-age weight must be 1, got %v", w)
	}
	oneHalfLife := now.Add(-45 * 24 * time.Hour)
	if w := TimeWeight(oneHalfLife, now, 45); math.Abs(w-0.5) > 1e-9 {
		t.Fatalf("weight after one half-life must be 0.5, got %v", w)
	}
	future := now.Add(24 * time.Hour)
	if w := TimeWeight(future, now, 45); w != 1.0 {
		t.Fatalf("future events must not exceed full weight, got %v", w)
	}
}

func TestHasBothClasses(t *testing.T) {
	mixed := []Sample{{Prob: 0.5, Outcome: 0}, {Prob: 0.6, Outcome: 1}}
	if !HasBothClasses(mixed) {
		t.Fatalf("expected mixed outcomes to report both classes")
	}
	onlyWins := []Sample{{Prob: 0.5, Outcome: 1}, {Prob: 0.6, Outcome: 1}}
	if HasBothClasses(onlyWins) {
		t.Fatalf("single-class samples must not report both classes")
	}
}
