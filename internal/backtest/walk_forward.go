package backtest

import (
	"sort"
	"time"
)

// WindowResult is the replay outcome of one chronological slice.
type WindowResult struct {
	WindowID int       `json:"window_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Rows     int       `json:"rows"`
	Result   Result    `json:"result"`
}

// WalkForwardResult reports per-window outcomes and how consistently the
// strategy stayed profitable across them.
type WalkForwardResult struct {
	Windows          []WindowResult `json:"windows"`
	ConsistencyScore float64        `json:"consistency_score"`
	MeanROIPct       float64        `json:"mean_roi_pct"`
}

// RunWalkForward splits rows into equal chronological windows and replays
// each independently. Warmup applies only to the first window; later windows
// inherit settled ratings through their rows, so re-warming would just throw
// bets away.
func RunWalkForward(rows []Row, cfg Config, windows int) WalkForwardResult {
	if windows <= 0 {
		windows = 4
	}
	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	size := len(ordered) / windows
	if size == 0 {
		size = len(ordered)
	}

	out := WalkForwardResult{}
	profitable := 0
	roiSum := 0.0
	for i, start := 0, 0; start < len(ordered); i, start = i+1, start+size {
		end := start + size
		if end > len(ordered) || i == windows-1 {
			end = len(ordered)
		}
		slice := ordered[start:end]
		if len(slice) == 0 {
			break
		}

		windowCfg := cfg
		if i > 0 {
			windowCfg.WarmupRows = 0
		}
		_, result := Replay(slice, windowCfg)

		out.Windows = append(out.Windows, WindowResult{
			WindowID: i + 1,
			Start:    slice[0].Date,
			End:      slice[len(slice)-1].Date,
			Rows:     len(slice),
			Result:   result,
		})
		if result.TotalProfit > 0 {
			profitable++
		}
		roiSum += result.ROIPct
		if end == len(ordered) {
			break
		}
	}

	if len(out.Windows) > 0 {
		out.ConsistencyScore = float64(profitable) / float64(len(out.Windows))
		out.MeanROIPct = roiSum / float64(len(out.Windows))
	}
	return out
}
