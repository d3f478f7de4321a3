package calibration

import (
	"math"
	"time"
)

// TimeWeight returns the exponential recency weight for an event observed at
// eventTime as of now: exp(-ln2 * ageDays / halfLifeDays). Events newer than
// now count with full weight; a half-life below one day is clamped to one.
func TimeWeight(eventTime, now time.Time, halfLifeDays float64) float64 {
	ageDays := math.Max(0, now.Sub(eventTime).Hours()/24)
	return math.Exp(-math.Ln2 * ageDays / math.Max(halfLifeDays, 1))
}

// HasBothClasses reports whether outcomes contain at least one positive and
// one negative example. Fitting a calibrator on a single class would collapse
// every prediction to a constant.
func HasBothClasses(samples []Sample) bool {
	var zeros, ones bool
	for _, s := range samples {
		if s.Outcome == 0 {
			zeros = true
		} else {
			ones = true
		}
		if zeros && ones {
			return true
		}
	}
	return false
}
