package edge

// Confidence labels for qualified recommendations.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ConfidenceLabel scores a recommendation on a fixed point scale. Edge size,
// expected value and sample depth each contribute points; 6+ points is high,
// 3+ is medium.
func ConfidenceLabel(edgePct, ev float64, sampleSize int) string {
	points := 0

	switch {
	case edgePct > 15:
		points += 3
	case edgePct > 10:
		points += 2
	case edgePct > 5:
		points++
	}

	switch {
	case ev > 0.10:
		points += 3
	case ev > 0.06:
		points += 2
	case ev > 0.03:
		points++
	}

	switch {
	case sampleSize >= 30:
		points += 2
	case sampleSize >= 15:
		points++
	}

	switch {
	case points >= 6:
		return ConfidenceHigh
	case points >= 3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
