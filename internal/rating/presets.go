package rating

import "strings"

// LeaguePreset returns tuned rating parameters for a known league. Unknown
// leagues fall back to the default config.
func LeaguePreset(league string) Config {
	switch strings.ToUpper(league) {
	case "NBA":
		return Config{InitialRating: 1500, KFactor: 20, HomeAdvantage: 60, HalfLifeDays: 45}
	case "NHL":
		return Config{InitialRating: 1500, KFactor: 16, HomeAdvantage: 40, HalfLifeDays: 60}
	case "SOCCER", "EPL", "LALIGA", "SERIEA", "BUNDESLIGA", "LIGUE1":
		return Config{InitialRating: 1500, KFactor: 18, HomeAdvantage: 80, HalfLifeDays: 45}
	case "UFC", "MMA":
		return Config{InitialRating: 1500, KFactor: 24, HomeAdvantage: 0, HalfLifeDays: 180}
	default:
		return DefaultConfig()
	}
}

// IsThreeWay reports whether a league's moneyline market prices a draw.
func IsThreeWay(league string) bool {
	switch strings.ToUpper(league) {
	case "SOCCER", "EPL", "LALIGA", "SERIEA", "BUNDESLIGA", "LIGUE1":
		return true
	default:
		return false
	}
}
