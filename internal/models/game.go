package models

import (
	"time"

	"github.com/google/uuid"
)

// GameRecord represents a completed or scheduled contest between two
// participants. Scores stay nil until the game finishes; a record with scores
// set is immutable.
type GameRecord struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required"`
	League    string    `db:"league" json:"league" validate:"required"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	StartTime time.Time `db:"start_time" json:"start_time" validate:"required"`
	HomeScore *float64  `db:"home_score" json:"home_score"`
	AwayScore *float64  `db:"away_score" json:"away_score"`
}

// Completed reports whether both final scores are present.
func (g *GameRecord) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Result returns the resulting side of a completed game. The second return
// value is false for games that have not been played.
func (g *GameRecord) Result() (Side, bool) {
	if !g.Completed() {
		return 0, false
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return SideHome, true
	case *g.AwayScore > *g.HomeScore:
		return SideAway, true
	default:
		return SideDraw, true
	}
}

// Before reports whether the game started strictly before the cutoff.
// Feature computation may only read games for which this holds.
func (g *GameRecord) Before(cutoff time.Time) bool {
	return g.StartTime.Before(cutoff)
}
