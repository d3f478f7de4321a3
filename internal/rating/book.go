// Package rating maintains Elo-style rating books with strict point-in-time
// semantics: a book only ever reflects games already applied to it, and
// updates must arrive in ascending event-time order.
package rating

import (
	"math"
	"time"
)

// Config holds the tunable parameters of a rating book.
type Config struct {
	InitialRating float64
	KFactor       float64
	HomeAdvantage float64
	// HalfLifeDays scales the effective K by a recency weight when games are
	// applied with ApplyWeighted. Zero disables decay.
	HalfLifeDays float64
}

// DefaultConfig returns the baseline Elo parameters.
func DefaultConfig() Config {
	return Config{
		InitialRating: 1500,
		KFactor:       20,
		HomeAdvantage: 100,
	}
}

// Book is one rating pool (one league). It is an explicit value owned by the
// caller, never shared process-wide state. Updates within a book must be
// serialized in ascending event-time order; books for different leagues are
// independent and may be updated concurrently.
type Book struct {
	cfg        Config
	ratings    map[string]float64
	counts     map[string]int
	lastPlayed map[string]time.Time
}

// NewBook creates an empty rating book.
func NewBook(cfg Config) *Book {
	return &Book{
		cfg:        cfg,
		ratings:    make(map[string]float64),
		counts:     make(map[string]int),
		lastPlayed: make(map[string]time.Time),
	}
}

// Config returns the book's parameters.
func (b *Book) Config() Config {
	return b.cfg
}

// Rating returns a participant's current rating, lazily recording the
// initial rating on first reference.
func (b *Book) Rating(participant string) float64 {
	if r, ok := b.ratings[participant]; ok {
		return r
	}
	b.ratings[participant] = b.cfg.InitialRating
	b.counts[participant] = 0
	return b.cfg.InitialRating
}

// GamesPlayed returns how many games a participant has been rated on.
func (b *Book) GamesPlayed(participant string) int {
	return b.counts[participant]
}

// LastPlayed returns the event time of a participant's most recent rated
// game, zero when none.
func (b *Book) LastPlayed(participant string) time.Time {
	return b.lastPlayed[participant]
}

// Size returns the number of participants the book has seen.
func (b *Book) Size() int {
	return len(b.ratings)
}

// expectedScore is the logistic Elo expectation for rating a against b.
func expectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// Predict returns the pre-game win expectations for the home and away
// participants, with the home-advantage offset applied to the home side's
// rating for the expectation only.
func (b *Book) Predict(home, away string) (pHome, pAway float64) {
	homeRating := b.Rating(home) + b.cfg.HomeAdvantage
	awayRating := b.Rating(away)
	pHome = expectedScore(homeRating, awayRating)
	return pHome, 1 - pHome
}

// Update applies a completed game to the book. Missing scores mean the game
// has not been played and the update is a no-op. Deltas are computed from the
// pre-update expectations for both sides, so deltaHome+deltaAway is always
// zero regardless of the home-advantage offset.
func (b *Book) Update(home, away string, homeScore, awayScore *float64) (deltaHome, deltaAway float64) {
	return b.update(home, away, homeScore, awayScore, 1, time.Time{})
}

// ApplyWeighted applies a game with an explicit recency weight scaling the
// effective K factor, recording the event time for layoff tracking.
func (b *Book) ApplyWeighted(home, away string, homeScore, awayScore *float64, weight float64, playedAt time.Time) (deltaHome, deltaAway float64) {
	return b.update(home, away, homeScore, awayScore, weight, playedAt)
}

func (b *Book) update(home, away string, homeScore, awayScore *float64, weight float64, playedAt time.Time) (deltaHome, deltaAway float64) {
	if homeScore == nil || awayScore == nil ||
		math.IsNaN(*homeScore) || math.IsNaN(*awayScore) {
		return 0, 0
	}

	pHome, pAway := b.Predict(home, away)

	var actualHome, actualAway float64
	switch {
	case *homeScore > *awayScore:
		actualHome, actualAway = 1, 0
	case *awayScore > *homeScore:
		actualHome, actualAway = 0, 1
	default:
		actualHome, actualAway = 0.5, 0.5
	}

	kEff := b.cfg.KFactor * weight
	deltaHome = kEff * (actualHome - pHome)
	deltaAway = kEff * (actualAway - pAway)

	b.ratings[home] += deltaHome
	b.ratings[away] += deltaAway
	b.counts[home]++
	b.counts[away]++
	if !playedAt.IsZero() {
		b.lastPlayed[home] = playedAt
		b.lastPlayed[away] = playedAt
	}

	return deltaHome, deltaAway
}
