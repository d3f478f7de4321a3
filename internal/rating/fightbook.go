package rating

import (
	"math"
	"time"
)

// FightBook is the head-to-head variant of Book for leagues with no venue
// edge and sparse schedules (UFC). It has no home advantage, shrinks the
// effective K for inexperienced fighters, and regresses ratings toward the
// initial value for long layoffs at prediction time.
type FightBook struct {
	book *Book
	now  func() time.Time
}

// NewFightBook creates an empty fight book. The config's HomeAdvantage is
// ignored.
func NewFightBook(cfg Config) *FightBook {
	cfg.HomeAdvantage = 0
	return &FightBook{book: NewBook(cfg), now: time.Now}
}

// Rating returns the stored rating for a fighter, lazily initialized.
func (f *FightBook) Rating(fighter string) float64 {
	return f.book.Rating(fighter)
}

// Fights returns how many rated fights a fighter has.
func (f *FightBook) Fights(fighter string) int {
	return f.book.GamesPlayed(fighter)
}

// Size returns the number of fighters the book has seen.
func (f *FightBook) Size() int {
	return f.book.Size()
}

// ApplyWeighted applies a decided fight. The combined experience of the two
// fighters shrinks the effective K so debut results move ratings less.
func (f *FightBook) ApplyWeighted(fighterA, fighterB string, scoreA, scoreB *float64, weight float64, foughtAt time.Time) {
	expShrink := math.Min(1, float64(f.book.GamesPlayed(fighterA)+f.book.GamesPlayed(fighterB)+2)/20)
	f.book.ApplyWeighted(fighterA, fighterB, scoreA, scoreB, weight*expShrink, foughtAt)
}

// AdjustedRating returns the rating shrunk toward the initial value by
// inexperience and layoff. A fighter with no rated fights sits at the
// initial rating.
func (f *FightBook) AdjustedRating(fighter string) float64 {
	initial := f.book.cfg.InitialRating
	fights := f.book.GamesPlayed(fighter)
	if fights <= 0 {
		return initial
	}
	shrink := math.Min(1, float64(fights)/10)
	if last := f.book.LastPlayed(fighter); !last.IsZero() {
		layoffDays := f.now().Sub(last).Hours() / 24
		shrink *= math.Exp(-layoffDays / 365)
	} else {
		shrink *= 0.8
	}
	return initial + (f.book.Rating(fighter)-initial)*shrink
}

// PredictRaw returns win expectations from the stored ratings without
// layoff adjustment. Calibration samples use the raw expectation so the
// calibrator learns the book's own bias, not the shrink heuristic's.
func (f *FightBook) PredictRaw(fighterA, fighterB string) (pA, pB float64) {
	pA = expectedScore(f.book.Rating(fighterA), f.book.Rating(fighterB))
	return pA, 1 - pA
}

// Predict returns win expectations from the layoff-adjusted ratings.
func (f *FightBook) Predict(fighterA, fighterB string) (pA, pB float64) {
	pA = expectedScore(f.AdjustedRating(fighterA), f.AdjustedRating(fighterB))
	return pA, 1 - pA
}
