package rating

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/oddsedge/internal/calibration"
	"github.com/yourusername/oddsedge/internal/models"
)

// Feature is one point-in-time row emitted by the chronological replay:
// ratings and win expectations captured strictly before the game's own
// result is applied.
type Feature struct {
	GameID     uuid.UUID    `json:"game_id"`
	Date       time.Time    `json:"date"`
	League     string       `json:"league"`
	HomeTeam   string       `json:"home_team"`
	AwayTeam   string       `json:"away_team"`
	HomeRating float64      `json:"home_rating"`
	AwayRating float64      `json:"away_rating"`
	RatingDiff float64      `json:"rating_diff"`
	HomeProb   float64      `json:"home_prob"`
	AwayProb   float64      `json:"away_prob"`
	Winner     *models.Side `json:"winner"`
}

// Builder replays games in chronological order, maintaining one rating book
// per league and emitting features computed only from games strictly before
// each row.
type Builder struct {
	presets func(league string) Config
	asOf    time.Time
	books   map[string]*Book
}

// NewBuilder creates a feature builder. asOf anchors the recency weights for
// leagues with a configured half-life.
func NewBuilder(asOf time.Time) *Builder {
	return &Builder{
		presets: LeaguePreset,
		asOf:    asOf,
		books:   make(map[string]*Book),
	}
}

// WithConfig overrides the per-league preset lookup with a fixed config for
// every league.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.presets = func(string) Config { return cfg }
	return b
}

// Book returns the rating book for a league as built so far, creating it on
// first reference.
func (b *Builder) Book(league string) *Book {
	if book, ok := b.books[league]; ok {
		return book
	}
	book := NewBook(b.presets(league))
	b.books[league] = book
	return book
}

// Build replays the games and returns one feature row per game. Input order
// does not matter; games are sorted ascending by start time before replay so
// the point-in-time constraint holds per book. Ratings before each row use
// only earlier games; a game's own result is applied after its row is
// emitted, and unplayed games leave the book untouched.
func (b *Builder) Build(games []*models.GameRecord) []Feature {
	ordered := make([]*models.GameRecord, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	features := make([]Feature, 0, len(ordered))
	for _, game := range ordered {
		book := b.Book(game.League)

		homeRating := book.Rating(game.HomeTeam)
		awayRating := book.Rating(game.AwayTeam)
		pHome, pAway := book.Predict(game.HomeTeam, game.AwayTeam)

		var winner *models.Side
		if side, ok := game.Result(); ok {
			winner = &side
		}

		features = append(features, Feature{
			GameID:     game.ID,
			Date:       game.StartTime,
			League:     game.League,
			HomeTeam:   game.HomeTeam,
			AwayTeam:   game.AwayTeam,
			HomeRating: homeRating,
			AwayRating: awayRating,
			RatingDiff: homeRating - awayRating,
			HomeProb:   pHome,
			AwayProb:   pAway,
			Winner:     winner,
		})

		if game.Completed() {
			weight := 1.0
			if hl := book.Config().HalfLifeDays; hl > 0 && !b.asOf.IsZero() {
				weight = calibration.TimeWeight(game.StartTime, b.asOf, hl)
			}
			book.ApplyWeighted(game.HomeTeam, game.AwayTeam, game.HomeScore, game.AwayScore, weight, game.StartTime)
		}
	}

	return features
}

// CalibrationSamples converts feature rows of completed two-way games into
// weighted calibrator samples for the home side.
func CalibrationSamples(features []Feature, asOf time.Time, halfLifeDays float64) []calibration.Sample {
	samples := make([]calibration.Sample, 0, len(features))
	for _, f := range features {
		if f.Winner == nil || *f.Winner == models.SideDraw {
			continue
		}
		outcome := 0
		if *f.Winner == models.SideHome {
			outcome = 1
		}
		samples = append(samples, calibration.Sample{
			Prob:    f.HomeProb,
			Outcome: outcome,
			Weight:  calibration.TimeWeight(f.Date, asOf, halfLifeDays),
		})
	}
	return samples
}
