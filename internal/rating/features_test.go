package rating

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/oddsedge/internal/models"
)

func game(league, home, away string, day int, homeScore, awayScore float64) *models.GameRecord {
	return &models.GameRecord{
		ID:        uuid.New(),
		League:    league,
		HomeTeam:  home,
		AwayTeam:  away,
		StartTime: time.Date(2025, 1, day, 19, 0, 0, 0, time.UTC),
		HomeScore: fptr(homeScore),
		AwayScore: fptr(awayScore),
	}
}

func TestBuildPointInTime(t *testing.T) {
	g1 := game("NBA", "BOS", "NYK", 1, 110, 100)
	g2 := game("NBA", "BOS", "NYK", 2, 95, 99)

	builder := NewBuilder(time.Time{}).WithConfig(Config{InitialRating: 1500, KFactor: 20, HomeAdvantage: 100})
	// Feed out of order; the builder must sort chronologically.
	features := builder.Build([]*models.GameRecord{g2, g1})

	if len(features) != 2 {
		t.Fatalf("expected 2 feature rows, got %d", len(features))
	}
	first, second := features[0], features[1]
	if first.GameID != g1.ID {
		t.Fatalf("rows must come out in event-time order")
	}

	// G1 is predicted from initial ratings only.
	if first.HomeRating != 1500 || first.AwayRating != 1500 {
		t.Fatalf("first game must use initial ratings, got %v/%v", first.HomeRating, first.AwayRating)
	}
	wantP := 1 / (1 + math.Pow(10, -100.0/400))
	if math.Abs(first.HomeProb-wantP) > 1e-9 {
		t.Fatalf("first game home prob must be %.4f, got %v", wantP, first.HomeProb)
	}

	// G2 sees G1's result but never its own.
	if second.HomeRating <= 1500 {
		t.Fatalf("home rating for G2 must reflect the G1 win, got %v", second.HomeRating)
	}
	if second.AwayRating >= 1500 {
		t.Fatalf("away rating for G2 must reflect the G1 loss, got %v", second.AwayRating)
	}
	if *second.Winner != models.SideAway {
		t.Fatalf("expected away winner on G2")
	}
}

func TestBuildSeparateLeagues(t *testing.T) {
	builder := NewBuilder(time.Time{}).WithConfig(DefaultConfig())
	builder.Build([]*models.GameRecord{
		game("NBA", "BOS", "NYK", 1, 120, 90),
		game("NHL", "BOS", "NYR", 1, 4, 2),
	})

	nba := builder.Book("NBA").Rating("BOS")
	nhl := builder.Book("NHL").Rating("BOS")
	if nba == nhl {
		t.Fatalf("identically named teams in different leagues must be rated independently")
	}
}

func TestBuildSkipsUnplayedGames(t *testing.T) {
	scheduled := &models.GameRecord{
		ID: uuid.New(), League: "NBA", HomeTeam: "BOS", AwayTeam: "NYK",
		StartTime: time.Date(2025, 1, 3, 19, 0, 0, 0, time.UTC),
	}
	builder := NewBuilder(time.Time{}).WithConfig(DefaultConfig())
	features := builder.Build([]*models.GameRecord{scheduled})

	if features[0].Winner != nil {
		t.Fatalf("unplayed game must have no winner")
	}
	if builder.Book("NBA").GamesPlayed("BOS") != 0 {
		t.Fatalf("unplayed game must not update the book")
	}
}

func TestEvaluateChronologicalSplit(t *testing.T) {
	games := []*models.GameRecord{}
	for day := 1; day <= 20; day++ {
		hs, as := 100.0, 90.0
		if day%3 == 0 {
			hs, as = 90.0, 100.0
		}
		games = append(games, game("NBA", "BOS", "NYK", day, hs, as))
	}
	builder := NewBuilder(time.Time{}).WithConfig(DefaultConfig())
	features := builder.Build(games)

	report := Evaluate(features, 0.25)
	if report.TrainSize != 15 || report.TestSize != 5 {
		t.Fatalf("expected 15/5 split, got %d/%d", report.TrainSize, report.TestSize)
	}
	if report.TestBrier < 0 || report.TestBrier > 1 {
		t.Fatalf("brier out of range: %v", report.TestBrier)
	}
	if report.TestLogLoss <= 0 {
		t.Fatalf("log loss must be positive for imperfect predictions: %v", report.TestLogLoss)
	}
}

func TestCalibrationSamplesExcludeDraws(t *testing.T) {
	builder := NewBuilder(time.Time{}).WithConfig(DefaultConfig())
	features := builder.Build([]*models.GameRecord{
		game("EPL", "ARS", "CHE", 1, 2, 1),
		game("EPL", "ARS", "CHE", 2, 1, 1),
		game("EPL", "ARS", "CHE", 3, 0, 1),
	})

	asOf := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	samples := CalibrationSamples(features, asOf, 45)
	if len(samples) != 2 {
		t.Fatalf("draws must be excluded from home-side samples, got %d", len(samples))
	}
	if samples[0].Outcome != 1 || samples[1].Outcome != 0 {
		t.Fatalf("unexpected outcomes: %+v", samples)
	}
	if samples[0].Weight >= samples[1].Weight {
		t.Fatalf("older games must weigh less")
	}
}
