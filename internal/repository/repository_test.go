package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/models"
)

// Integration tests run against a live database and are skipped when the
// test database config is unavailable.

func setupRepos(t *testing.T) (*Repositories, *database.DB) {
	t.Helper()
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}
	return repos, db
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	if _, err := NewRepositories(nil); err == nil {
		t.Fatal("expected error for nil database")
	}
}

func TestGameRepositoryRoundTrip(t *testing.T) {
	repos, db := setupRepos(t)
	defer database.TeardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	game := &models.GameRecord{
		ID:        uuid.New(),
		League:    "NBA",
		HomeTeam:  "Boston Celtics",
		AwayTeam:  "Miami Heat",
		StartTime: time.Now().Add(24 * time.Hour).UTC(),
	}

	if err := repos.Games.Create(ctx, game); err != nil {
		t.Fatalf("failed to create game: %v", err)
	}

	retrieved, err := repos.Games.GetByID(ctx, game.ID)
	if err != nil {
		t.Fatalf("failed to retrieve game: %v", err)
	}
	if retrieved.HomeTeam != game.HomeTeam {
		t.Errorf("expected home team %q, got %q", game.HomeTeam, retrieved.HomeTeam)
	}
	if retrieved.Completed() {
		t.Error("expected new game to be incomplete")
	}

	if err := repos.Games.RecordFinalScore(ctx, game.ID, 112, 104); err != nil {
		t.Fatalf("failed to record final score: %v", err)
	}
	settled, err := repos.Games.GetByID(ctx, game.ID)
	if err != nil {
		t.Fatalf("failed to retrieve settled game: %v", err)
	}
	winner, ok := settled.Result()
	if !ok || winner != models.SideHome {
		t.Errorf("expected home winner, got %v (settled=%v)", winner, ok)
	}
}

func TestOddsRepositoryPreferredQuote(t *testing.T) {
	repos, db := setupRepos(t)
	defer database.TeardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	game := &models.GameRecord{
		ID:        uuid.New(),
		League:    "NHL",
		HomeTeam:  "Boston Bruins",
		AwayTeam:  "Toronto Maple Leafs",
		StartTime: time.Now().Add(12 * time.Hour).UTC(),
	}
	if err := repos.Games.Create(ctx, game); err != nil {
		t.Fatalf("failed to create game: %v", err)
	}

	quotes := []*models.OddsQuote{
		{
			GameID:     game.ID,
			Bookmaker:  "pinnacle",
			CapturedAt: time.Now().Add(-2 * time.Hour).UTC(),
			Class:      models.QuoteOpening,
			HomePrice:  -120,
			AwayPrice:  100,
		},
		{
			GameID:     game.ID,
			Bookmaker:  "pinnacle",
			CapturedAt: time.Now().Add(-10 * time.Minute).UTC(),
			Class:      models.QuoteClosing,
			HomePrice:  -135,
			AwayPrice:  115,
		},
	}
	if err := repos.Odds.InsertBatch(ctx, quotes); err != nil {
		t.Fatalf("failed to insert quotes: %v", err)
	}

	preferred, err := repos.Odds.PreferredQuote(ctx, game.ID, models.QuoteClosing)
	if err != nil {
		t.Fatalf("failed to get preferred quote: %v", err)
	}
	if preferred.Class != models.QuoteClosing {
		t.Errorf("expected closing quote, got %s", preferred.Class)
	}
	if preferred.HomePrice != -135 {
		t.Errorf("expected home price -135, got %d", preferred.HomePrice)
	}

	if _, err := repos.Odds.PreferredQuote(ctx, uuid.New(), models.QuoteClosing); err != models.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown game, got %v", err)
	}
}

func TestGameLogRepositoryRoundTrip(t *testing.T) {
	repos, db := setupRepos(t)
	defer database.TeardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats := &models.PlayerStats{
		PlayerID:   uuid.NewString(),
		PlayerName: "Test Player",
		Team:       "Boston Celtics",
		League:     "NBA",
		Position:   "G",
		GameLogs: []models.PlayerGameLog{
			{
				GameID:   uuid.NewString(),
				Date:     time.Now().AddDate(0, 0, -3).UTC(),
				Opponent: "Miami Heat",
				IsHome:   true,
				Minutes:  34,
				Stats:    map[models.StatType]float64{models.StatPoints: 28, models.StatAssists: 7},
			},
			{
				GameID:   uuid.NewString(),
				Date:     time.Now().AddDate(0, 0, -1).UTC(),
				Opponent: "New York Knicks",
				IsHome:   false,
				Minutes:  31,
				Stats:    map[models.StatType]float64{models.StatPoints: 22, models.StatAssists: 9},
			},
		},
	}

	if err := repos.GameLogs.UpsertPlayer(ctx, stats); err != nil {
		t.Fatalf("failed to upsert player: %v", err)
	}

	byName, err := repos.GameLogs.GetByPlayerName(ctx, "test player")
	if err != nil {
		t.Fatalf("failed to get player by name: %v", err)
	}
	if byName.GamesPlayed() != 2 {
		t.Errorf("expected 2 game logs, got %d", byName.GamesPlayed())
	}
	if got := byName.GameLogs[1].Stat(models.StatAssists); got != 9 {
		t.Errorf("expected most recent assists 9, got %v", got)
	}
}
