package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/datasource"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/repository"
)

type fakeGameRepo struct {
	games []*models.GameRecord
	calls int
}

func (f *fakeGameRepo) Create(ctx context.Context, game *models.GameRecord) error { return nil }
func (f *fakeGameRepo) Upsert(ctx context.Context, game *models.GameRecord) error { return nil }
func (f *fakeGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.GameRecord, error) {
	return nil, models.ErrNotFound
}
func (f *fakeGameRepo) ListByLeague(ctx context.Context, league string, start, end time.Time) ([]*models.GameRecord, error) {
	f.calls++
	return f.games, nil
}
func (f *fakeGameRepo) ListUnsettled(ctx context.Context, league string) ([]*models.GameRecord, error) {
	return nil, nil
}
func (f *fakeGameRepo) RecordFinalScore(ctx context.Context, id uuid.UUID, homeScore, awayScore float64) error {
	return nil
}

type fakeOddsRepo struct{}

func (f *fakeOddsRepo) Insert(ctx context.Context, quote *models.OddsQuote) error        { return nil }
func (f *fakeOddsRepo) InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error { return nil }
func (f *fakeOddsRepo) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*models.OddsQuote, error) {
	return nil, nil
}
func (f *fakeOddsRepo) PreferredQuote(ctx context.Context, gameID uuid.UUID, class models.QuoteClass) (*models.OddsQuote, error) {
	return nil, models.ErrNotFound
}

type fakePredictionRepo struct {
	inserted []*models.ModelPrediction
}

func (f *fakePredictionRepo) Insert(ctx context.Context, prediction *models.ModelPrediction) error {
	f.inserted = append(f.inserted, prediction)
	return nil
}
func (f *fakePredictionRepo) GetLatest(ctx context.Context, gameID uuid.UUID) (*models.ModelPrediction, error) {
	return nil, models.ErrNotFound
}
func (f *fakePredictionRepo) ListByVersion(ctx context.Context, modelVersion string, start, end time.Time) ([]*models.ModelPrediction, error) {
	return nil, nil
}

func testPredictorConfig() *config.Config {
	return &config.Config{
		Rating: config.RatingConfig{UsePresets: true},
		Staking: config.StakingConfig{
			ShrinkWeight:     0.7,
			KellyMultiplier:  0.25,
			MaxStakeFraction: 0.02,
			Bankroll:         1000,
			EdgeThreshold:    2.0,
		},
		Cache: config.CacheConfig{TTLSeconds: 300, CleanupIntervalSeconds: 600},
	}
}

func newTestPredictor(games []*models.GameRecord) (*Predictor, *fakeGameRepo, *fakePredictionRepo) {
	gameRepo := &fakeGameRepo{games: games}
	predRepo := &fakePredictionRepo{}
	repos := &repository.Repositories{
		Games:       gameRepo,
		Odds:        &fakeOddsRepo{},
		Predictions: predRepo,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPredictor(testPredictorConfig(), repos, logger), gameRepo, predRepo
}

func score(home, away float64) (*float64, *float64) {
	return &home, &away
}

func seriesGames(league, winner, loser string, n int, winnerHome bool) []*models.GameRecord {
	games := make([]*models.GameRecord, 0, n)
	base := time.Now().AddDate(0, 0, -n-1)
	for i := 0; i < n; i++ {
		home, away := winner, loser
		hs, as := score(100, 90)
		if !winnerHome {
			home, away = loser, winner
			hs, as = score(90, 100)
		}
		games = append(games, &models.GameRecord{
			ID:        uuid.New(),
			League:    league,
			HomeTeam:  home,
			AwayTeam:  away,
			StartTime: base.AddDate(0, 0, i),
			HomeScore: hs,
			AwayScore: as,
		})
	}
	return games
}

func TestBuildLeagueModelTwoWay(t *testing.T) {
	predictor, _, _ := newTestPredictor(seriesGames("NBA", "Alpha", "Beta", 10, true))

	model, err := predictor.BuildLeagueModel(context.Background(), "NBA")
	require.NoError(t, err)
	assert.False(t, model.ThreeWay)
	assert.False(t, model.Fight)
	assert.Equal(t, 10, model.Samples)

	pred := model.Predict("Alpha", "Beta", time.Now())
	assert.Greater(t, pred.HomeProb, 0.5, "repeat winner at home should be favored")
	assert.InDelta(t, 1.0, pred.HomeProb+pred.AwayProb, 1e-9)
	assert.Zero(t, pred.DrawProb)
}

func TestLeagueModelCached(t *testing.T) {
	predictor, gameRepo, _ := newTestPredictor(seriesGames("NBA", "Alpha", "Beta", 4, true))

	first, err := predictor.LeagueModel(context.Background(), "NBA")
	require.NoError(t, err)
	second, err := predictor.LeagueModel(context.Background(), "NBA")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, gameRepo.calls)

	predictor.InvalidateLeague("NBA")
	_, err = predictor.LeagueModel(context.Background(), "NBA")
	require.NoError(t, err)
	assert.Equal(t, 2, gameRepo.calls)
}

func TestPredictThreeWaySumsToOne(t *testing.T) {
	games := seriesGames("EPL", "Arsenal", "Chelsea", 6, true)
	// One draw so the weighted draw rate is real.
	hs, as := score(1, 1)
	games = append(games, &models.GameRecord{
		ID:        uuid.New(),
		League:    "EPL",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		StartTime: time.Now().AddDate(0, 0, -1),
		HomeScore: hs,
		AwayScore: as,
	})
	predictor, _, _ := newTestPredictor(games)

	model, err := predictor.BuildLeagueModel(context.Background(), "EPL")
	require.NoError(t, err)
	require.True(t, model.ThreeWay)

	pred := model.Predict("Arsenal", "Chelsea", time.Now())
	assert.InDelta(t, 1.0, pred.HomeProb+pred.AwayProb+pred.DrawProb, 1e-9)
	assert.GreaterOrEqual(t, pred.DrawProb, minProb)
	assert.GreaterOrEqual(t, pred.HomeProb, minProb)
	assert.GreaterOrEqual(t, pred.AwayProb, minProb)
}

func TestPredictFightPath(t *testing.T) {
	predictor, _, _ := newTestPredictor(seriesGames("UFC", "Jones", "Smith", 5, true))

	model, err := predictor.BuildLeagueModel(context.Background(), "UFC")
	require.NoError(t, err)
	require.True(t, model.Fight)

	pred := model.Predict("Jones", "Smith", time.Now())
	assert.Greater(t, pred.HomeProb, 0.5, "repeat winner should be favored")
	assert.InDelta(t, 1.0, pred.HomeProb+pred.AwayProb, 1e-9)

	// A debut fighter sits at the initial rating after layoff shrink.
	assert.Equal(t, 1500.0, model.AdjustedRating("Unknown Fighter"))
}

func TestEvaluateLeagueRecommendsValueSide(t *testing.T) {
	predictor, _, predRepo := newTestPredictor(seriesGames("NBA", "Alpha", "Beta", 10, true))

	gameID := uuid.New()
	events := []datasource.EventOdds{
		{
			Game: &models.GameRecord{
				ID:        gameID,
				League:    "NBA",
				HomeTeam:  "Alpha",
				AwayTeam:  "Beta",
				StartTime: time.Now().Add(6 * time.Hour),
			},
			Quote: &models.OddsQuote{
				GameID:     gameID,
				Bookmaker:  "pinnacle",
				CapturedAt: time.Now(),
				HomePrice:  150,
				AwayPrice:  -180,
			},
		},
	}

	predictions, err := predictor.EvaluateLeague(context.Background(), "NBA", events)
	require.NoError(t, err)
	require.Len(t, predictions, 1)

	pred := predictions[0]
	require.NotNil(t, pred.RecommendedBet, "model favorite priced as underdog should qualify")
	assert.Equal(t, models.SideHome, *pred.RecommendedBet)
	assert.Greater(t, pred.Home.EV, 0.0)

	require.Len(t, predRepo.inserted, 1)
	assert.Equal(t, ModelVersion, predRepo.inserted[0].ModelVersion)
	assert.Equal(t, gameID, predRepo.inserted[0].GameID)

	top := TopEdges(predictions, 10)
	require.Len(t, top, 1)
}

func TestGamePredictionMarshalShape(t *testing.T) {
	predictor, _, _ := newTestPredictor(seriesGames("NBA", "Alpha", "Beta", 10, true))

	gameID := uuid.New()
	events := []datasource.EventOdds{
		{
			Game: &models.GameRecord{
				ID:        gameID,
				League:    "NBA",
				HomeTeam:  "Alpha",
				AwayTeam:  "Beta",
				StartTime: time.Now().Add(6 * time.Hour),
			},
			Quote: &models.OddsQuote{
				GameID:    gameID,
				Bookmaker: "pinnacle",
				HomePrice: -110,
				AwayPrice: -110,
			},
		},
	}

	predictions, err := predictor.EvaluateLeague(context.Background(), "NBA", events)
	require.NoError(t, err)
	require.Len(t, predictions, 1)

	data, err := json.Marshal(predictions[0])
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))

	for _, key := range []string{
		"homeTeam", "awayTeam", "homeElo", "awayElo", "homeProbability",
		"awayProbability", "homeEdge", "homeEV", "homeStakeFrac",
		"homeStakeDollars", "recommendedBet", "confidence", "sampleSize",
	} {
		_, ok := payload[key]
		assert.True(t, ok, "missing payload key %q", key)
	}
	// Two-way market carries null draw fields.
	assert.Nil(t, payload["drawOdds"])
	assert.Nil(t, payload["drawEV"])
}
