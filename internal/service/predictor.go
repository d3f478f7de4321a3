// Package service wires ratings, calibration and staking into the live
// prediction and ingestion workflows.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/calibration"
	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/datasource"
	"github.com/yourusername/oddsedge/internal/edge"
	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/rating"
	"github.com/yourusername/oddsedge/internal/repository"
)

// ModelVersion tags stored predictions with the rating flow that produced
// them.
const ModelVersion = "elo-v1"

const (
	// minDrawRate guards the three-way draw prior against thin samples.
	minDrawRate = 0.05
	// minProb clamps three-way probabilities away from 0 and 1.
	minProb = 0.01
)

// LeagueModel is a fitted per-league prediction model: a rating book built
// from recent completed games plus the calibrators fitted on its own replay.
type LeagueModel struct {
	League   string
	ThreeWay bool
	Fight    bool
	BuiltAt  time.Time
	Samples  int

	book   *rating.Book
	fights *rating.FightBook

	homeCal  *calibration.Isotonic
	awayCal  *calibration.Isotonic
	drawCal  *calibration.Isotonic
	fightCal *calibration.Isotonic
	drawRate float64
}

// SampleSize returns the smaller rated-game count of the two participants,
// the confidence input for this matchup.
func (m *LeagueModel) SampleSize(home, away string) int {
	if m.Fight {
		h, a := m.fights.Fights(home), m.fights.Fights(away)
		if h < a {
			return h
		}
		return a
	}
	h, a := m.book.GamesPlayed(home), m.book.GamesPlayed(away)
	if h < a {
		return h
	}
	return a
}

// Predict dispatches to the league's prediction path.
func (m *LeagueModel) Predict(home, away string, at time.Time) *models.ModelPrediction {
	switch {
	case m.Fight:
		return m.PredictFight(home, away, at)
	case m.ThreeWay:
		return m.PredictThreeWay(home, away, at)
	default:
		return m.PredictTwoWay(home, away, at)
	}
}

// PredictTwoWay produces home/away probabilities for a market with no draw:
// raw book expectations, per-side calibration when both calibrators fitted,
// then renormalization.
func (m *LeagueModel) PredictTwoWay(home, away string, at time.Time) *models.ModelPrediction {
	pHome, pAway := m.book.Predict(home, away)
	if m.homeCal != nil && m.awayCal != nil {
		pHome = m.homeCal.Predict(pHome)
		pAway = m.awayCal.Predict(pAway)
		total := pHome + pAway
		if total > 0 {
			pHome /= total
			pAway /= total
		}
	}
	return &models.ModelPrediction{
		ModelVersion: ModelVersion,
		PredictedAt:  at,
		HomeProb:     pHome,
		AwayProb:     pAway,
	}
}

// PredictThreeWay produces home/draw/away probabilities: the weighted draw
// rate is carved out of the two-way expectations, all three sides are
// calibrated when every calibrator fitted, and the result is clamped away
// from 0 and renormalized.
func (m *LeagueModel) PredictThreeWay(home, away string, at time.Time) *models.ModelPrediction {
	pHomeRaw, pAwayRaw := m.book.Predict(home, away)

	pDraw := m.drawRate
	pHome := pHomeRaw * (1 - pDraw)
	pAway := pAwayRaw * (1 - pDraw)
	pHome, pDraw, pAway = normalize3(pHome, pDraw, pAway)

	if m.homeCal != nil && m.awayCal != nil && m.drawCal != nil {
		pHome = m.homeCal.Predict(pHome)
		pAway = m.awayCal.Predict(pAway)
		pDraw = m.drawCal.Predict(pDraw)
		pHome, pDraw, pAway = normalize3(pHome, pDraw, pAway)
	}

	pHome = clampProb(pHome, minProb, 1-minProb)
	pAway = clampProb(pAway, minProb, 1-minProb)
	pDraw = clampProb(pDraw, minProb, 1-minProb)
	pHome, pDraw, pAway = normalize3(pHome, pDraw, pAway)

	return &models.ModelPrediction{
		ModelVersion: ModelVersion,
		PredictedAt:  at,
		HomeProb:     pHome,
		AwayProb:     pAway,
		DrawProb:     pDraw,
	}
}

// PredictFight produces win probabilities from the layoff-adjusted fight
// book, calibrated on the first fighter's side.
func (m *LeagueModel) PredictFight(fighterA, fighterB string, at time.Time) *models.ModelPrediction {
	pA, pB := m.fights.Predict(fighterA, fighterB)
	if m.fightCal != nil {
		pA = m.fightCal.Predict(pA)
		pB = 1 - pA
	}
	return &models.ModelPrediction{
		ModelVersion: ModelVersion,
		PredictedAt:  at,
		HomeProb:     pA,
		AwayProb:     pB,
	}
}

// AdjustedRating returns the rating used for prediction: layoff-adjusted for
// fight leagues, the stored book rating otherwise.
func (m *LeagueModel) AdjustedRating(participant string) float64 {
	if m.Fight {
		return m.fights.AdjustedRating(participant)
	}
	return m.book.Rating(participant)
}

// participants returns how many teams or fighters the model has rated.
func (m *LeagueModel) participants() int {
	if m.Fight {
		return m.fights.Size()
	}
	return m.book.Size()
}

// StoredRating returns the raw book rating.
func (m *LeagueModel) StoredRating(participant string) float64 {
	if m.Fight {
		return m.fights.Rating(participant)
	}
	return m.book.Rating(participant)
}

// Predictor builds cached per-league models and turns live quotes into edge
// evaluations.
type Predictor struct {
	cfg    *config.Config
	repos  *repository.Repositories
	cache  *gocache.Cache
	logger *logrus.Logger
	audit  *logger.AuditLogger
	now    func() time.Time
}

// NewPredictor creates a predictor over the given repositories. Fitted
// league models are cached for the configured TTL.
func NewPredictor(cfg *config.Config, repos *repository.Repositories, log *logrus.Logger) *Predictor {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	cleanup := time.Duration(cfg.Cache.CleanupIntervalSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &Predictor{
		cfg:    cfg,
		repos:  repos,
		cache:  gocache.New(ttl, cleanup),
		logger: log,
		audit:  logger.NewAuditLogger(log),
		now:    time.Now,
	}
}

// LeagueModel returns the fitted model for a league, rebuilding it when the
// cached copy has expired.
func (p *Predictor) LeagueModel(ctx context.Context, league string) (*LeagueModel, error) {
	cacheKey := "league:" + league
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.(*LeagueModel), nil
	}

	model, err := p.BuildLeagueModel(ctx, league)
	if err != nil {
		return nil, err
	}
	p.cache.Set(cacheKey, model, gocache.DefaultExpiration)
	return model, nil
}

// InvalidateLeague drops a league's cached model, forcing a rebuild on next
// use.
func (p *Predictor) InvalidateLeague(league string) {
	p.cache.Delete("league:" + league)
}

// BuildLeagueModel replays a league's recent completed games into a fresh
// rating book and fits its calibrators.
func (p *Predictor) BuildLeagueModel(ctx context.Context, league string) (*LeagueModel, error) {
	now := p.now()
	threeWay := rating.IsThreeWay(league)
	fight := isFightLeague(league)

	lookbackDays := 365
	if threeWay {
		lookbackDays = 180
	}
	start := now.AddDate(0, 0, -lookbackDays)

	games, err := p.repos.Games.ListByLeague(ctx, league, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for %s: %w", league, err)
	}

	var model *LeagueModel
	if fight {
		model = p.buildFightModel(league, games, now)
	} else {
		model = p.buildTeamModel(league, games, now, threeWay)
	}

	metrics.CalibrationSampleSize.WithLabelValues(league).Set(float64(model.Samples))
	metrics.LastRatingRebuild.SetToCurrentTime()

	p.audit.LogModelRebuild(league, model.Samples, model.participants(), threeWay, fight)
	p.logger.WithFields(logrus.Fields{
		"league":    league,
		"games":     len(games),
		"samples":   model.Samples,
		"three_way": threeWay,
		"fight":     fight,
	}).Info("rebuilt league model")

	return model, nil
}

func (p *Predictor) buildTeamModel(league string, games []*models.GameRecord, now time.Time, threeWay bool) *LeagueModel {
	builder := rating.NewBuilder(now)
	if !p.cfg.Rating.UsePresets {
		builder = builder.WithConfig(rating.Config{
			InitialRating: p.cfg.Rating.InitialRating,
			KFactor:       p.cfg.Rating.KFactor,
			HomeAdvantage: p.cfg.Rating.HomeAdvantage,
			HalfLifeDays:  p.cfg.Rating.HalfLifeDays,
		})
	}
	features := builder.Build(games)
	book := builder.Book(league)
	halfLife := book.Config().HalfLifeDays

	var homeSamples, awaySamples, drawSamples []calibration.Sample
	var drawWeighted, totalWeighted float64
	samples := 0
	for _, f := range features {
		if f.Winner == nil {
			continue
		}
		samples++
		weight := calibration.TimeWeight(f.Date, now, halfLife)
		totalWeighted += weight
		if *f.Winner == models.SideDraw {
			drawWeighted += weight
		}

		homeSamples = append(homeSamples, calibration.Sample{
			Prob: f.HomeProb, Outcome: outcomeBit(*f.Winner == models.SideHome), Weight: weight,
		})
		awaySamples = append(awaySamples, calibration.Sample{
			Prob: f.AwayProb, Outcome: outcomeBit(*f.Winner == models.SideAway), Weight: weight,
		})
	}

	drawRate := 0.25
	if totalWeighted > 0 {
		drawRate = drawWeighted / totalWeighted
	}
	if drawRate < minDrawRate {
		drawRate = 0.25
	}

	if threeWay {
		// The draw calibrator is fitted on the constant prior, learning only
		// the draw base rate correction.
		for _, f := range features {
			if f.Winner == nil {
				continue
			}
			weight := calibration.TimeWeight(f.Date, now, halfLife)
			drawSamples = append(drawSamples, calibration.Sample{
				Prob: drawRate, Outcome: outcomeBit(*f.Winner == models.SideDraw), Weight: weight,
			})
		}
	}

	model := &LeagueModel{
		League:   league,
		ThreeWay: threeWay,
		BuiltAt:  now,
		Samples:  samples,
		book:     book,
		drawRate: drawRate,
	}
	if calibration.HasBothClasses(homeSamples) {
		model.homeCal = &calibration.Isotonic{}
		model.homeCal.Fit(homeSamples)
	}
	if calibration.HasBothClasses(awaySamples) {
		model.awayCal = &calibration.Isotonic{}
		model.awayCal.Fit(awaySamples)
	}
	if threeWay && calibration.HasBothClasses(drawSamples) {
		model.drawCal = &calibration.Isotonic{}
		model.drawCal.Fit(drawSamples)
	}

	metrics.RatedParticipants.WithLabelValues(league).Set(float64(book.Size()))

	return model
}

func (p *Predictor) buildFightModel(league string, games []*models.GameRecord, now time.Time) *LeagueModel {
	cfg := rating.LeaguePreset(league)
	fights := rating.NewFightBook(cfg)

	ordered := make([]*models.GameRecord, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	var samples []calibration.Sample
	for _, fightRec := range ordered {
		winner, ok := fightRec.Result()
		if !ok || winner == models.SideDraw {
			continue
		}
		weight := calibration.TimeWeight(fightRec.StartTime, now, cfg.HalfLifeDays)
		pA, _ := fights.PredictRaw(fightRec.HomeTeam, fightRec.AwayTeam)
		samples = append(samples, calibration.Sample{
			Prob: pA, Outcome: outcomeBit(winner == models.SideHome), Weight: weight,
		})
		fights.ApplyWeighted(fightRec.HomeTeam, fightRec.AwayTeam, fightRec.HomeScore, fightRec.AwayScore, weight, fightRec.StartTime)
	}

	model := &LeagueModel{
		League:  league,
		Fight:   true,
		BuiltAt: now,
		Samples: len(samples),
		fights:  fights,
	}
	if calibration.HasBothClasses(samples) {
		model.fightCal = &calibration.Isotonic{}
		model.fightCal.Fit(samples)
	}

	metrics.RatedParticipants.WithLabelValues(league).Set(float64(fights.Size()))

	return model
}

// EvaluateLeague fetches the league's live quotes, predicts each game and
// evaluates its market edge. Predictions are persisted best-effort.
func (p *Predictor) EvaluateLeague(ctx context.Context, league string, events []datasource.EventOdds) ([]*GamePrediction, error) {
	model, err := p.LeagueModel(ctx, league)
	if err != nil {
		return nil, err
	}

	stakeCfg := edge.Config{
		ShrinkWeight:     p.cfg.Staking.ShrinkWeight,
		KellyMultiplier:  p.cfg.Staking.KellyMultiplier,
		MaxStakeFraction: p.cfg.Staking.MaxStakeFraction,
		Bankroll:         p.cfg.Staking.Bankroll,
		EdgeThreshold:    p.cfg.Staking.EdgeThreshold,
		MinSamples:       p.cfg.Staking.MinSamples,
	}
	calc := edge.NewCalculator(stakeCfg, nil)

	predictions := make([]*GamePrediction, 0, len(events))
	for _, event := range events {
		pred := model.Predict(event.Game.HomeTeam, event.Game.AwayTeam, p.now())
		pred.GameID = event.Game.ID

		if err := p.repos.Predictions.Insert(ctx, pred); err != nil {
			p.logger.WithError(err).WithField("game_id", event.Game.ID).
				Warn("failed to persist prediction")
		}

		sampleSize := model.SampleSize(event.Game.HomeTeam, event.Game.AwayTeam)
		result, err := calc.Evaluate(pred, event.Quote, sampleSize)
		if err != nil {
			p.logger.WithError(err).WithField("game_id", event.Game.ID).
				Warn("skipping unpriceable market")
			continue
		}

		metrics.RecordPrediction(league)
		metrics.GamesProcessedTotal.WithLabelValues(league).Inc()

		evaluated := newGamePrediction(model, event, pred, result)
		if result.Recommended != nil {
			metrics.RecordQualifiedEdge(league)
			side := result.Side(*result.Recommended)
			p.audit.LogEdgeRecommendation(
				event.Game.ID.String(), league, result.Recommended.String(),
				side.EV, side.EdgePct, side.StakeFraction, side.StakeDollars,
				result.Confidence,
			)
		}

		predictions = append(predictions, evaluated)
	}

	return predictions, nil
}

// TopEdges filters to recommended games and returns the best n by
// EV-weighted stake.
func TopEdges(predictions []*GamePrediction, n int) []*GamePrediction {
	recommended := make([]*GamePrediction, 0, len(predictions))
	for _, pred := range predictions {
		if pred.RecommendedBet != nil {
			recommended = append(recommended, pred)
		}
	}
	sort.SliceStable(recommended, func(i, j int) bool {
		return recommended[i].bestScore() > recommended[j].bestScore()
	})
	if n > 0 && len(recommended) > n {
		recommended = recommended[:n]
	}
	return recommended
}

func isFightLeague(league string) bool {
	switch strings.ToUpper(league) {
	case "UFC", "MMA":
		return true
	default:
		return false
	}
}

func outcomeBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func clampProb(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

func normalize3(home, draw, away float64) (float64, float64, float64) {
	total := home + draw + away
	if total < 1e-6 {
		total = 1e-6
	}
	return home / total, draw / total, away / total
}
