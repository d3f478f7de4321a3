package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/datasource"
	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/repository"
)

// IngestionService persists live quotes and final scores from the odds API.
type IngestionService struct {
	source *datasource.OddsAPIClient
	repos  *repository.Repositories
	logger *logrus.Logger
	audit  *logger.AuditLogger
}

// NewIngestionService creates an ingestion service over the odds API client.
func NewIngestionService(source *datasource.OddsAPIClient, repos *repository.Repositories, log *logrus.Logger) *IngestionService {
	return &IngestionService{
		source: source,
		repos:  repos,
		logger: log,
		audit:  logger.NewAuditLogger(log),
	}
}

// PollOdds fetches a league's current quotes, upserting the scheduled games
// and appending one quote row per event. Returns the number of stored
// quotes.
func (s *IngestionService) PollOdds(ctx context.Context, league string) (int, error) {
	events, err := s.source.FetchOdds(ctx, league)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch odds for %s: %w", league, err)
	}

	stored := 0
	for _, event := range events {
		if err := s.repos.Games.Upsert(ctx, event.Game); err != nil {
			s.logger.WithError(err).WithField("game_id", event.Game.ID).
				Warn("failed to upsert game")
			continue
		}
		if err := s.repos.Odds.Insert(ctx, event.Quote); err != nil {
			s.logger.WithError(err).WithField("game_id", event.Game.ID).
				Warn("failed to store quote")
			continue
		}
		stored++
	}

	s.logger.WithFields(logrus.Fields{
		"league": league,
		"events": len(events),
		"stored": stored,
	}).Info("odds poll complete")

	return stored, nil
}

// SyncScores fetches recently completed games and records their final
// scores. Games the poller never saw are created on the fly. Returns the
// number of settled games.
func (s *IngestionService) SyncScores(ctx context.Context, league string, daysFrom int) (int, error) {
	games, err := s.source.FetchScores(ctx, league, daysFrom)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch scores for %s: %w", league, err)
	}

	settled := 0
	for _, game := range games {
		if err := s.repos.Games.Upsert(ctx, game); err != nil {
			s.logger.WithError(err).WithField("game_id", game.ID).
				Warn("failed to record final score")
			continue
		}
		if game.HomeScore != nil && game.AwayScore != nil {
			s.audit.LogScoreSettlement(game.ID.String(), game.League, *game.HomeScore, *game.AwayScore)
		}
		settled++
	}

	s.logger.WithFields(logrus.Fields{
		"league":  league,
		"settled": settled,
	}).Info("score sync complete")

	return settled, nil
}

// SyncAll runs a score sync followed by an odds poll for every league.
func (s *IngestionService) SyncAll(ctx context.Context, leagues []string, daysFrom int) error {
	started := time.Now()
	var firstErr error
	for _, league := range leagues {
		if _, err := s.SyncScores(ctx, league, daysFrom); err != nil && firstErr == nil {
			firstErr = err
		}
		if _, err := s.PollOdds(ctx, league); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.logger.WithField("elapsed", time.Since(started).String()).Info("full sync complete")
	return firstErr
}
