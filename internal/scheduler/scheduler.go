// Package scheduler runs the recurring ingestion and model-rebuild jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/service"
)

// Scheduler manages the recurring score-sync, odds-poll and rating-rebuild
// jobs. Cron expressions use six fields (with seconds) in UTC.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.SchedulerConfig
	leagues   []string
	ingestion *service.IngestionService
	predictor *service.Predictor
	logger    *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler for the configured leagues.
func NewScheduler(cfg config.SchedulerConfig, leagues []string, ingestion *service.IngestionService, predictor *service.Predictor, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		cfg:       cfg,
		leagues:   leagues,
		ingestion: ingestion,
		predictor: predictor,
		logger:    logger,
		jobIDs:    make([]cron.EntryID, 0),
	}
}

// ScheduleJobs registers the three standing jobs from the configuration.
func (s *Scheduler) ScheduleJobs() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule jobs while scheduler is running")
	}

	jobs := []struct {
		name string
		expr string
		fn   func()
	}{
		{"score_sync", s.cfg.ScoreSyncCron, s.runScoreSync},
		{"rating_rebuild", s.cfg.RatingRebuildCron, s.runRatingRebuild},
		{"odds_poll", s.cfg.OddsPollCron, s.runOddsPoll},
	}

	for _, job := range jobs {
		entryID, err := s.cron.AddFunc(job.expr, job.fn)
		if err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}
		s.jobIDs = append(s.jobIDs, entryID)
		s.logger.WithFields(logrus.Fields{
			"job":  job.name,
			"cron": job.expr,
		}).Info("scheduled job")
	}

	return nil
}

func (s *Scheduler) runScoreSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, league := range s.leagues {
		if _, err := s.ingestion.SyncScores(ctx, league, 3); err != nil {
			s.logger.WithError(err).WithField("league", league).Error("score sync failed")
		}
	}
}

func (s *Scheduler) runRatingRebuild() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	for _, league := range s.leagues {
		s.predictor.InvalidateLeague(league)
		if _, err := s.predictor.LeagueModel(ctx, league); err != nil {
			s.logger.WithError(err).WithField("league", league).Error("rating rebuild failed")
		}
	}
}

func (s *Scheduler) runOddsPoll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, league := range s.leagues {
		if _, err := s.ingestion.PollOdds(ctx, league); err != nil {
			s.logger.WithError(err).WithField("league", league).Error("odds poll failed")
		}
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("scheduler started")
	return nil
}

// Stop stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
