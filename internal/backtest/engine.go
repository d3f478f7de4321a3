// Package backtest replays chronological prediction/odds/outcome rows
// through the staking calculator and reports aggregate P&L.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/edge"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/rating"
	"github.com/yourusername/oddsedge/internal/repository"
)

// Engine wires historical games and quotes from storage into a replay run.
type Engine struct {
	cfg    Config
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewEngine creates a backtest engine over the given repositories.
func NewEngine(cfg Config, repos *repository.Repositories, logger *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{cfg: cfg, repos: repos, logger: logger}, nil
}

// Config returns the simulation configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// LoadRows builds the replayable rows for a league and date range: games from
// storage, point-in-time features rebuilt chronologically, and the preferred
// closing quote joined per game.
func (e *Engine) LoadRows(ctx context.Context, league string, start, end time.Time) ([]Row, error) {
	games, err := e.repos.Games.ListByLeague(ctx, league, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	features := rating.NewBuilder(end).Build(games)

	quotes := make(map[uuid.UUID]*models.OddsQuote, len(games))
	for _, game := range games {
		quote, err := e.repos.Odds.PreferredQuote(ctx, game.ID, models.QuoteClosing)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load quote for %s: %w", game.ID, err)
		}
		quotes[game.ID] = quote
	}

	return RowsFromFeatures(features, quotes), nil
}

// Run loads a league's games and closing quotes for the date range, rebuilds
// ratings chronologically, and replays the resulting rows.
func (e *Engine) Run(ctx context.Context, league string, start, end time.Time) (*State, Result, error) {
	started := time.Now()
	e.logger.WithFields(logrus.Fields{
		"league": league,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}).Info("starting backtest run")

	rows, err := e.LoadRows(ctx, league, start, end)
	if err != nil {
		return nil, Result{}, err
	}
	state, result := Replay(rows, e.cfg)

	metrics.RecordBacktestRun(time.Since(started).Seconds())
	e.logger.WithFields(logrus.Fields{
		"rows":    state.RowsSeen,
		"bets":    result.TotalBets,
		"roi_pct": result.ROIPct,
	}).Info("backtest run complete")

	return state, result, nil
}

// Replay runs the simulation over chronological rows. Rows are sorted by
// date first; the initial warmupRows are skipped, as are rows without a
// quote or a settled outcome. Side selection keeps the asymmetric
// home-priority rule: home when its EV clears the threshold and beats the
// away EV, otherwise away when its EV clears the threshold, otherwise no
// bet.
func Replay(rows []Row, cfg Config) (*State, Result) {
	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	stakeCfg := edge.DefaultConfig()
	stakeCfg.ShrinkWeight = cfg.ShrinkWeight
	calc := edge.NewCalculator(stakeCfg, nil)

	state := NewState(cfg.InitialBankroll)
	for i, row := range ordered {
		state.RowsSeen++
		if i < cfg.WarmupRows {
			state.RowsWarmup++
			continue
		}
		if row.Quote == nil {
			state.RowsNoQuote++
			continue
		}
		if row.Winner == nil {
			state.RowsUnsettled++
			continue
		}

		home, err := calc.EvaluateSide(row.HomeProb, row.Quote, models.SideHome, 0)
		if err != nil {
			state.RowsBadMarket++
			continue
		}
		away, err := calc.EvaluateSide(row.AwayProb, row.Quote, models.SideAway, 0)
		if err != nil {
			state.RowsBadMarket++
			continue
		}

		var pick *edge.SideEvaluation
		switch {
		case home.EV > cfg.EVThreshold && home.EV > away.EV:
			pick = &home
		case away.EV > cfg.EVThreshold:
			pick = &away
		default:
			state.RowsNoBet++
			continue
		}

		won := *row.Winner == pick.Side
		profit := -cfg.FlatStake
		if won {
			profit = cfg.FlatStake * (pick.DecimalOdds - 1)
		}

		state.Settle(LedgerEntry{
			GameID:      row.GameID,
			Date:        row.Date,
			League:      row.League,
			Side:        pick.Side,
			DecimalOdds: pick.DecimalOdds,
			ModelProb:   pick.BlendedProb,
			EV:          pick.EV,
			Stake:       cfg.FlatStake,
			Won:         won,
			Profit:      profit,
		})
	}

	return state, Summarize(state, cfg)
}
