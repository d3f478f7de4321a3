// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/backtest"
	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		league     = flag.String("league", "NBA", "League to replay")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		mode       = flag.String("mode", "all", "Backtest mode: historical, monte-carlo, walk-forward, all")
		output     = flag.String("output", "", "Override output path for the JSON report")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := loadConfigWithSecrets(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)

	btConfig := buildBacktestConfig(cfg)
	start, end := resolveDateRange(cfg, *startDate, *endDate, log)
	outputPath := cfg.Backtest.OutputPath
	if *output != "" {
		outputPath = *output
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	engine, err := backtest.NewEngine(btConfig, repos, log)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	log.WithFields(logrus.Fields{"mode": *mode, "league": *league}).Info("Starting backtest")
	report := runMode(ctx, engine, cfg, *league, start, end, *mode, log)

	os.Stdout.WriteString(backtest.ConsoleReport(report.State, report.Result))

	if err := writeReports(report, outputPath); err != nil {
		log.Fatalf("Failed to write reports: %v", err)
	}
	log.WithField("output", outputPath).Info("Backtest complete")
}

// report collects everything one invocation produced, serialized as the JSON
// export. State stays internal; the payload carries its bankroll and ledger.
type report struct {
	League        string                      `json:"league"`
	StartDate     string                      `json:"start_date"`
	EndDate       string                      `json:"end_date"`
	Result        backtest.Result             `json:"result"`
	FinalBankroll float64                     `json:"final_bankroll"`
	Ledger        []backtest.LedgerEntry      `json:"ledger"`
	WalkForward   *backtest.WalkForwardResult `json:"walk_forward,omitempty"`
	MonteCarlo    *backtest.MonteCarloResult  `json:"monte_carlo,omitempty"`

	State *backtest.State `json:"-"`
}

func runMode(ctx context.Context, engine *backtest.Engine, cfg *config.Config, league string, start, end time.Time, mode string, log *logrus.Logger) *report {
	state, result, err := engine.Run(ctx, league, start, end)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	out := &report{
		League:        league,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		Result:        result,
		FinalBankroll: state.Bankroll,
		Ledger:        state.Ledger,
		State:         state,
	}

	if mode == "walk-forward" || mode == "all" {
		rows, err := engine.LoadRows(ctx, league, start, end)
		if err != nil {
			log.Fatalf("Failed to load rows for walk-forward: %v", err)
		}
		wf := backtest.RunWalkForward(rows, engine.Config(), cfg.Backtest.WalkForwardWindows)
		out.WalkForward = &wf
		log.WithFields(logrus.Fields{
			"windows":      len(wf.Windows),
			"consistency":  wf.ConsistencyScore,
			"mean_roi_pct": wf.MeanROIPct,
		}).Info("Walk-forward analysis complete")
	}

	if mode == "monte-carlo" || mode == "all" {
		mc := backtest.RunMonteCarlo(state.Ledger, backtest.MonteCarloConfig{
			Iterations:      cfg.Backtest.MonteCarloIterations,
			InitialBankroll: engine.Config().InitialBankroll,
		})
		out.MonteCarlo = &mc
		log.WithFields(logrus.Fields{
			"iterations":     mc.Iterations,
			"prob_of_profit": mc.ProbabilityOfProfit,
			"var_95":         mc.VaR95,
		}).Info("Monte Carlo analysis complete")
	}

	return out
}

func writeReports(out *report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return err
	}

	base := outputPath[:len(outputPath)-len(filepath.Ext(outputPath))]
	if err := backtest.WriteCSVReport(out.Result, base+"_summary.csv"); err != nil {
		return err
	}
	return backtest.WriteEquityCurve(out.State.Curve, base+"_equity.csv")
}

func loadConfigWithSecrets(path string) *config.Config {
	boot := logrus.New()
	cfg, err := config.Load(path)
	if err != nil {
		boot.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			boot.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			boot.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		boot.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildBacktestConfig(cfg *config.Config) backtest.Config {
	btConfig := backtest.DefaultConfig()
	btConfig.EVThreshold = cfg.Backtest.EVThreshold
	btConfig.FlatStake = cfg.Backtest.FlatStake
	btConfig.WarmupRows = cfg.Backtest.WarmupRows
	btConfig.InitialBankroll = cfg.Backtest.InitialBankroll
	btConfig.ShrinkWeight = cfg.Staking.ShrinkWeight
	return btConfig
}

func resolveDateRange(cfg *config.Config, startOverride, endOverride string, log *logrus.Logger) (time.Time, time.Time) {
	start, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		log.Fatalf("Invalid configured start date: %v", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Backtest.EndDate)
	if err != nil {
		log.Fatalf("Invalid configured end date: %v", err)
	}
	if startOverride != "" {
		if start, err = time.Parse("2006-01-02", startOverride); err != nil {
			log.Fatalf("Invalid start date: %v", err)
		}
	}
	if endOverride != "" {
		if end, err = time.Parse("2006-01-02", endOverride); err != nil {
			log.Fatalf("Invalid end date: %v", err)
		}
	}
	if !end.After(start) {
		log.Fatalf("End date must be after start date")
	}
	return start, end
}
