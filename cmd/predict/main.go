// Package main provides the prediction CLI: one-shot edge evaluation, data
// sync, and the long-running scheduler service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/datasource"
	"github.com/yourusername/oddsedge/internal/health"
	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/repository"
	"github.com/yourusername/oddsedge/internal/scheduler"
	"github.com/yourusername/oddsedge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	leagueFlag string
	topFlag    int
	outputFlag string
	daysFrom   int

	appLog    *logrus.Logger
	cfg       *config.Config
	db        *database.DB
	repos     *repository.Repositories
	odds      *datasource.OddsAPIClient
	predictor *service.Predictor
	ingestion *service.IngestionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&leagueFlag, "league", "l", "", "League to evaluate (default: all configured leagues)")
	rootCmd.Flags().IntVarP(&topFlag, "top", "n", 0, "Keep only the top N recommended edges")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write predictions JSON to a file instead of stdout")
	syncCmd.Flags().IntVar(&daysFrom, "days-from", 3, "How many days of completed games to settle (1-3)")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Evaluate live odds against the rating model",
	Long:  `Fetches current odds for the configured leagues, builds point-in-time rating models, and prints the evaluated edges as JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluate(cmd.Context())
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one score sync and odds poll across the configured leagues",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ingestion.SyncAll(cmd.Context(), cfg.OddsAPI.Leagues, daysFrom)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler service with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return err
		}
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err = repository.NewRepositories(db)
	if err != nil {
		return err
	}

	odds = datasource.NewOddsAPIClient(&cfg.OddsAPI, appLog)
	predictor = service.NewPredictor(cfg, repos, appLog)
	ingestion = service.NewIngestionService(odds, repos, appLog)
	return nil
}

func teardown() {
	if odds != nil {
		odds.Close()
	}
	if db != nil {
		db.Close()
	}
}

func runEvaluate(ctx context.Context) error {
	leagues := cfg.OddsAPI.Leagues
	if leagueFlag != "" {
		leagues = []string{leagueFlag}
	}

	var predictions []*service.GamePrediction
	for _, league := range leagues {
		events, err := odds.FetchOdds(ctx, league)
		if err != nil {
			appLog.WithError(err).WithField("league", league).Error("odds fetch failed")
			continue
		}
		evaluated, err := predictor.EvaluateLeague(ctx, league, events)
		if err != nil {
			appLog.WithError(err).WithField("league", league).Error("evaluation failed")
			continue
		}
		predictions = append(predictions, evaluated...)
	}

	if topFlag > 0 {
		predictions = service.TopEdges(predictions, topFlag)
	}
	return writeJSON(predictions, outputFlag)
}

func runServe() error {
	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled in configuration")
	}

	sched := scheduler.NewScheduler(cfg.Scheduler, cfg.OddsAPI.Leagues, ingestion, predictor, appLog)
	if err := sched.ScheduleJobs(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		Logger:      appLog,
		DB:          db,
	}
	if cfg.Metrics.Enabled {
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.Metrics = metrics.Handler()
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"leagues":     cfg.OddsAPI.Leagues,
		"environment": cfg.App.Environment,
	}).Info("Scheduler service started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	sched.Stop()
	cancel()

	// Give the health listener time to drain.
	time.Sleep(time.Second)
	appLog.Info("Scheduler service shut down")
	return nil
}

func writeJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
