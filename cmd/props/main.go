// Package main provides the player prop analysis CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/database"
	"github.com/yourusername/oddsedge/internal/logger"
	"github.com/yourusername/oddsedge/internal/models"
	"github.com/yourusername/oddsedge/internal/props"
	"github.com/yourusername/oddsedge/internal/repository"
)

var (
	configFile string
	inputFile  string
	outputFile string
	topFlag    int
	byStake    bool

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON file of prop lines to analyze (required)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write edges JSON to a file instead of stdout")
	rootCmd.Flags().IntVarP(&topFlag, "top", "n", 10, "Keep only the top N edges")
	rootCmd.Flags().BoolVar(&byStake, "by-stake", false, "Rank edges by stake-weighted EV instead of raw EV")
	rootCmd.MarkFlagRequired("input")
	importCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON file of player game logs to import (required)")
	importCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(importCmd)
}

var rootCmd = &cobra.Command{
	Use:   "props",
	Short: "Analyze player prop lines against stored game logs",
	Long:  `Reads a JSON file of prop lines, projects each player's stat from the stored game logs, and prints the priced edges as JSON.`,
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
		if db != nil {
			db.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context())
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import player game logs from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context())
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
	return err
}

func runAnalyze(ctx context.Context) error {
	propBets, err := readProps(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read props: %w", err)
	}

	statsByPlayer := make(map[string]*models.PlayerStats)
	for _, prop := range propBets {
		if _, ok := statsByPlayer[prop.PlayerID]; ok {
			continue
		}
		stats, err := repos.GameLogs.GetByPlayerID(ctx, prop.PlayerID)
		if err != nil {
			appLog.WithError(err).WithField("player", prop.PlayerName).Warn("no game logs for player")
			continue
		}
		statsByPlayer[prop.PlayerID] = stats
	}

	analyzer := props.NewAnalyzer(propsConfig(cfg), appLog)
	edges := analyzer.AnalyzeProps(propBets, statsByPlayer)

	var best []*models.PropEdge
	if byStake {
		best = analyzer.BestEdgesByStake(edges, cfg.Props.EdgeThreshold, cfg.Props.EVThreshold, topFlag)
	} else {
		best = analyzer.BestEdges(edges, cfg.Props.EdgeThreshold, cfg.Props.EVThreshold, topFlag)
	}

	appLog.WithFields(logrus.Fields{
		"props":    len(propBets),
		"analyzed": len(edges),
		"edges":    len(best),
	}).Info("prop analysis complete")

	return writeJSON(best, outputFile)
}

func runImport(ctx context.Context) error {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return err
	}
	var players []*models.PlayerStats
	if err := json.Unmarshal(data, &players); err != nil {
		return fmt.Errorf("failed to parse game logs: %w", err)
	}

	imported := 0
	for _, player := range players {
		sort.Slice(player.GameLogs, func(i, j int) bool {
			return player.GameLogs[i].Date.Before(player.GameLogs[j].Date)
		})
		if err := repos.GameLogs.UpsertPlayer(ctx, player); err != nil {
			appLog.WithError(err).WithField("player", player.PlayerName).Warn("failed to import player")
			continue
		}
		imported++
	}

	appLog.WithFields(logrus.Fields{
		"players":  len(players),
		"imported": imported,
	}).Info("game log import complete")
	return nil
}

func readProps(path string) ([]*models.PropBet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var propBets []*models.PropBet
	if err := json.Unmarshal(data, &propBets); err != nil {
		return nil, err
	}
	return propBets, nil
}

func propsConfig(cfg *config.Config) props.Config {
	out := props.DefaultConfig()
	out.MinGames = cfg.Props.MinGames
	out.EdgeThreshold = cfg.Props.EdgeThreshold
	out.EVThreshold = cfg.Props.EVThreshold
	out.ShrinkWeight = cfg.Props.ShrinkWeight
	out.KellyMult = cfg.Props.KellyMult
	out.MaxStake = cfg.Props.MaxStake
	out.Bankroll = cfg.Props.Bankroll
	return out
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
