// Package config provides configuration management for the odds edge engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Rating    RatingConfig    `mapstructure:"rating" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Props     PropsConfig     `mapstructure:"props" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// OddsAPIConfig represents the odds provider configuration
type OddsAPIConfig struct {
	BaseURL            string   `mapstructure:"base_url" validate:"required,url"`
	APIKey             string   `mapstructure:"api_key" validate:"required"`
	Regions            string   `mapstructure:"regions" validate:"required"`
	Leagues            []string `mapstructure:"leagues" validate:"required,min=1,leagues"`
	Bookmakers         []string `mapstructure:"bookmakers"`
	TimeoutSeconds     int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int      `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond float64  `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
}

// RatingConfig represents rating engine configuration. League presets apply
// unless UsePresets is false, in which case the explicit values are used for
// every league.
type RatingConfig struct {
	UsePresets    bool    `mapstructure:"use_presets"`
	InitialRating float64 `mapstructure:"initial_rating" validate:"required,gt=0"`
	KFactor       float64 `mapstructure:"k_factor" validate:"required,gt=0"`
	HomeAdvantage float64 `mapstructure:"home_advantage" validate:"gte=0"`
	HalfLifeDays  float64 `mapstructure:"half_life_days" validate:"gte=0"`
}

// StakingConfig represents edge qualification and staking configuration
type StakingConfig struct {
	ShrinkWeight     float64 `mapstructure:"shrink_weight" validate:"gte=0,lte=1"`
	KellyMultiplier  float64 `mapstructure:"kelly_multiplier" validate:"required,gt=0,lte=1"`
	MaxStakeFraction float64 `mapstructure:"max_stake_fraction" validate:"required,gt=0,lte=1"`
	Bankroll         float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	EdgeThreshold    float64 `mapstructure:"edge_threshold" validate:"gte=0"`
	MinSamples       int     `mapstructure:"min_samples" validate:"gte=0"`
}

// PropsConfig represents props analyzer configuration
type PropsConfig struct {
	MinGames      int     `mapstructure:"min_games" validate:"required,gt=0"`
	EdgeThreshold float64 `mapstructure:"edge_threshold" validate:"gte=0"`
	EVThreshold   float64 `mapstructure:"ev_threshold" validate:"gte=0"`
	ShrinkWeight  float64 `mapstructure:"shrink_weight" validate:"gte=0,lte=1"`
	KellyMult     float64 `mapstructure:"kelly_mult" validate:"required,gt=0,lte=1"`
	MaxStake      float64 `mapstructure:"max_stake" validate:"required,gt=0,lte=1"`
	Bankroll      float64 `mapstructure:"bankroll" validate:"required,gt=0"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate            string  `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string  `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	EVThreshold          float64 `mapstructure:"ev_threshold" validate:"gte=0"`
	FlatStake            float64 `mapstructure:"flat_stake" validate:"required,gt=0"`
	WarmupRows           int     `mapstructure:"warmup_rows" validate:"gte=0"`
	InitialBankroll      float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	WalkForwardWindows   int     `mapstructure:"walk_forward_windows" validate:"gte=0"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"gte=0"`
	OutputPath           string  `mapstructure:"output_path" validate:"required"`
}

// SchedulerConfig represents background job scheduling
type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ScoreSyncCron     string `mapstructure:"score_sync_cron" validate:"required"`
	RatingRebuildCron string `mapstructure:"rating_rebuild_cron" validate:"required"`
	OddsPollCron      string `mapstructure:"odds_poll_cron" validate:"required"`
}

// CacheConfig represents in-memory cache configuration
type CacheConfig struct {
	TTLSeconds             int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	CleanupIntervalSeconds int `mapstructure:"cleanup_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
