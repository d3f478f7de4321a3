// Package config provides configuration management for the odds edge engine.
package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	expansionConfigMissingPath = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
)

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.App.Name != "oddsedge" {
		t.Errorf("expected app name 'oddsedge', got '%s'", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got '%s'", cfg.App.Environment)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}
	if len(cfg.OddsAPI.Leagues) != 3 {
		t.Errorf("expected 3 configured leagues, got %d", len(cfg.OddsAPI.Leagues))
	}
	if cfg.Staking.KellyMultiplier != 0.25 {
		t.Errorf("expected kelly multiplier 0.25, got %v", cfg.Staking.KellyMultiplier)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("ODDSEDGE_APP_NAME", "test-app")
	defer os.Unsetenv("ODDSEDGE_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.App.Name != "test-app" {
		t.Errorf("expected app name 'test-app' from environment, got '%s'", cfg.App.Name)
	}
}

func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

func TestValidateInvalidLeagues(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.OddsAPI.Leagues = []string{"CURLING"}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for unsupported league")
	}
	if !strings.Contains(err.Error(), "league") && !strings.Contains(err.Error(), "Leagues") {
		t.Errorf("expected league validation error, got: %v", err)
	}

	cfg.OddsAPI.Leagues = nil
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for empty leagues")
	}
}

func TestValidateBacktestDateRange(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Backtest.StartDate = "2025-04-15"
	cfg.Backtest.EndDate = "2024-10-01"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for inverted date range")
	}
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for disabled SSL in production")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected DSN to start with 'postgres://', got '%s'", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected DSN to carry the ssl mode, got '%s'", dsn)
	}
}

func TestEnvironmentChecks(t *testing.T) {
	dev := &Config{App: AppConfig{Environment: "development"}}
	if !dev.IsDevelopment() || dev.IsProduction() || dev.IsStaging() {
		t.Error("development environment misclassified")
	}

	prod := &Config{App: AppConfig{Environment: "production"}}
	if !prod.IsProduction() || prod.IsDevelopment() {
		t.Error("production environment misclassified")
	}
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}
	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected expanded password, got '%s'", cfg.Database.Password)
	}
}

func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv("TEST_MISSING_VAR")

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}
	// os.ExpandEnv replaces unset variables with the empty string.
	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for missing env var, got %q", cfg.Database.Password)
	}
}
