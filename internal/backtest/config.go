package backtest

import "fmt"

// Config holds the simulation parameters.
type Config struct {
	EVThreshold     float64 `mapstructure:"ev_threshold"`
	FlatStake       float64 `mapstructure:"flat_stake" validate:"gt=0"`
	WarmupRows      int     `mapstructure:"warmup_rows" validate:"gte=0"`
	InitialBankroll float64 `mapstructure:"initial_bankroll" validate:"gt=0"`
	ShrinkWeight    float64 `mapstructure:"shrink_weight" validate:"gte=0,lte=1"`
}

// DefaultConfig returns a flat-stake simulation over a $1000 bankroll with a
// short warmup for the rating books to settle.
func DefaultConfig() Config {
	return Config{
		EVThreshold:     0.02,
		FlatStake:       10,
		WarmupRows:      50,
		InitialBankroll: 1000,
		ShrinkWeight:    0.7,
	}
}

// Validate checks simulation parameters.
func (c Config) Validate() error {
	if c.FlatStake <= 0 {
		return fmt.Errorf("flat stake must be positive")
	}
	if c.WarmupRows < 0 {
		return fmt.Errorf("warmup rows cannot be negative")
	}
	if c.InitialBankroll <= 0 {
		return fmt.Errorf("initial bankroll must be positive")
	}
	if c.ShrinkWeight < 0 || c.ShrinkWeight > 1 {
		return fmt.Errorf("shrink weight must be between 0 and 1")
	}
	return nil
}
