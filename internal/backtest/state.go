package backtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/oddsedge/internal/models"
)

// LedgerEntry records one placed bet and the bankroll after settlement.
type LedgerEntry struct {
	GameID        uuid.UUID   `json:"game_id"`
	Date          time.Time   `json:"date"`
	League        string      `json:"league"`
	Side          models.Side `json:"side"`
	DecimalOdds   float64     `json:"decimal_odds"`
	ModelProb     float64     `json:"model_prob"`
	EV            float64     `json:"ev"`
	Stake         float64     `json:"stake"`
	Won           bool        `json:"won"`
	Profit        float64     `json:"profit"`
	BankrollAfter float64     `json:"bankroll_after"`
}

// State is the running account of a simulation: bankroll, peak, realized
// dollar drawdown and the per-bet ledger. Bankroll values are sampled only at
// placed bets, never at skipped rows.
type State struct {
	Bankroll    float64
	Peak        float64
	MaxDrawdown float64
	Ledger      []LedgerEntry
	Curve       EquityCurve

	RowsSeen      int
	RowsWarmup    int
	RowsNoQuote   int
	RowsUnsettled int
	RowsBadMarket int
	RowsNoBet     int
}

// NewState initializes simulation state at the starting bankroll.
func NewState(initialBankroll float64) *State {
	return &State{
		Bankroll: initialBankroll,
		Peak:     initialBankroll,
	}
}

// Settle applies one placed bet: bankroll moves by the entry's profit, the
// peak and dollar drawdown update, and the entry lands on the ledger.
func (s *State) Settle(entry LedgerEntry) {
	s.Bankroll += entry.Profit
	if s.Bankroll > s.Peak {
		s.Peak = s.Bankroll
	}
	if dd := s.Peak - s.Bankroll; dd > s.MaxDrawdown {
		s.MaxDrawdown = dd
	}
	entry.BankrollAfter = s.Bankroll
	s.Ledger = append(s.Ledger, entry)
	s.Curve = append(s.Curve, EquityPoint{
		Time:     entry.Date,
		Value:    s.Bankroll,
		Drawdown: s.Peak - s.Bankroll,
	})
}
