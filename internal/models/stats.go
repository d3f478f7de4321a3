package models

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// StatType is the closed set of player statistics the engine understands.
// Ingestion must map provider keys through ParseStatType; unknown keys are
// rejected instead of defaulting to zero.
type StatType int

const (
	// Basketball
	StatPoints StatType = iota
	StatRebounds
	StatAssists
	StatThrees
	StatSteals
	StatBlocks
	StatPtsRebAst
	StatPtsReb
	StatPtsAst
	StatRebAst

	// Football
	StatPassingYards
	StatPassingTDs
	StatRushingYards
	StatRushingTDs
	StatReceivingYards
	StatReceptions
	StatReceivingTDs

	// Hockey
	StatGoals
	StatShots
	StatSaves
)

var statNames = map[StatType]string{
	StatPoints:         "points",
	StatRebounds:       "rebounds",
	StatAssists:        "assists",
	StatThrees:         "threes",
	StatSteals:         "steals",
	StatBlocks:         "blocks",
	StatPtsRebAst:      "pts_reb_ast",
	StatPtsReb:         "pts_reb",
	StatPtsAst:         "pts_ast",
	StatRebAst:         "reb_ast",
	StatPassingYards:   "passing_yards",
	StatPassingTDs:     "passing_tds",
	StatRushingYards:   "rushing_yards",
	StatRushingTDs:     "rushing_tds",
	StatReceivingYards: "receiving_yards",
	StatReceptions:     "receptions",
	StatReceivingTDs:   "receiving_tds",
	StatGoals:          "goals",
	StatShots:          "shots",
	StatSaves:          "saves",
}

var statByName = func() map[string]StatType {
	m := make(map[string]StatType, len(statNames))
	for st, name := range statNames {
		m[name] = st
	}
	return m
}()

// String returns the canonical wire key for the stat.
func (s StatType) String() string {
	if name, ok := statNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stat(%d)", int(s))
}

// MarshalJSON serializes the stat as its wire key.
func (s StatType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the canonical wire key back into a StatType.
func (s *StatType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, err := ParseStatType(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseStatType maps a provider stat key to a StatType.
func ParseStatType(raw string) (StatType, error) {
	if st, ok := statByName[raw]; ok {
		return st, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, raw)
}

// PlayerGameLog is a single game performance for a player.
type PlayerGameLog struct {
	GameID   string               `db:"game_id" json:"game_id"`
	Date     time.Time            `db:"date" json:"date"`
	Opponent string               `db:"opponent" json:"opponent"`
	IsHome   bool                 `db:"is_home" json:"is_home"`
	Minutes  float64              `db:"minutes" json:"minutes"`
	Stats    map[StatType]float64 `json:"stats"`
}

// Stat returns the logged value for a stat, zero when the game has none.
func (l *PlayerGameLog) Stat(st StatType) float64 {
	return l.Stats[st]
}

// PlayerStats aggregates a player's ordered game log for analysis.
// GameLogs must be sorted ascending by date.
type PlayerStats struct {
	PlayerID   string          `json:"player_id"`
	PlayerName string          `json:"player_name"`
	Team       string          `json:"team"`
	League     string          `json:"league"`
	Position   string          `json:"position"`
	GameLogs   []PlayerGameLog `json:"game_logs"`
}

// GamesPlayed returns the number of logged games.
func (p *PlayerStats) GamesPlayed() int {
	return len(p.GameLogs)
}

func (p *PlayerStats) window(lastN int) []PlayerGameLog {
	if lastN <= 0 || lastN >= len(p.GameLogs) {
		return p.GameLogs
	}
	return p.GameLogs[len(p.GameLogs)-lastN:]
}

// StatAverage returns the mean of a stat over the last N games (all games
// when lastN <= 0).
func (p *PlayerStats) StatAverage(st StatType, lastN int) float64 {
	logs := p.window(lastN)
	if len(logs) == 0 {
		return 0
	}
	sum := 0.0
	for i := range logs {
		sum += logs[i].Stat(st)
	}
	return sum / float64(len(logs))
}

// StatMedian returns the median of a stat over the last N games.
func (p *PlayerStats) StatMedian(st StatType, lastN int) float64 {
	logs := p.window(lastN)
	if len(logs) == 0 {
		return 0
	}
	values := make([]float64, len(logs))
	for i := range logs {
		values[i] = logs[i].Stat(st)
	}
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// HitRate returns the fraction of the last N games where the stat exceeded
// the line.
func (p *PlayerStats) HitRate(st StatType, line float64, lastN int) float64 {
	logs := p.window(lastN)
	if len(logs) == 0 {
		return 0
	}
	hits := 0
	for i := range logs {
		if logs[i].Stat(st) > line {
			hits++
		}
	}
	return float64(hits) / float64(len(logs))
}

// StatStd returns the population standard deviation of a stat over the last
// N games. Fewer than two games yields zero.
func (p *PlayerStats) StatStd(st StatType, lastN int) float64 {
	logs := p.window(lastN)
	if len(logs) < 2 {
		return 0
	}
	avg := 0.0
	for i := range logs {
		avg += logs[i].Stat(st)
	}
	avg /= float64(len(logs))
	variance := 0.0
	for i := range logs {
		d := logs[i].Stat(st) - avg
		variance += d * d
	}
	variance /= float64(len(logs))
	return math.Sqrt(variance)
}

// VsOpponent returns stat values from games against a specific opponent.
func (p *PlayerStats) VsOpponent(st StatType, opponent string) []float64 {
	var values []float64
	for i := range p.GameLogs {
		if p.GameLogs[i].Opponent == opponent {
			values = append(values, p.GameLogs[i].Stat(st))
		}
	}
	return values
}

// SplitAverages returns the home and away averages for a stat. A nil value
// means no games on that side of the split.
func (p *PlayerStats) SplitAverages(st StatType) (home, away *float64) {
	var homeSum, awaySum float64
	var homeN, awayN int
	for i := range p.GameLogs {
		if p.GameLogs[i].IsHome {
			homeSum += p.GameLogs[i].Stat(st)
			homeN++
		} else {
			awaySum += p.GameLogs[i].Stat(st)
			awayN++
		}
	}
	if homeN > 0 {
		v := homeSum / float64(homeN)
		home = &v
	}
	if awayN > 0 {
		v := awaySum / float64(awayN)
		away = &v
	}
	return home, away
}
