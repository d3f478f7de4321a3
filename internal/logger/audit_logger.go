// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for betting recommendations
// and model state changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogEdgeRecommendation logs a qualified betting recommendation.
func (al *AuditLogger) LogEdgeRecommendation(gameID, league, side string, ev, edgePct, stakeFraction, stakeDollars float64, confidence string) {
	al.WithFields(logrus.Fields{
		"game_id":        gameID,
		"league":         league,
		"side":           side,
		"ev":             ev,
		"edge_pct":       edgePct,
		"stake_fraction": stakeFraction,
		"stake_dollars":  stakeDollars,
		"confidence":     confidence,
	}).Info("Edge recommendation recorded")
}

// LogModelRebuild logs a league model rebuild.
func (al *AuditLogger) LogModelRebuild(league string, samples, participants int, threeWay, fight bool) {
	al.WithFields(logrus.Fields{
		"league":       league,
		"samples":      samples,
		"participants": participants,
		"three_way":    threeWay,
		"fight":        fight,
	}).Info("League model rebuilt")
}

// LogScoreSettlement logs a final score being recorded for a game.
func (al *AuditLogger) LogScoreSettlement(gameID, league string, homeScore, awayScore float64) {
	al.WithFields(logrus.Fields{
		"game_id":    gameID,
		"league":     league,
		"home_score": homeScore,
		"away_score": awayScore,
	}).Info("Final score recorded")
}
