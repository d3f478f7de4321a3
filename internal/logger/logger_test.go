package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("noisy")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestWithComponent(t *testing.T) {
	log, buf := setupTestLogger()

	WithComponent(log, "ingestion").Info("poll complete")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ingestion", logEntry["component"])
	assert.Equal(t, "poll complete", logEntry["msg"])
}

func TestAuditLoggerEdgeRecommendation(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogEdgeRecommendation(
		"7a1d9c1e-0000-0000-0000-000000000001",
		"NBA",
		"home",
		0.056,
		4.2,
		0.0125,
		12.50,
		"MEDIUM",
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "NBA", logEntry["league"])
	assert.Equal(t, "home", logEntry["side"])
	assert.InDelta(t, 4.2, logEntry["edge_pct"], 1e-9)
}

func TestAuditLoggerModelRebuild(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogModelRebuild("EPL", 380, 20, true, false)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "EPL", logEntry["league"])
	assert.Equal(t, float64(380), logEntry["samples"])
	assert.Equal(t, true, logEntry["three_way"])
}

func TestAuditLoggerScoreSettlement(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogScoreSettlement("game-1", "NHL", 4, 2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "game-1", logEntry["game_id"])
	assert.Equal(t, float64(4), logEntry["home_score"])
}

func BenchmarkAuditLoggerEdgeRecommendation(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.SetFormatter(&logrus.JSONFormatter{})
	auditLogger := NewAuditLogger(log)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		auditLogger.LogEdgeRecommendation("game-1", "NBA", "home", 0.05, 4.2, 0.0125, 12.50, "MEDIUM")
	}
}
