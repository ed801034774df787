// Package logger provides aggregation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AggregationLogger provides dedicated logging for team history aggregation.
type AggregationLogger struct {
	*logrus.Entry
}

// NewAggregationLogger creates a new aggregation logger.
func NewAggregationLogger(baseLogger *logrus.Logger) *AggregationLogger {
	return &AggregationLogger{
		Entry: baseLogger.WithField("component", "aggregation"),
	}
}

// LogFetchFailure logs a failed per-match fetch. The match is excluded, not retried.
func (al *AggregationLogger) LogFetchFailure(matchID, stage string, err error) {
	al.WithFields(logrus.Fields{
		"match_id": matchID,
		"stage":    stage,
	}).WithError(err).Warn("Match fetch failed, excluding from history")
}

// LogDefaultedAttribution logs a match whose side could not be resolved from id or name.
func (al *AggregationLogger) LogDefaultedAttribution(matchID, teamID, teamName string) {
	al.WithFields(logrus.Fields{
		"match_id":  matchID,
		"team_id":   teamID,
		"team_name": teamName,
		"side":      "home",
	}).Warn("Side attribution inconclusive, defaulted to home")
}

// LogAggregation logs a completed aggregation.
func (al *AggregationLogger) LogAggregation(teamID, teamName string, matches, records, failures int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"team_id":     teamID,
		"team_name":   teamName,
		"matches":     matches,
		"records":     records,
		"failures":    failures,
		"duration_ms": durationMs,
	}).Info("Team history aggregated")
}

// LogCacheAccess logs a fetch cache lookup.
func (al *AggregationLogger) LogCacheAccess(stage, matchID string, hit bool) {
	al.WithFields(logrus.Fields{
		"stage":     stage,
		"match_id":  matchID,
		"cache_hit": hit,
	}).Debug("Fetch cache lookup")
}
