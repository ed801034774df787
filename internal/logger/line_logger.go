// Package logger provides value-line logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// LineLogger provides dedicated logging for line selection.
type LineLogger struct {
	*logrus.Entry
}

// NewLineLogger creates a new line logger.
func NewLineLogger(baseLogger *logrus.Logger) *LineLogger {
	return &LineLogger{
		Entry: baseLogger.WithField("component", "value_line"),
	}
}

// LogLineSelected logs a recommendation chosen for a field.
func (ll *LineLogger) LogLineSelected(field string, line float64, side string, probability, fairOdds float64, sampleSize int, confidence string) {
	ll.WithFields(logrus.Fields{
		"field":       field,
		"line":        line,
		"side":        side,
		"probability": probability,
		"fair_odds":   fairOdds,
		"sample_size": sampleSize,
		"confidence":  confidence,
	}).Info("Value line selected")
}

// LogFieldSkipped logs a field that produced no recommendation.
func (ll *LineLogger) LogFieldSkipped(field, reason string, sampleSize int) {
	ll.WithFields(logrus.Fields{
		"field":       field,
		"reason":      reason,
		"sample_size": sampleSize,
	}).Debug("No value line for field")
}

// LogRanking logs the outcome of a multi-field run.
func (ll *LineLogger) LogRanking(fieldsEvaluated, recommendations int, durationMs float64) {
	ll.WithFields(logrus.Fields{
		"fields_evaluated": fieldsEvaluated,
		"recommendations":  recommendations,
		"duration_ms":      durationMs,
	}).Info("Value lines ranked")
}
