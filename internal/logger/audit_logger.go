// Package logger provides audit logging for stored predictions.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger records prediction lifecycle events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionStored logs a prediction written to storage.
func (al *AuditLogger) LogPredictionStored(predictionID, fixtureID, field string, line float64, side string, probability float64) {
	al.WithFields(logrus.Fields{
		"event_type":    "prediction_stored",
		"prediction_id": predictionID,
		"fixture_id":    fixtureID,
		"field":         field,
		"line":          line,
		"side":          side,
		"probability":   probability,
	}).Info("Prediction stored")
}

// LogPredictionSettled logs a settlement against an actual stat value.
func (al *AuditLogger) LogPredictionSettled(predictionID string, actual float64, status string, settledAt time.Time) {
	al.WithFields(logrus.Fields{
		"event_type":    "prediction_settled",
		"prediction_id": predictionID,
		"actual_value":  actual,
		"status":        status,
		"settled_at":    settledAt.Format(time.RFC3339),
	}).Info("Prediction settled")
}
