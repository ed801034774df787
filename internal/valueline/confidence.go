package valueline

import "github.com/yourusername/value-lines/internal/models"

// ConfidencePolicy holds the sample and spread thresholds for each label
type ConfidencePolicy struct {
	HighMinSample   int     `mapstructure:"high_min_sample"`
	HighMaxStdDev   float64 `mapstructure:"high_max_std_dev"`
	MediumMinSample int     `mapstructure:"medium_min_sample"`
	MediumMaxStdDev float64 `mapstructure:"medium_max_std_dev"`
}

// DefaultConfidencePolicy returns the stock thresholds
func DefaultConfidencePolicy() ConfidencePolicy {
	return ConfidencePolicy{
		HighMinSample:   8,
		HighMaxStdDev:   2.0,
		MediumMinSample: 5,
		MediumMaxStdDev: 3.0,
	}
}

// Classify labels a distribution by sample size and spread
func (p ConfidencePolicy) Classify(sampleSize int, stddev float64) models.Confidence {
	switch {
	case sampleSize >= p.HighMinSample && stddev < p.HighMaxStdDev:
		return models.ConfidenceHigh
	case sampleSize >= p.MediumMinSample && stddev < p.MediumMaxStdDev:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func (p ConfidencePolicy) isZero() bool {
	return p == ConfidencePolicy{}
}
