package valueline

import (
	"math"
	"sort"

	"github.com/yourusername/value-lines/internal/models"
)

// sideStats is the per-side estimate for one field
type sideStats struct {
	weighted float64
	simple   float64
	stddev   float64
	count    int
}

// presentValues returns a field's values newest first. Records are ordered by
// OccurredAt descending with a stable sort so input order breaks ties; the
// age of a value is its position among present values only.
func presentValues(records []models.NormalizedMatchRecord, field models.FieldName) []float64 {
	ordered := make([]models.NormalizedMatchRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.After(ordered[j].OccurredAt)
	})

	values := make([]float64, 0, len(ordered))
	for _, rec := range ordered {
		if v, ok := rec.Value(field); ok {
			values = append(values, v)
		}
	}
	return values
}

// describe folds newest-first values into weighted mean, simple mean and
// population stddev. Empty input yields the zero value.
func describe(values []float64, decay float64) sideStats {
	if len(values) == 0 {
		return sideStats{}
	}

	var sum, weightedSum, weightTotal float64
	weight := 1.0
	for _, v := range values {
		sum += v
		weightedSum += v * weight
		weightTotal += weight
		weight *= decay
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}

	return sideStats{
		weighted: weightedSum / weightTotal,
		simple:   mean,
		stddev:   math.Sqrt(sq / float64(len(values))),
		count:    len(values),
	}
}

// Combine models the match total for a field from both sides' histories
func Combine(home, away []models.NormalizedMatchRecord, field models.FieldName, opts Options) models.CombinedFieldDistribution {
	opts = opts.withDefaults()
	share := opts.weightedShare()
	h := describe(presentValues(home, field), opts.DecayFactor)
	a := describe(presentValues(away, field), opts.DecayFactor)

	weightedSum := h.weighted + a.weighted
	simpleSum := h.simple + a.simple
	mean := share*weightedSum + (1-share)*simpleSum

	return models.CombinedFieldDistribution{
		Field:           field,
		PredictedMean:   mean,
		PredictedStdDev: math.Sqrt(h.stddev*h.stddev + a.stddev*a.stddev),
		HomeMean:        share*h.weighted + (1-share)*h.simple,
		AwayMean:        share*a.weighted + (1-share)*a.simple,
		SampleSize:      h.count + a.count,
	}
}
