package stats

import (
	"github.com/yourusername/value-lines/internal/models"
)

// Summarize folds present values per field into mean/min/max. Absent values
// are skipped rather than counted as zero; a field with no present values
// gets no entry at all.
func Summarize(records []models.NormalizedMatchRecord) models.TeamStatSummary {
	type acc struct {
		sum, min, max float64
		count         int
	}
	accs := make(map[models.FieldName]*acc)
	sample := 0

	for _, rec := range records {
		contributed := false
		for field, v := range rec.Fields {
			contributed = true
			a, ok := accs[field]
			if !ok {
				accs[field] = &acc{sum: v, min: v, max: v, count: 1}
				continue
			}
			a.sum += v
			a.count++
			if v < a.min {
				a.min = v
			}
			if v > a.max {
				a.max = v
			}
		}
		if contributed {
			sample++
		}
	}

	summary := models.TeamStatSummary{
		Fields:     make(map[models.FieldName]models.FieldSummary, len(accs)),
		SampleSize: sample,
	}
	for field, a := range accs {
		summary.Fields[field] = models.FieldSummary{
			Mean:  a.sum / float64(a.count),
			Min:   a.min,
			Max:   a.max,
			Count: a.count,
		}
	}
	return summary
}
