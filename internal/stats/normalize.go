package stats

import (
	"github.com/yourusername/value-lines/internal/models"
)

// NormalizePayload reduces a detail payload to canonical field values for one side.
// Shots total is synthesized from on/off target when the source omits it.
func NormalizePayload(payload models.StatPayload, side models.Side) map[models.FieldName]float64 {
	var fields map[models.FieldName]float64
	switch p := payload.(type) {
	case models.TotalsPayload:
		fields = normalizeTotals(p, side)
	case *models.TotalsPayload:
		if p != nil {
			fields = normalizeTotals(*p, side)
		}
	case models.BucketedPayload:
		fields = normalizeBucketed(p, side)
	case *models.BucketedPayload:
		if p != nil {
			fields = normalizeBucketed(*p, side)
		}
	}
	if fields == nil {
		fields = make(map[models.FieldName]float64)
	}
	synthesizeShotsTotal(fields)
	return fields
}

func normalizeTotals(p models.TotalsPayload, side models.Side) map[models.FieldName]float64 {
	if side == models.SideAway {
		return resolveValues(p.Away)
	}
	return resolveValues(p.Home)
}

func normalizeBucketed(p models.BucketedPayload, side models.Side) map[models.FieldName]float64 {
	finals := make(map[string]float64, len(p.Series))
	for key, series := range p.Series {
		samples := series.Home
		if side == models.SideAway {
			samples = series.Away
		}
		if v, ok := latestValue(samples); ok {
			finals[key] = v
		}
	}
	return resolveValues(finals)
}

// latestValue returns the sample with the largest time marker; on equal
// markers the later sample in the slice wins.
func latestValue(samples []models.TimedValue) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	best := samples[0]
	for _, s := range samples[1:] {
		if s.Time >= best.Time {
			best = s
		}
	}
	return best.Value, true
}

// synthesizeShotsTotal fills shots_total from its components. A missing
// component counts as zero here and nowhere else.
func synthesizeShotsTotal(fields map[models.FieldName]float64) {
	if _, ok := fields[models.FieldShotsTotal]; ok {
		return
	}
	on, hasOn := fields[models.FieldShotsOnTarget]
	off, hasOff := fields[models.FieldShotsOffTarget]
	if !hasOn && !hasOff {
		return
	}
	fields[models.FieldShotsTotal] = on + off
}
