package stats

import (
	"github.com/yourusername/value-lines/internal/models"
)

// ExtractOffsides reads the offside count for a side from a match view
func ExtractOffsides(view *models.MatchView, side models.Side) (float64, bool) {
	if view == nil {
		return 0, false
	}
	for _, stat := range view.Statistics {
		field, ok := ResolveField(stat.Name)
		if !ok || field != models.FieldOffsides {
			continue
		}
		v := stat.Home
		if side == models.SideAway {
			v = stat.Away
		}
		if v == nil {
			return 0, false
		}
		return *v, true
	}
	return 0, false
}

// enrichOffsides overwrites the record's offside value from the view, if present
func enrichOffsides(fields map[models.FieldName]float64, view *models.MatchView, side models.Side) {
	if v, ok := ExtractOffsides(view, side); ok {
		fields[models.FieldOffsides] = v
	}
}
