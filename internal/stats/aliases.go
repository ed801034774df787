// Package stats normalizes provider match statistics and aggregates them per team.
package stats

import (
	"strings"

	"github.com/yourusername/value-lines/internal/models"
)

// fieldAliases lists known provider keys per canonical field, in priority order
var fieldAliases = map[models.FieldName][]string{
	models.FieldShotsTotal:     {"shots_total", "total_shots", "shots", "totalshots"},
	models.FieldShotsOnTarget:  {"shots_on_target", "sot", "on_target", "shotsontarget", "shots_on_goal"},
	models.FieldShotsOffTarget: {"shots_off_target", "off_target", "shotsofftarget", "shots_off_goal"},
	models.FieldOffsides:       {"offsides", "offside"},
	models.FieldCorners:        {"corners", "corner_kicks", "cornerkicks", "corner"},
	models.FieldYellowCards:    {"yellow_cards", "yellowcards", "yellow", "yellow_card"},
	models.FieldRedCards:       {"red_cards", "redcards", "red", "red_card"},
}

// aliasIndex maps a normalized provider key to its canonical field and priority
var aliasIndex = buildAliasIndex()

type aliasEntry struct {
	field    models.FieldName
	priority int
}

func buildAliasIndex() map[string]aliasEntry {
	index := make(map[string]aliasEntry)
	for field, aliases := range fieldAliases {
		for i, alias := range aliases {
			index[alias] = aliasEntry{field: field, priority: i}
		}
	}
	return index
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ResolveField maps a provider key to its canonical field
func ResolveField(key string) (models.FieldName, bool) {
	entry, ok := aliasIndex[normalizeKey(key)]
	return entry.field, ok
}

// resolveValues maps provider-keyed values onto canonical fields. When several
// keys alias the same field the highest-priority alias wins. Unknown keys are dropped.
func resolveValues(values map[string]float64) map[models.FieldName]float64 {
	out := make(map[models.FieldName]float64, len(values))
	best := make(map[models.FieldName]int, len(values))
	for key, v := range values {
		entry, ok := aliasIndex[normalizeKey(key)]
		if !ok {
			continue
		}
		if prev, seen := best[entry.field]; seen && prev <= entry.priority {
			continue
		}
		best[entry.field] = entry.priority
		out[entry.field] = v
	}
	return out
}
