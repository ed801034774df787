package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-lines/internal/models"
)

func TestResolveField(t *testing.T) {
	tests := []struct {
		key   string
		field models.FieldName
		ok    bool
	}{
		{key: "shots_on_target", field: models.FieldShotsOnTarget, ok: true},
		{key: "SOT", field: models.FieldShotsOnTarget, ok: true},
		{key: " on_target ", field: models.FieldShotsOnTarget, ok: true},
		{key: "cornerKicks", field: models.FieldCorners, ok: true},
		{key: "offside", field: models.FieldOffsides, ok: true},
		{key: "possession", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			field, ok := ResolveField(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestNormalizeTotalsUsesAliasPriority(t *testing.T) {
	payload := models.TotalsPayload{
		Home: map[string]float64{"on_target": 3, "shots_on_target": 5, "corners": 6, "possession": 55},
		Away: map[string]float64{"sot": 2, "corner_kicks": 4, "yellow": 1},
	}

	home := NormalizePayload(payload, models.SideHome)
	assert.Equal(t, 5.0, home[models.FieldShotsOnTarget])
	assert.Equal(t, 6.0, home[models.FieldCorners])
	assert.Len(t, home, 3, "possession dropped, shots_total synthesized")

	away := NormalizePayload(payload, models.SideAway)
	assert.Equal(t, 2.0, away[models.FieldShotsOnTarget])
	assert.Equal(t, 4.0, away[models.FieldCorners])
	assert.Equal(t, 1.0, away[models.FieldYellowCards])
}

func TestNormalizeBucketedTakesLatestSample(t *testing.T) {
	payload := models.BucketedPayload{Series: map[string]models.BucketSeries{
		"corners": {
			Home: []models.TimedValue{{Time: 10, Value: 1}, {Time: 90, Value: 7}, {Time: 45, Value: 3}},
			Away: []models.TimedValue{{Time: 90, Value: 2}, {Time: 90, Value: 5}},
		},
		"yellow_cards": {
			Home: nil,
			Away: []models.TimedValue{{Time: 60, Value: 2}},
		},
	}}

	home := NormalizePayload(payload, models.SideHome)
	assert.Equal(t, 7.0, home[models.FieldCorners])
	_, hasYellow := home[models.FieldYellowCards]
	assert.False(t, hasYellow)

	away := NormalizePayload(payload, models.SideAway)
	assert.Equal(t, 5.0, away[models.FieldCorners], "equal markers resolve to the later sample")
	assert.Equal(t, 2.0, away[models.FieldYellowCards])
}

func TestSynthesizeShotsTotal(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]float64
		expected float64
		present  bool
	}{
		{name: "both components", values: map[string]float64{"sot": 4, "off_target": 6}, expected: 10, present: true},
		{name: "only on target", values: map[string]float64{"sot": 4}, expected: 4, present: true},
		{name: "supplied directly", values: map[string]float64{"shots": 12, "sot": 4, "off_target": 6}, expected: 12, present: true},
		{name: "no components", values: map[string]float64{"corners": 4}, present: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := NormalizePayload(models.TotalsPayload{Home: tt.values}, models.SideHome)
			v, ok := fields[models.FieldShotsTotal]
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.expected, v)
			if _, hasOff := tt.values["off_target"]; !hasOff {
				_, ok := fields[models.FieldShotsOffTarget]
				assert.False(t, ok, "missing component must stay absent")
			}
		})
	}
}

func TestNormalizeNilPayload(t *testing.T) {
	fields := NormalizePayload(nil, models.SideHome)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestTimedValueAcceptsStringMarkers(t *testing.T) {
	var samples []models.TimedValue
	err := json.Unmarshal([]byte(`[{"time":"45","value":3},{"time":"90+3","value":"6"},{"time":12.5,"value":1}]`), &samples)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, 93.0, samples[1].Time)
	assert.Equal(t, 6.0, samples[1].Value)

	v, ok := latestValue(samples)
	assert.True(t, ok)
	assert.Equal(t, 6.0, v)
}

func TestExtractOffsides(t *testing.T) {
	home, away := 3.0, 1.0
	view := &models.MatchView{Statistics: []models.ViewStatistic{
		{Name: "Possession"},
		{Name: "Offsides", Home: &home, Away: &away},
	}}

	v, ok := ExtractOffsides(view, models.SideHome)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = ExtractOffsides(view, models.SideAway)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = ExtractOffsides(nil, models.SideHome)
	assert.False(t, ok)
}
