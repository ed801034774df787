package models

import "fmt"

// FieldName identifies a tracked per-match count statistic
type FieldName string

// Canonical tracked fields
const (
	FieldShotsTotal     FieldName = "shots_total"
	FieldShotsOnTarget  FieldName = "shots_on_target"
	FieldShotsOffTarget FieldName = "shots_off_target"
	FieldOffsides       FieldName = "offsides"
	FieldCorners        FieldName = "corners"
	FieldYellowCards    FieldName = "yellow_cards"
	FieldRedCards       FieldName = "red_cards"
)

// TrackedFields returns every canonical field in display order
func TrackedFields() []FieldName {
	return []FieldName{
		FieldShotsTotal,
		FieldShotsOnTarget,
		FieldShotsOffTarget,
		FieldOffsides,
		FieldCorners,
		FieldYellowCards,
		FieldRedCards,
	}
}

// ParseFieldName validates a field name against the tracked set
func ParseFieldName(s string) (FieldName, error) {
	for _, f := range TrackedFields() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Side is the participant slot a team occupied in a match
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideAway {
		return SideHome
	}
	return SideAway
}

// Attribution records how a side was resolved for a match
type Attribution string

const (
	AttributionID      Attribution = "id"
	AttributionName    Attribution = "name"
	AttributionDefault Attribution = "default"
)

// Direction is the over/under side of a line
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// Confidence is a coarse reliability label for a recommendation
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
