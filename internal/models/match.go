package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TeamIdentity identifies the team whose history is being aggregated.
// ID is preferred; Name is matched case-insensitively as a fallback.
type TeamIdentity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Score is a final match score
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// RawMatchRef is a historical match as listed by an upstream source
type RawMatchRef struct {
	ID           string    `json:"id"`
	HomeTeamID   string    `json:"home_team_id"`
	HomeTeamName string    `json:"home_team_name"`
	AwayTeamID   string    `json:"away_team_id"`
	AwayTeamName string    `json:"away_team_name"`
	StartTime    time.Time `json:"start_time"`
	FinalScore   *Score    `json:"final_score,omitempty"`
}

// StatPayload is the per-match statistics payload returned by a detail fetch.
// It is either a TotalsPayload or a BucketedPayload.
type StatPayload interface {
	statPayload()
}

// TotalsPayload carries final totals keyed by provider field name
type TotalsPayload struct {
	Home map[string]float64 `json:"home"`
	Away map[string]float64 `json:"away"`
}

func (TotalsPayload) statPayload() {}

// BucketedPayload carries time-bucketed samples keyed by provider field name
type BucketedPayload struct {
	Series map[string]BucketSeries `json:"series"`
}

func (BucketedPayload) statPayload() {}

// BucketSeries holds parallel home/away samples for one field
type BucketSeries struct {
	Home []TimedValue `json:"home"`
	Away []TimedValue `json:"away"`
}

// TimedValue is a cumulative sample at a match-clock marker
type TimedValue struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// UnmarshalJSON accepts numbers or numeric strings for both members.
// Stoppage markers such as "90+3" read as 93 and "55%" reads as 55.
func (tv *TimedValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Time  json.RawMessage `json:"time"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := parseMarker(raw.Time)
	if err != nil {
		return fmt.Errorf("invalid time marker: %w", err)
	}
	v, err := parseMarker(raw.Value)
	if err != nil {
		return fmt.Errorf("invalid sample value: %w", err)
	}
	tv.Time = t
	tv.Value = v
	return nil
}

func parseMarker(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimRight(s, "'%"))
	total := 0.0
	for _, part := range strings.Split(s, "+") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, err
		}
		total += f
	}
	return total, nil
}

// MatchView is the full per-match payload used to source offside counts
type MatchView struct {
	MatchID    string          `json:"match_id"`
	Statistics []ViewStatistic `json:"statistics"`
}

// ViewStatistic is one named statistic row of a match view
type ViewStatistic struct {
	Name string   `json:"name"`
	Home *float64 `json:"home"`
	Away *float64 `json:"away"`
}

// NormalizedMatchRecord is one historical match seen from the tracked team's side
type NormalizedMatchRecord struct {
	MatchID      string                `json:"match_id"`
	Side         Side                  `json:"side"`
	Attribution  Attribution           `json:"attribution"`
	OccurredAt   time.Time             `json:"occurred_at"`
	OpponentName string                `json:"opponent_name"`
	FinalScore   *Score                `json:"final_score,omitempty"`
	Fields       map[FieldName]float64 `json:"fields"`
}

// Value returns a field value and whether it was present
func (r NormalizedMatchRecord) Value(field FieldName) (float64, bool) {
	v, ok := r.Fields[field]
	return v, ok
}

// Fixture is an upcoming match to price
type Fixture struct {
	ID        string       `json:"id"`
	Home      TeamIdentity `json:"home"`
	Away      TeamIdentity `json:"away"`
	StartTime time.Time    `json:"start_time"`
}
