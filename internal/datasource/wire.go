package datasource

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/value-lines/internal/models"
)

// flexID accepts identifiers sent as JSON strings or numbers
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = flexID(n.String())
	return nil
}

func (id flexID) String() string {
	return string(id)
}

// wireTeam is a team reference as sent by the provider
type wireTeam struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

func (t wireTeam) identity() models.TeamIdentity {
	return models.TeamIdentity{ID: t.ID.String(), Name: t.Name}
}

// wireMatch is one entry of a team's match list
type wireMatch struct {
	ID        flexID        `json:"id"`
	HomeTeam  wireTeam      `json:"homeTeam"`
	AwayTeam  wireTeam      `json:"awayTeam"`
	StartTime string        `json:"startTime"`
	Score     *models.Score `json:"score"`
}

func (m wireMatch) toRef() (models.RawMatchRef, error) {
	start, err := parseTime(m.StartTime)
	if err != nil {
		return models.RawMatchRef{}, fmt.Errorf("match %s: %w", m.ID, err)
	}
	return models.RawMatchRef{
		ID:           m.ID.String(),
		HomeTeamID:   m.HomeTeam.ID.String(),
		HomeTeamName: m.HomeTeam.Name,
		AwayTeamID:   m.AwayTeam.ID.String(),
		AwayTeamName: m.AwayTeam.Name,
		StartTime:    start,
		FinalScore:   m.Score,
	}, nil
}

// wireFixture is an upcoming match
type wireFixture struct {
	ID        flexID   `json:"id"`
	HomeTeam  wireTeam `json:"homeTeam"`
	AwayTeam  wireTeam `json:"awayTeam"`
	StartTime string   `json:"startTime"`
}

func (f wireFixture) toFixture() (*models.Fixture, error) {
	start, err := parseTime(f.StartTime)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.ID, err)
	}
	return &models.Fixture{
		ID:        f.ID.String(),
		Home:      f.HomeTeam.identity(),
		Away:      f.AwayTeam.identity(),
		StartTime: start,
	}, nil
}

// wireDetail holds either time-bucketed trends or final totals
type wireDetail struct {
	Trends map[string]json.RawMessage `json:"trends"`
	Totals *struct {
		Home map[string]json.RawMessage `json:"home"`
		Away map[string]json.RawMessage `json:"away"`
	} `json:"totals"`
}

// decodeDetail picks the payload variant by which member is present.
// Trends win when both are sent.
func decodeDetail(data []byte) (models.StatPayload, error) {
	var w wireDetail
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch {
	case w.Trends != nil:
		return models.BucketedPayload{Series: trendSeries(w.Trends)}, nil
	case w.Totals != nil:
		return models.TotalsPayload{
			Home: numericValues(w.Totals.Home),
			Away: numericValues(w.Totals.Away),
		}, nil
	default:
		return nil, fmt.Errorf("payload has neither trends nor totals")
	}
}

// trendSeries decodes each series on its own. A series with a sample that
// does not parse is dropped; the rest of the payload stays usable.
func trendSeries(raw map[string]json.RawMessage) map[string]models.BucketSeries {
	out := make(map[string]models.BucketSeries, len(raw))
	for name, data := range raw {
		var series models.BucketSeries
		if err := json.Unmarshal(data, &series); err != nil {
			continue
		}
		out[name] = series
	}
	return out
}

// wireView is the provider's full match view
type wireView struct {
	ID         flexID `json:"id"`
	Statistics []struct {
		Name string          `json:"name"`
		Home json.RawMessage `json:"home"`
		Away json.RawMessage `json:"away"`
	} `json:"statistics"`
}

func decodeView(data []byte) (*models.MatchView, error) {
	var w wireView
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	view := &models.MatchView{
		MatchID:    w.ID.String(),
		Statistics: make([]models.ViewStatistic, 0, len(w.Statistics)),
	}
	for _, s := range w.Statistics {
		stat := models.ViewStatistic{Name: s.Name}
		if v, ok := parseNumber(s.Home); ok {
			stat.Home = &v
		}
		if v, ok := parseNumber(s.Away); ok {
			stat.Away = &v
		}
		view.Statistics = append(view.Statistics, stat)
	}
	return view, nil
}

// numericValues keeps entries that parse as numbers, dropping the rest
func numericValues(raw map[string]json.RawMessage) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		if f, ok := parseNumber(v); ok {
			out[k] = f
		}
	}
	return out
}

// parseNumber accepts JSON numbers and numeric strings, with an optional
// trailing percent sign.
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseTime(s string) (time.Time, error) {
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q", s)
	}
	return t, nil
}
