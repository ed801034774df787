package models

// FieldSummary holds the fold of present values for one field
type FieldSummary struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// TeamStatSummary aggregates normalized records for one team.
// Fields only contains entries with at least one present value.
type TeamStatSummary struct {
	Fields     map[FieldName]FieldSummary `json:"fields"`
	SampleSize int                        `json:"sample_size"`
}

// Field returns the summary for a field and whether any value was present
func (s TeamStatSummary) Field(field FieldName) (FieldSummary, bool) {
	fs, ok := s.Fields[field]
	return fs, ok
}

// TeamHistory is the result of aggregating one team's recent matches
type TeamHistory struct {
	Team                 TeamIdentity            `json:"team"`
	Summary              TeamStatSummary         `json:"summary"`
	SampleSize           int                     `json:"sample_size"`
	Records              []NormalizedMatchRecord `json:"records"`
	FailedMatches        int                     `json:"failed_matches"`
	DefaultedAttribution int                     `json:"defaulted_attribution"`
}
