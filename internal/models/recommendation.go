package models

// CombinedFieldDistribution is the modeled match total for one field
type CombinedFieldDistribution struct {
	Field           FieldName `json:"field"`
	PredictedMean   float64   `json:"predicted_mean"`
	PredictedStdDev float64   `json:"predicted_std_dev"`
	HomeMean        float64   `json:"home_mean"`
	AwayMean        float64   `json:"away_mean"`
	SampleSize      int       `json:"sample_size"`
}

// LineRecommendation is a selected over/under line with its fair price
type LineRecommendation struct {
	Field           FieldName  `json:"field"`
	Line            float64    `json:"line"`
	Side            Direction  `json:"side"`
	Probability     float64    `json:"probability"`
	FairDecimalOdds float64    `json:"fair_decimal_odds"`
	PredictedTotal  float64    `json:"predicted_total"`
	PredictedStdDev float64    `json:"predicted_std_dev"`
	HomeMean        float64    `json:"home_mean"`
	AwayMean        float64    `json:"away_mean"`
	SampleSize      int        `json:"sample_size"`
	Confidence      Confidence `json:"confidence"`
}
