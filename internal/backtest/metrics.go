package backtest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/value-lines/internal/models"
)

// Bucket is the record of one slice of settled predictions
type Bucket struct {
	Count           int     `json:"count"`
	Won             int     `json:"won"`
	Lost            int     `json:"lost"`
	Push            int     `json:"push"`
	HitRate         float64 `json:"hit_rate"`
	MeanProbability float64 `json:"mean_probability"`
	probSum         float64
}

func (b *Bucket) add(p *models.Prediction) {
	b.Count++
	b.probSum += p.Probability
	switch p.Status {
	case models.PredictionWon:
		b.Won++
	case models.PredictionLost:
		b.Lost++
	case models.PredictionPush:
		b.Push++
	}
}

func (b *Bucket) finish() {
	if b.Count > 0 {
		b.MeanProbability = b.probSum / float64(b.Count)
	}
	b.HitRate = hitRate(b.Won, b.Lost)
}

// maxProfitFactor stands in for an infinite factor when nothing was lost
const maxProfitFactor = 999

// Metrics is the track record of settled predictions. Profit is measured in
// units staked at the fair price, so a calibrated model breaks even.
type Metrics struct {
	Bucket
	Settled      int                           `json:"settled"`
	Pending      int                           `json:"pending"`
	BrierScore   float64                       `json:"brier_score"`
	Units        float64                       `json:"units"`
	ROI          float64                       `json:"roi"`
	ProfitFactor float64                       `json:"profit_factor"`
	Expectancy   float64                       `json:"expectancy"`
	MaxDrawdown  float64                       `json:"max_drawdown"`
	LargestWin   float64                       `json:"largest_win"`
	StartDate    time.Time                     `json:"start_date"`
	EndDate      time.Time                     `json:"end_date"`
	ByConfidence map[models.Confidence]*Bucket `json:"by_confidence"`
	ByField      map[models.FieldName]*Bucket  `json:"by_field"`
	Curve        ProfitCurve                   `json:"-"`
}

// CalculateMetrics summarizes predictions in the order given. Pending
// predictions are counted but otherwise ignored.
func CalculateMetrics(predictions []*models.Prediction) Metrics {
	m := Metrics{
		ByConfidence: make(map[models.Confidence]*Bucket),
		ByField:      make(map[models.FieldName]*Bucket),
	}

	var (
		units       decimal.Decimal
		grossProfit decimal.Decimal
		grossLoss   decimal.Decimal
		brierSum    float64
		graded      int
	)
	for _, p := range predictions {
		if !p.IsSettled() {
			m.Pending++
			continue
		}
		m.Settled++
		m.add(p)
		bucketFor(m.ByConfidence, p.Confidence).add(p)
		bucketFor(m.ByField, p.Field).add(p)

		pl := unitProfit(p)
		units = units.Add(pl)
		switch {
		case pl.IsPositive():
			grossProfit = grossProfit.Add(pl)
			if f := pl.InexactFloat64(); f > m.LargestWin {
				m.LargestWin = f
			}
		case pl.IsNegative():
			grossLoss = grossLoss.Add(pl.Abs())
		}

		if p.Status != models.PredictionPush {
			outcome := 0.0
			if p.Status == models.PredictionWon {
				outcome = 1
			}
			brierSum += (p.Probability - outcome) * (p.Probability - outcome)
			graded++
		}

		at := settledTime(p)
		if m.StartDate.IsZero() || at.Before(m.StartDate) {
			m.StartDate = at
		}
		if at.After(m.EndDate) {
			m.EndDate = at
		}
		m.Curve = append(m.Curve, ProfitPoint{Time: at, Units: units.InexactFloat64()})
	}

	m.finish()
	for _, b := range m.ByConfidence {
		b.finish()
	}
	for _, b := range m.ByField {
		b.finish()
	}

	m.Units = units.InexactFloat64()
	if staked := m.Won + m.Lost; staked > 0 {
		m.ROI = units.Div(decimal.NewFromInt(int64(staked))).InexactFloat64()
	}
	if graded > 0 {
		m.BrierScore = brierSum / float64(graded)
	}
	if m.Settled > 0 {
		m.Expectancy = units.Div(decimal.NewFromInt(int64(m.Settled))).InexactFloat64()
	}
	m.ProfitFactor = profitFactor(grossProfit, grossLoss)
	m.MaxDrawdown = m.Curve.MaxDrawdown()
	return m
}

// unitProfit is the result of a one-unit stake at the fair price
func unitProfit(p *models.Prediction) decimal.Decimal {
	switch p.Status {
	case models.PredictionWon:
		return decimal.NewFromFloat(p.FairDecimalOdds).Sub(decimal.NewFromInt(1))
	case models.PredictionLost:
		return decimal.NewFromInt(-1)
	default:
		return decimal.Zero
	}
}

func profitFactor(grossProfit, grossLoss decimal.Decimal) float64 {
	if grossLoss.IsZero() {
		if grossProfit.IsPositive() {
			return maxProfitFactor
		}
		return 0
	}
	return grossProfit.Div(grossLoss).InexactFloat64()
}

func hitRate(won, lost int) float64 {
	if won+lost == 0 {
		return 0
	}
	return float64(won) / float64(won+lost)
}

func bucketFor[K comparable](buckets map[K]*Bucket, key K) *Bucket {
	b, ok := buckets[key]
	if !ok {
		b = &Bucket{}
		buckets[key] = b
	}
	return b
}

func settledTime(p *models.Prediction) time.Time {
	if p.SettledAt != nil {
		return *p.SettledAt
	}
	return p.CreatedAt
}
