package backtest

import "time"

// ProfitPoint is the cumulative unit profit after a settlement
type ProfitPoint struct {
	Time  time.Time `json:"time"`
	Units float64   `json:"units"`
}

// ProfitCurve is the running unit profit in settlement order
type ProfitCurve []ProfitPoint

// MaxDrawdown is the largest fall in units from a running peak. The curve
// starts from zero, so an opening loss counts as drawdown.
func (c ProfitCurve) MaxDrawdown() float64 {
	peak, maxDD := 0.0, 0.0
	for _, p := range c {
		if p.Units > peak {
			peak = p.Units
		}
		if dd := peak - p.Units; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Final returns the closing unit profit
func (c ProfitCurve) Final() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].Units
}
