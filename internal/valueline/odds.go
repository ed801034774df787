package valueline

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/value-lines/internal/models"
)

// fraction is a display price such as 6/4
type fraction struct {
	num, den int
}

func (f fraction) value() float64 {
	return 1 + float64(f.num)/float64(f.den)
}

func (f fraction) String() string {
	return fmt.Sprintf("%d/%d", f.num, f.den)
}

// commonFractions is ordered shortest to longest price
var commonFractions = []fraction{
	{1, 10}, {1, 8}, {1, 7}, {1, 6}, {1, 5}, {2, 9}, {1, 4}, {2, 7}, {3, 10},
	{1, 3}, {4, 11}, {2, 5}, {4, 9}, {1, 2}, {8, 15}, {4, 7}, {8, 13}, {4, 6},
	{8, 11}, {4, 5}, {5, 6}, {10, 11}, {1, 1}, {11, 10}, {6, 5}, {5, 4},
	{11, 8}, {6, 4}, {13, 8}, {7, 4}, {15, 8}, {2, 1}, {9, 4}, {5, 2},
	{11, 4}, {3, 1}, {10, 3}, {7, 2}, {4, 1}, {9, 2}, {5, 1}, {11, 2},
	{6, 1}, {13, 2}, {7, 1}, {15, 2}, {8, 1}, {9, 1}, {10, 1},
}

// DecimalToAmerican converts decimal odds to an American moneyline
func DecimalToAmerican(d float64) (int, error) {
	if d <= 1 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: decimal %v", models.ErrInvalidOdds, d)
	}
	if d >= 2 {
		return int(math.Round((d - 1) * 100)), nil
	}
	return int(math.Round(-100 / (d - 1))), nil
}

// AmericanToDecimal converts an American moneyline back to decimal odds
func AmericanToDecimal(american int) (float64, error) {
	switch {
	case american >= 100:
		return 1 + float64(american)/100, nil
	case american <= -100:
		return 1 + 100/float64(-american), nil
	default:
		return 0, fmt.Errorf("%w: american %d", models.ErrInvalidOdds, american)
	}
}

// DecimalToFractional returns the closest common fraction. Equal distances
// keep the shorter price.
func DecimalToFractional(d float64) string {
	best := commonFractions[0]
	bestDist := math.Abs(best.value() - d)
	for _, f := range commonFractions[1:] {
		if dist := math.Abs(f.value() - d); dist < bestDist {
			best, bestDist = f, dist
		}
	}
	return best.String()
}

// FormatDecimal renders decimal odds to two places
func FormatDecimal(d float64) string {
	return decimal.NewFromFloat(d).StringFixed(2)
}

// FormatAmerican renders a moneyline with an explicit sign
func FormatAmerican(american int) string {
	if american > 0 {
		return fmt.Sprintf("+%d", american)
	}
	return fmt.Sprintf("%d", american)
}

// ImpliedProbability converts decimal odds into the probability they price
func ImpliedProbability(d float64) float64 {
	if d <= 0 {
		return 0
	}
	return decimal.NewFromInt(1).Div(decimal.NewFromFloat(d)).InexactFloat64()
}
