// Package valueline models match totals as normal distributions and picks
// over/under lines whose fair probability sits inside an acceptance band.
package valueline

import "math"

// Abramowitz and Stegun 7.1.26 coefficients
const (
	erfP  = 0.3275911
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
)

// Erf approximates the error function with a maximum absolute error of
// about 1.5e-7.
func Erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}
	t := 1.0 / (1.0 + erfP*x)
	y := 1.0 - (((((erfA5*t+erfA4)*t)+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-x*x)
	return sign * y
}

// NormalCDF returns P(X <= x) for X ~ Normal(mean, stddev).
// A non-positive stddev is treated as a point mass at mean.
func NormalCDF(x, mean, stddev float64) float64 {
	if stddev <= 0 {
		if x >= mean {
			return 1
		}
		return 0
	}
	return 0.5 * (1 + Erf((x-mean)/(stddev*math.Sqrt2)))
}

// ProbabilityOver returns P(X > threshold). With zero spread the answer is
// 1 when mean > threshold and 0 otherwise.
func ProbabilityOver(threshold, mean, stddev float64) float64 {
	if stddev <= 0 {
		if mean > threshold {
			return 1
		}
		return 0
	}
	return 1 - NormalCDF(threshold, mean, stddev)
}

// ProbabilityUnder is the complement of ProbabilityOver
func ProbabilityUnder(threshold, mean, stddev float64) float64 {
	return 1 - ProbabilityOver(threshold, mean, stddev)
}
