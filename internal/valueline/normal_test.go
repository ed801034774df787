package valueline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErfMatchesReference(t *testing.T) {
	for x := -4.0; x <= 4.0; x += 0.05 {
		assert.InDelta(t, math.Erf(x), Erf(x), 1.5e-7, "x=%v", x)
	}
	assert.InDelta(t, -Erf(0.7), Erf(-0.7), 1e-15)
}

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, NormalCDF(10, 10, 2), 1e-7)
	assert.InDelta(t, 0.841345, NormalCDF(12, 10, 2), 1e-6)
	assert.InDelta(t, 0.158655, NormalCDF(8, 10, 2), 1e-6)
}

func TestZeroSpreadIsAllOrNothing(t *testing.T) {
	for threshold := 0.0; threshold < 10; threshold += 0.5 {
		assert.Equal(t, 1.0, ProbabilityOver(threshold, 10, 0), "threshold=%v", threshold)
		assert.Equal(t, 0.0, ProbabilityUnder(threshold, 10, 0), "threshold=%v", threshold)
	}
	assert.Equal(t, 0.0, ProbabilityOver(10, 10, 0))
	assert.Equal(t, 1.0, ProbabilityUnder(10.5, 10, 0))
}

func TestProbabilityMonotonicInThreshold(t *testing.T) {
	spreads := []float64{0, 0.5, 1.8, 4}
	for _, sd := range spreads {
		prevOver, prevUnder := 2.0, -1.0
		for threshold := 0.0; threshold <= 20; threshold += 0.25 {
			over := ProbabilityOver(threshold, 9.3, sd)
			under := ProbabilityUnder(threshold, 9.3, sd)
			assert.LessOrEqual(t, over, prevOver, "sd=%v threshold=%v", sd, threshold)
			assert.GreaterOrEqual(t, under, prevUnder, "sd=%v threshold=%v", sd, threshold)
			prevOver, prevUnder = over, under
		}
	}
}
