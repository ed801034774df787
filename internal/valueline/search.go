package valueline

import (
	"math"

	"github.com/yourusername/value-lines/internal/models"
)

// Candidate is one evaluated line/direction pair
type Candidate struct {
	Line        float64
	Side        models.Direction
	Probability float64
}

// CandidateLines enumerates half-point thresholds across mean ± 2 stddev,
// clamped at zero.
func CandidateLines(mean, stddev float64) []float64 {
	lo := math.Floor((mean - 2*stddev) * 2)
	if lo < 0 {
		lo = 0
	}
	hi := math.Ceil((mean + 2*stddev) * 2)

	lines := make([]float64, 0, int(hi-lo)+1)
	for k := lo; k <= hi; k++ {
		lines = append(lines, k/2)
	}
	return lines
}

// FindBestLine returns the in-band candidate closest to the target
// probability. Ties keep the first candidate seen: lower line first, over
// before under.
func FindBestLine(mean, stddev float64, band Band) (Candidate, bool) {
	var (
		best     Candidate
		bestDist = math.Inf(1)
		found    bool
	)

	for _, line := range CandidateLines(mean, stddev) {
		over := ProbabilityOver(line, mean, stddev)
		pairs := [2]Candidate{
			{Line: line, Side: models.DirectionOver, Probability: over},
			{Line: line, Side: models.DirectionUnder, Probability: 1 - over},
		}
		for _, c := range pairs {
			if !band.Contains(c.Probability) {
				continue
			}
			dist := math.Abs(c.Probability - band.Target)
			if dist < bestDist {
				best, bestDist, found = c, dist, true
			}
		}
	}
	return best, found
}
