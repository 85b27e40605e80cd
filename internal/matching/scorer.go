package matching

import "math"

const (
	baseScore           = 0.3
	perConceptIncrement = 0.15
	maxScore            = 0.95
)

// Score maps a shared-interest set to a compatibility score in [0, 1].
// Only the number of shared concepts matters: one concept yields a modest
// baseline, each further concept adds a fixed increment, and the result is
// capped below 1.0 because the underlying match quality is model-derived
// and unverified. Rounded to two decimal places.
func Score(shared SharedInterests) float64 {
	n := shared.Len()
	if n == 0 {
		return 0.0
	}

	score := baseScore + perConceptIncrement*float64(n-1)
	if score > maxScore {
		score = maxScore
	}

	return math.Round(score*100) / 100
}
