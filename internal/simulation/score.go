package simulation

import (
	"math"

	"github.com/halcyonsec/forge/internal/correlation"
)

// successScore rates how detectable the generated campaign is, 0-100.
// Stage coverage saturates at 5 stages: 40 points for coverage, 30 for any
// correlation rule firing, up to 30 for average correlation confidence.
// A run that produced no events scores 0.
func successScore(stagesCovered int, correlations []correlation.Result) int {
	coverage := float64(stagesCovered) / 5.0
	if coverage > 1 {
		coverage = 1
	}

	var corrBonus, avgConfidence float64
	if len(correlations) > 0 {
		corrBonus = 30
		var sum float64
		for _, res := range correlations {
			sum += res.Confidence
		}
		avgConfidence = sum / float64(len(correlations))
	}

	return int(math.Round(coverage*40 + corrBonus + avgConfidence*30))
}
