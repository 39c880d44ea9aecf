package scoring

import (
	"math"

	"github.com/jonathan/interview-partner/internal/types"
)

// Mean returns sum/n rounded to the nearest integer, or 0 when n is not positive.
func Mean(sum, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// MeanBreakdown averages a list of breakdowns category by category.
// The overall score is recomputed from the averaged categories.
func MeanBreakdown(items []types.ScoreBreakdown) types.ScoreBreakdown {
	var sum types.ScoreBreakdown
	for _, b := range items {
		sum.Communication += b.Communication
		sum.Confidence += b.Confidence
		sum.Technical += b.Technical
		sum.Pace += b.Pace
		sum.FillerWords += b.FillerWords
	}
	n := len(items)
	out := types.ScoreBreakdown{
		Communication: Mean(sum.Communication, n),
		Confidence:    Mean(sum.Confidence, n),
		Technical:     Mean(sum.Technical, n),
		Pace:          Mean(sum.Pace, n),
		FillerWords:   Mean(sum.FillerWords, n),
	}
	if n > 0 {
		out.Overall = Overall(out)
	}
	return out
}
