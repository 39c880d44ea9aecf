package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-partner/internal/types"
)

func TestMean(t *testing.T) {
	tests := []struct {
		sum, n, want int
	}{
		{0, 0, 0},
		{50, 1, 50},
		{140, 2, 70},
		{1, 10, 0},
		{5, 10, 1},
		{900, 10, 90},
	}
	for _, tt := range tests {
		if got := Mean(tt.sum, tt.n); got != tt.want {
			t.Errorf("Mean(%d, %d) = %d, want %d", tt.sum, tt.n, got, tt.want)
		}
	}
}

func TestMeanBreakdown(t *testing.T) {
	first := types.ScoreBreakdown{Communication: 80, Confidence: 60, Technical: 40, Pace: 60, FillerWords: 100}
	second := types.ScoreBreakdown{Communication: 60, Confidence: 80, Technical: 60, Pace: 100, FillerWords: 80}

	one := MeanBreakdown([]types.ScoreBreakdown{first})
	assert.Equal(t, 66, one.Overall)

	acc := MeanBreakdown([]types.ScoreBreakdown{first, second})
	assert.Equal(t, 70, acc.Communication)
	assert.Equal(t, 70, acc.Confidence)
	assert.Equal(t, 50, acc.Technical)
	assert.Equal(t, 80, acc.Pace)
	assert.Equal(t, 90, acc.FillerWords)
	assert.Equal(t, Overall(acc), acc.Overall)

	assert.Equal(t, types.ScoreBreakdown{}, MeanBreakdown(nil))
}

func TestMeanBreakdown_RoundsOnce(t *testing.T) {
	items := make([]types.ScoreBreakdown, 10)
	items[0] = types.ScoreBreakdown{Communication: 1, Confidence: 1, Technical: 1, Pace: 1, FillerWords: 1}

	got := MeanBreakdown(items)
	assert.Equal(t, 0, got.Communication)
	assert.Equal(t, 0, got.FillerWords)
}
