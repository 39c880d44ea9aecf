package interview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-partner/internal/types"
)

func analyticsSession() *types.Session {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	eval := func(strengths, weaknesses, suggestions []string) *types.AnswerEvaluation {
		return &types.AnswerEvaluation{Strengths: strengths, Weaknesses: weaknesses, ImprovementSuggestions: suggestions}
	}
	return &types.Session{
		ID:        "sess-a",
		CreatedAt: start,
		StartedAt: &start,
		Questions: []types.Question{
			{ID: 1, Type: types.QuestionTechnical},
			{ID: 2, Type: types.QuestionBehavioral},
			{ID: 3, Type: types.QuestionTechnical},
			{ID: 4},
		},
		Answers: []types.Answer{
			{QuestionID: 1, QuestionType: types.QuestionTechnical, Score: 70, ResponseTimeSeconds: 120, SubmittedAt: start.Add(4 * time.Minute),
				Evaluation: eval([]string{"Clear", "Structured"}, []string{"Vague"}, []string{"Add metrics", "Be concise"})},
			{QuestionID: 2, Score: 80, ResponseTimeSeconds: 100, SubmittedAt: start.Add(8 * time.Minute),
				Evaluation: eval([]string{"Structured"}, []string{"Vague", "Rushed"}, []string{"Add metrics"})},
			{QuestionID: 3, QuestionType: types.QuestionTechnical, Score: 90, ResponseTimeSeconds: 60, SubmittedAt: start.Add(12 * time.Minute),
				Evaluation: eval([]string{"Clear", "Deep"}, nil, []string{"Use STAR"})},
			{QuestionID: 4, Score: 80, SubmittedAt: start.Add(15 * time.Minute)},
		},
		Scores: types.SessionScores{Overall: 80, Technical: 90, Communication: 60, ProblemSolving: 100, Confidence: 2},
	}
}

func TestAnalyze(t *testing.T) {
	a := Analyze(analyticsSession())

	assert.Equal(t, "sess-a", a.SessionID)
	require.Len(t, a.PerformanceTrend, 4)
	assert.Equal(t, 3, a.PerformanceTrend[2].QuestionNumber)
	assert.Equal(t, 90, a.PerformanceTrend[2].Score)

	tech := a.QuestionTypePerformance["technical"]
	assert.Equal(t, 2, tech.QuestionCount)
	assert.InDelta(t, 80.0, tech.AverageScore, 0.001)
	assert.Equal(t, 90, tech.BestScore)
	assert.Equal(t, 70, tech.WorstScore)
	assert.Equal(t, 1, a.QuestionTypePerformance["behavioral"].QuestionCount)
	assert.Equal(t, 1, a.QuestionTypePerformance["general"].QuestionCount)

	assert.Equal(t, 3, a.ResponseTimes.Answers)
	assert.InDelta(t, 93.33, a.ResponseTimes.AverageSeconds, 0.001)
	assert.Equal(t, 60, a.ResponseTimes.FastestSeconds)
	assert.Equal(t, 120, a.ResponseTimes.SlowestSeconds)
	assert.Equal(t, "faster", a.ResponseTimes.Trend)

	assert.Equal(t, []Frequency{{"Clear", 2}, {"Structured", 2}, {"Deep", 1}}, a.StrengthsWeaknesses.TopStrengths)
	assert.Equal(t, []Frequency{{"Vague", 2}, {"Rushed", 1}}, a.StrengthsWeaknesses.MainWeaknesses)
	assert.Equal(t, []string{"Add metrics", "Be concise", "Use STAR"}, a.ImprovementAreas)

	assert.Equal(t, BenchmarkComparison{UserScore: 60, Benchmark: 80, Difference: -20, Percentile: 60}, a.BenchmarkComparison["communication"])
	assert.Equal(t, 95, a.BenchmarkComparison["problem_solving"].Percentile)
	assert.Equal(t, 5, a.BenchmarkComparison["confidence"].Percentile)

	assert.Equal(t, 80, a.DetailedMetrics.AverageScore)
	assert.InDelta(t, 50.0, a.DetailedMetrics.ScoreVariance, 0.001)
	assert.Equal(t, "Consistent", a.DetailedMetrics.ConsistencyRating)
	assert.Equal(t, 15, a.DetailedMetrics.TotalMinutes)
}

func TestAnalyze_EmptySession(t *testing.T) {
	a := Analyze(&types.Session{ID: "empty"})

	assert.Empty(t, a.PerformanceTrend)
	assert.Empty(t, a.QuestionTypePerformance)
	assert.Equal(t, "n/a", a.ResponseTimes.Trend)
	assert.NotNil(t, a.ImprovementAreas)
	assert.Equal(t, 0.0, a.DetailedMetrics.ScoreVariance)
	assert.Equal(t, "Very Consistent", a.DetailedMetrics.ConsistencyRating)
	assert.Equal(t, 0, a.DetailedMetrics.TotalMinutes)
}

func TestScoreVariance(t *testing.T) {
	assert.Equal(t, 0.0, ScoreVariance(nil))
	assert.Equal(t, 0.0, ScoreVariance([]int{88}))
	assert.InDelta(t, 66.67, ScoreVariance([]int{70, 80, 90}), 0.001)
	assert.InDelta(t, 400.0, ScoreVariance([]int{40, 80}), 0.001)
}

func TestConsistency(t *testing.T) {
	assert.Equal(t, "Very Consistent", Consistency(49.99))
	assert.Equal(t, "Consistent", Consistency(50))
	assert.Equal(t, "Moderately Consistent", Consistency(150))
	assert.Equal(t, "Inconsistent", Consistency(200))
}

func TestTopFrequencies_Cap(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "f"}
	got := topFrequencies(items, 5)
	require.Len(t, got, 5)
	assert.Equal(t, Frequency{"f", 2}, got[0])
	assert.Equal(t, "a", got[1].Item)
}

func TestCompare(t *testing.T) {
	sessions := []*types.Session{
		{ID: "a", Role: "Backend Developer", Difficulty: types.DifficultyHard, Scores: types.SessionScores{Overall: 60},
			Questions: make([]types.Question, 4), Answers: make([]types.Answer, 3)},
		{ID: "b", Role: "Backend Developer", Difficulty: types.DifficultyMedium, Scores: types.SessionScores{Overall: 85},
			Questions: make([]types.Question, 2), Answers: make([]types.Answer, 2)},
		{ID: "c", Scores: types.SessionScores{Overall: 72}},
	}

	c := Compare(sessions)

	require.Len(t, c.Sessions, 3)
	assert.Equal(t, 75, c.Sessions[0].CompletionRate)
	assert.Equal(t, 100, c.Sessions[1].CompletionRate)
	assert.Equal(t, 0, c.Sessions[2].CompletionRate)
	assert.InDelta(t, 72.33, c.AverageScore, 0.001)
	assert.Equal(t, ScoreRange{Min: 60, Max: 85}, c.ScoreRange)
	assert.Equal(t, map[string]int{"Backend Developer": 2, "Unknown": 1}, c.RoleDistribution)
	assert.Equal(t, map[string]int{"hard": 1, "medium": 1, "Unknown": 1}, c.DifficultyDistribution)
}

func TestCompare_Empty(t *testing.T) {
	c := Compare(nil)
	assert.Empty(t, c.Sessions)
	assert.Equal(t, ScoreRange{}, c.ScoreRange)
}
