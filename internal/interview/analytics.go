package interview

import (
	"math"
	"sort"
	"time"

	"github.com/jonathan/interview-partner/internal/types"
)

// Benchmarks are the reference scores sessions are compared against.
var Benchmarks = map[string]int{
	"overall":         75,
	"technical":       75,
	"communication":   80,
	"problem_solving": 70,
	"confidence":      75,
}

const (
	maxStrengthsWeaknesses = 5
	maxImprovementAreas    = 10
)

// TrendPoint is one answered question in the performance trend.
type TrendPoint struct {
	QuestionNumber int       `json:"question_number"`
	Score          int       `json:"score"`
	Timestamp      time.Time `json:"timestamp"`
}

// TypePerformance summarises scores for one question type.
type TypePerformance struct {
	AverageScore  float64 `json:"average_score"`
	QuestionCount int     `json:"question_count"`
	BestScore     int     `json:"best_score"`
	WorstScore    int     `json:"worst_score"`
}

// ResponseTimes summarises how long answers took.
type ResponseTimes struct {
	Answers        int     `json:"timed_answers"`
	AverageSeconds float64 `json:"average_seconds"`
	FastestSeconds int     `json:"fastest_seconds"`
	SlowestSeconds int     `json:"slowest_seconds"`
	Trend          string  `json:"trend"` // faster, slower, steady or n/a
}

// Frequency is an item and how often it occurred.
type Frequency struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// StrengthsWeaknesses are the most frequent strengths and weaknesses across answers.
type StrengthsWeaknesses struct {
	TopStrengths   []Frequency `json:"top_strengths"`
	MainWeaknesses []Frequency `json:"main_weaknesses"`
}

// BenchmarkComparison compares one score category to its benchmark.
type BenchmarkComparison struct {
	UserScore  int `json:"user_score"`
	Benchmark  int `json:"benchmark"`
	Difference int `json:"difference"`
	Percentile int `json:"percentile"`
}

// DetailedMetrics are the headline numbers of a session.
type DetailedMetrics struct {
	AverageScore      int     `json:"average_score"`
	ScoreVariance     float64 `json:"score_variance"`
	ConsistencyRating string  `json:"consistency_rating"`
	TotalMinutes      int     `json:"total_interview_minutes"`
}

// Analytics is the full analytics view of a session.
type Analytics struct {
	SessionID               string                         `json:"session_id"`
	PerformanceTrend        []TrendPoint                   `json:"performance_trend"`
	QuestionTypePerformance map[string]TypePerformance     `json:"question_type_performance"`
	ResponseTimes           ResponseTimes                  `json:"response_time_analysis"`
	StrengthsWeaknesses     StrengthsWeaknesses            `json:"strengths_weaknesses"`
	ImprovementAreas        []string                       `json:"improvement_areas"`
	BenchmarkComparison     map[string]BenchmarkComparison `json:"benchmark_comparison"`
	SpeechBreakdown         types.ScoreBreakdown           `json:"speech_breakdown"`
	DetailedMetrics         DetailedMetrics                `json:"detailed_metrics"`
}

// Analyze computes analytics for a session.
func Analyze(s *types.Session) Analytics {
	scores := make([]int, len(s.Answers))
	for i, a := range s.Answers {
		scores[i] = a.Score
	}
	variance := ScoreVariance(scores)

	return Analytics{
		SessionID:               s.ID,
		PerformanceTrend:        performanceTrend(s.Answers),
		QuestionTypePerformance: typePerformance(s),
		ResponseTimes:           responseTimes(s.Answers),
		StrengthsWeaknesses:     strengthsWeaknesses(s.Answers),
		ImprovementAreas:        improvementAreas(s.Answers),
		BenchmarkComparison:     CompareToBenchmarks(s.Scores),
		SpeechBreakdown:         s.SpeechBreakdown,
		DetailedMetrics: DetailedMetrics{
			AverageScore:      s.Scores.Overall,
			ScoreVariance:     variance,
			ConsistencyRating: Consistency(variance),
			TotalMinutes:      totalMinutes(s),
		},
	}
}

func performanceTrend(answers []types.Answer) []TrendPoint {
	trend := make([]TrendPoint, len(answers))
	for i, a := range answers {
		trend[i] = TrendPoint{QuestionNumber: i + 1, Score: a.Score, Timestamp: a.SubmittedAt}
	}
	return trend
}

func typePerformance(s *types.Session) map[string]TypePerformance {
	byType := make(map[string][]int)
	for i, a := range s.Answers {
		t := a.QuestionType
		if t == "" && i < len(s.Questions) {
			t = s.Questions[i].Type
		}
		if t == "" {
			t = "general"
		}
		byType[string(t)] = append(byType[string(t)], a.Score)
	}

	out := make(map[string]TypePerformance, len(byType))
	for t, scores := range byType {
		sum, best, worst := 0, scores[0], scores[0]
		for _, v := range scores {
			sum += v
			best = max(best, v)
			worst = min(worst, v)
		}
		out[t] = TypePerformance{
			AverageScore:  round2(float64(sum) / float64(len(scores))),
			QuestionCount: len(scores),
			BestScore:     best,
			WorstScore:    worst,
		}
	}
	return out
}

// responseTimes compares the first and second half of the timed answers to find a trend.
func responseTimes(answers []types.Answer) ResponseTimes {
	var times []int
	for _, a := range answers {
		if a.ResponseTimeSeconds > 0 {
			times = append(times, a.ResponseTimeSeconds)
		}
	}
	rt := ResponseTimes{Answers: len(times), Trend: "n/a"}
	if len(times) == 0 {
		return rt
	}

	sum := 0
	rt.FastestSeconds, rt.SlowestSeconds = times[0], times[0]
	for _, t := range times {
		sum += t
		rt.FastestSeconds = min(rt.FastestSeconds, t)
		rt.SlowestSeconds = max(rt.SlowestSeconds, t)
	}
	rt.AverageSeconds = round2(float64(sum) / float64(len(times)))

	if len(times) >= 2 {
		half := len(times) / 2
		first, second := mean(times[:half]), mean(times[len(times)-half:])
		switch {
		case second < first*0.9:
			rt.Trend = "faster"
		case second > first*1.1:
			rt.Trend = "slower"
		default:
			rt.Trend = "steady"
		}
	}
	return rt
}

func strengthsWeaknesses(answers []types.Answer) StrengthsWeaknesses {
	var strengths, weaknesses []string
	for _, a := range answers {
		if a.Evaluation == nil {
			continue
		}
		strengths = append(strengths, a.Evaluation.Strengths...)
		weaknesses = append(weaknesses, a.Evaluation.Weaknesses...)
	}
	return StrengthsWeaknesses{
		TopStrengths:   topFrequencies(strengths, maxStrengthsWeaknesses),
		MainWeaknesses: topFrequencies(weaknesses, maxStrengthsWeaknesses),
	}
}

// topFrequencies counts items and returns the n most frequent; ties keep first-seen order.
func topFrequencies(items []string, n int) []Frequency {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	out := make([]Frequency, len(order))
	for i, item := range order {
		out[i] = Frequency{Item: item, Count: counts[item]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func improvementAreas(answers []types.Answer) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, a := range answers {
		if a.Evaluation == nil {
			continue
		}
		for _, s := range a.Evaluation.ImprovementSuggestions {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
			if len(out) == maxImprovementAreas {
				return out
			}
		}
	}
	return out
}

// CompareToBenchmarks compares each session score category with its benchmark.
// The percentile is the score clamped to [5, 95].
func CompareToBenchmarks(scores types.SessionScores) map[string]BenchmarkComparison {
	values := map[string]int{
		"overall":         scores.Overall,
		"technical":       scores.Technical,
		"communication":   scores.Communication,
		"problem_solving": scores.ProblemSolving,
		"confidence":      scores.Confidence,
	}
	out := make(map[string]BenchmarkComparison, len(values))
	for category, v := range values {
		b := Benchmarks[category]
		out[category] = BenchmarkComparison{
			UserScore:  v,
			Benchmark:  b,
			Difference: v - b,
			Percentile: min(95, max(5, v)),
		}
	}
	return out
}

// ScoreVariance is the population variance of the scores, rounded to two
// decimals. Fewer than two scores have zero variance.
func ScoreVariance(scores []int) float64 {
	if len(scores) < 2 {
		return 0
	}
	m := mean(scores)
	sum := 0.0
	for _, s := range scores {
		d := float64(s) - m
		sum += d * d
	}
	return round2(sum / float64(len(scores)))
}

// Consistency rates a score variance.
func Consistency(variance float64) string {
	switch {
	case variance < 50:
		return "Very Consistent"
	case variance < 100:
		return "Consistent"
	case variance < 200:
		return "Moderately Consistent"
	default:
		return "Inconsistent"
	}
}

// totalMinutes is the time from interview start to the last answer.
func totalMinutes(s *types.Session) int {
	if len(s.Answers) == 0 {
		return 0
	}
	start := s.CreatedAt
	if s.StartedAt != nil {
		start = *s.StartedAt
	}
	end := s.Answers[len(s.Answers)-1].SubmittedAt
	if s.CompletedAt != nil && s.CompletedAt.After(end) {
		end = *s.CompletedAt
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// ComparedSession is one session in a comparison.
type ComparedSession struct {
	SessionID       string                `json:"session_id"`
	OverallScore    int                   `json:"overall_score"`
	Role            string                `json:"role"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level"`
	Difficulty      types.Difficulty      `json:"difficulty"`
	CompletionRate  int                   `json:"completion_rate"`
}

// ScoreRange is the min and max overall score of compared sessions.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SessionComparison compares several sessions.
type SessionComparison struct {
	Sessions               []ComparedSession `json:"sessions"`
	AverageScore           float64           `json:"average_score"`
	ScoreRange             ScoreRange        `json:"score_range"`
	RoleDistribution       map[string]int    `json:"role_distribution"`
	DifficultyDistribution map[string]int    `json:"difficulty_distribution"`
}

// Compare builds a comparison of sessions.
func Compare(sessions []*types.Session) SessionComparison {
	c := SessionComparison{
		Sessions:               make([]ComparedSession, 0, len(sessions)),
		RoleDistribution:       make(map[string]int),
		DifficultyDistribution: make(map[string]int),
	}
	if len(sessions) == 0 {
		return c
	}

	sum := 0
	c.ScoreRange = ScoreRange{Min: math.MaxInt, Max: math.MinInt}
	for _, s := range sessions {
		total := len(s.Questions)
		rate := 0
		if total > 0 {
			rate = int(math.Round(float64(len(s.Answers)) / float64(total) * 100))
		}
		c.Sessions = append(c.Sessions, ComparedSession{
			SessionID:       s.ID,
			OverallScore:    s.Scores.Overall,
			Role:            s.Role,
			ExperienceLevel: s.ExperienceLevel,
			Difficulty:      s.Difficulty,
			CompletionRate:  rate,
		})
		sum += s.Scores.Overall
		c.ScoreRange.Min = min(c.ScoreRange.Min, s.Scores.Overall)
		c.ScoreRange.Max = max(c.ScoreRange.Max, s.Scores.Overall)
		c.RoleDistribution[orDefault(s.Role, "Unknown")]++
		c.DifficultyDistribution[orDefault(string(s.Difficulty), "Unknown")]++
	}
	c.AverageScore = round2(float64(sum) / float64(len(sessions)))
	return c
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
