package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-partner/internal/llm"
	"github.com/jonathan/interview-partner/internal/types"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GetModelFunc        func(tier llm.ModelTier) string
	CloseFunc           func() error
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{"overall_score": 80, "scores": {}}`, nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func failingClient() *MockLLMClient {
	fail := func(context.Context, string, llm.ModelTier) (string, error) {
		return "", errors.New("quota exceeded")
	}
	return &MockLLMClient{GenerateContentFunc: fail, GenerateJSONFunc: fail}
}

const questionsJSON = `[
	{"id": 7, "question": "How would you design a rate limiter?", "type": "technical", "follow_ups": ["What about bursts?"], "evaluation_criteria": ["Trade-offs"], "expected_topics": ["token bucket"]},
	{"id": 8, "question": "Walk me through the payments project on your resume.", "type": "resume_specific"},
	{"id": 9, "question": "Describe a conflict with a teammate.", "type": "culture"}
]`

func TestGenerateQuestions_Success(t *testing.T) {
	var gotTier llm.ModelTier
	var gotPrompt string
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotTier, gotPrompt = tier, prompt
			return "```json\n" + questionsJSON + "\n```", nil
		},
	}
	coach := NewCoach(client, nil)

	questions, fallback := coach.GenerateQuestions(context.Background(), QuestionParams{
		Role:            "Backend Engineer",
		ExperienceLevel: types.ExperienceThreeToFive,
		Difficulty:      types.DifficultyHard,
		ResumeText:      "Built payment systems in Go",
		Count:           3,
	})

	require.False(t, fallback)
	require.Len(t, questions, 3)
	assert.Equal(t, llm.TierStandard, gotTier)
	assert.Contains(t, gotPrompt, "Backend Engineer")
	assert.Contains(t, gotPrompt, "Built payment systems in Go")

	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		assert.Equal(t, types.DifficultyHard, q.Difficulty)
	}
	assert.Equal(t, []string{"What about bursts?"}, questions[0].FollowUps)
	assert.Equal(t, types.QuestionResumeSpecific, questions[1].Type)
	assert.Equal(t, types.QuestionTechnical, questions[2].Type)
	assert.NotNil(t, questions[1].FollowUps)
}

func TestGenerateQuestions_CapsCount(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return questionsJSON, nil
		},
	}
	questions, fallback := NewCoach(client, nil).GenerateQuestions(context.Background(), QuestionParams{Role: "Engineer", Count: 2})

	assert.False(t, fallback)
	assert.Len(t, questions, 2)
}

func TestGenerateQuestions_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
	}{
		{name: "no model", client: nil},
		{name: "model error", client: failingClient()},
		{name: "schema mismatch", client: &MockLLMClient{
			GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
				return `{"questions": "not an array"}`, nil
			},
		}},
		{name: "question too short", client: &MockLLMClient{
			GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
				return `[{"question": "Hi"}]`, nil
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coach := NewCoach(tt.client, nil)
			questions, fallback := coach.GenerateQuestions(context.Background(), QuestionParams{
				Role:       "Data Scientist",
				Difficulty: types.DifficultyEasy,
				Count:      5,
			})

			assert.True(t, fallback)
			require.Len(t, questions, 5)
			assert.Equal(t, "Tell me about yourself and your experience.", questions[0].Question)
			assert.Equal(t, "What interests you about the Data Scientist position?", questions[1].Question)
			assert.Equal(t, "What machine learning algorithms are you most familiar with?", questions[2].Question)
		})
	}
}

func TestEvaluateAnswer_Success(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "Evaluation Criteria: Clarity, Depth")
			return `Here is the evaluation:
{"overall_score": 82.6, "scores": {"technical_accuracy": 85, "communication_clarity": 79.5, "depth_of_knowledge": 80, "problem_solving": 84, "confidence": 77},
 "strengths": ["Clear structure", " "], "weaknesses": ["No metrics"], "detailed_feedback": "  Solid answer.  ",
 "improvement_suggestions": ["Quantify impact"]}`, nil
		},
	}

	eval := NewCoach(client, nil).EvaluateAnswer(context.Background(), EvaluationParams{
		Role:     "Engineer",
		Question: "Describe a project.",
		Answer:   "I led the migration of our billing service.",
		Criteria: []string{"Clarity", "Depth"},
	})

	assert.False(t, eval.Fallback)
	assert.Equal(t, 83, eval.OverallScore)
	assert.Equal(t, 80, eval.Scores.CommunicationClarity)
	assert.Equal(t, []string{"Clear structure"}, eval.Strengths)
	assert.Equal(t, "Solid answer.", eval.DetailedFeedback)
	assert.NotNil(t, eval.RedFlags)
	assert.Empty(t, eval.RedFlags)
}

func TestEvaluateAnswer_Fallback(t *testing.T) {
	outOfRange := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return `{"overall_score": 140, "scores": {}}`, nil
		},
	}

	for name, client := range map[string]llm.Client{"error": failingClient(), "out of range": outOfRange, "no model": nil} {
		t.Run(name, func(t *testing.T) {
			eval := NewCoach(client, nil).EvaluateAnswer(context.Background(), EvaluationParams{Question: "Q?", Answer: "A long enough answer"})
			assert.True(t, eval.Fallback)
			assert.Equal(t, 70, eval.OverallScore)
			assert.Equal(t, 65, eval.Scores.DepthOfKnowledge)
		})
	}
}

func TestFollowUp(t *testing.T) {
	t.Run("model answer is cleaned", func(t *testing.T) {
		client := &MockLLMClient{
			GenerateContentFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
				assert.Equal(t, llm.TierLite, tier)
				return `Follow-up question: "What did you measure?"`, nil
			},
		}
		got := NewCoach(client, nil).FollowUp(context.Background(), "Engineer", "Q?", "an answer")
		assert.Equal(t, "What did you measure?", got)
	})

	t.Run("model failure uses keyword tables", func(t *testing.T) {
		coach := NewCoach(failingClient(), nil)
		coach.pick = func(int) int { return 0 }
		got := coach.FollowUp(context.Background(), "Engineer", "Q?", "My last project was a search engine")
		assert.Equal(t, "What was the most challenging aspect of that project?", got)
	})

	t.Run("empty model answer and short answer", func(t *testing.T) {
		client := &MockLLMClient{}
		got := NewCoach(client, nil).FollowUp(context.Background(), "Engineer", "Q?", "Yes.")
		assert.Equal(t, DefaultFollowUp, got)
	})
}

func reportSession() *types.Session {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &types.Session{
		ID:              "sess-1",
		Role:            "Backend Engineer",
		ExperienceLevel: types.ExperienceTwoToThree,
		Difficulty:      types.DifficultyMedium,
		Status:          types.StatusCompleted,
		Questions: []types.Question{
			{ID: 1, Question: "Tell me about yourself.", Type: types.QuestionBehavioral},
			{ID: 2, Question: "Explain indexes.", Type: types.QuestionTechnical},
		},
		Answers: []types.Answer{
			{QuestionID: 1, QuestionText: "Tell me about yourself.", AnswerText: "I build APIs.", Score: 80, SubmittedAt: start.Add(3 * time.Minute)},
			{QuestionID: 2, QuestionText: "Explain indexes.", AnswerText: "B-trees speed lookups.", Score: 60, SubmittedAt: start.Add(7 * time.Minute)},
		},
		Scores:          types.SessionScores{Overall: 70, Technical: 65, Communication: 75, ProblemSolving: 68, Confidence: 72},
		SpeechBreakdown: types.ScoreBreakdown{Communication: 70, Confidence: 55, Technical: 60, Pace: 80, FillerWords: 60, Overall: 65},
		ResumeScore:     &types.ATSResult{TotalScore: 72, Grade: "B"},
		CreatedAt:       start,
		StartedAt:       &start,
	}
}

func TestFinalReport_Model(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierAdvanced, tier)
			assert.Contains(t, prompt, "Q2: Explain indexes.")
			assert.Contains(t, prompt, "overall 65")
			return `{"executive_summary": "Strong fundamentals.", "overall_rating": "Hire", "overall_score": 74.4,
				"category_scores": {"technical_skills": 70, "communication": 78, "problem_solving": 72, "cultural_fit": 80, "leadership_potential": 65},
				"key_strengths": ["APIs"], "next_steps": ["System design round"]}`, nil
		},
	}
	coach := NewCoach(client, nil)
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	coach.now = func() time.Time { return fixed }

	report := coach.FinalReport(context.Background(), ReportInput{Session: reportSession(), Duration: 12 * time.Minute})

	assert.False(t, report.Fallback)
	assert.True(t, report.Success)
	assert.Equal(t, "sess-1", report.SessionID)
	assert.Equal(t, "Backend Engineer", report.Role)
	assert.Equal(t, "2-3", report.ExperienceLevel)
	assert.Equal(t, types.RatingHire, report.OverallRating)
	assert.Equal(t, 74, report.OverallScore)
	assert.Equal(t, 80, report.CategoryScores.CulturalFit)
	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, 65, report.SpeechBreakdown.Overall)
	require.NotNil(t, report.ResumeScore)
	assert.Equal(t, 72, report.ResumeScore.TotalScore)

	require.Len(t, report.QASummary, 2)
	assert.Equal(t, "Explain indexes.", report.QASummary[1].Question)
	assert.Equal(t, 60, report.QASummary[1].Score)
}

func TestFinalReport_Fallback(t *testing.T) {
	coach := NewCoach(failingClient(), nil)
	report := coach.FinalReport(context.Background(), ReportInput{Session: reportSession()})

	assert.True(t, report.Fallback)
	assert.Equal(t, 70, report.OverallScore)
	assert.Equal(t, types.RatingHire, report.OverallRating)
	assert.Equal(t, 65, report.CategoryScores.TechnicalSkills)
	assert.Equal(t, 75, report.CategoryScores.CulturalFit)
	assert.Contains(t, report.AreasForImprovement, "Reduce filler words such as \"um\" and \"like\"")
	assert.Contains(t, report.AreasForImprovement, "Use more assertive language when describing your work")
	assert.Len(t, report.QASummary, 2)
}

func TestAnswer(t *testing.T) {
	_, err := NewCoach(nil, nil).Answer(context.Background(), "What is Go?", "")
	require.ErrorIs(t, err, ErrNoModel)

	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			assert.Contains(t, prompt, "Context: career change")
			return "  Go is a compiled language.  ", nil
		},
	}
	answer, err := NewCoach(client, nil).Answer(context.Background(), "What is Go?", "career change")
	require.NoError(t, err)
	assert.Equal(t, "Go is a compiled language.", answer)

	_, err = NewCoach(&MockLLMClient{}, nil).Answer(context.Background(), "What is Go?", "")
	assert.Error(t, err)
}

func TestRelatedTopics(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return `["Go", "Concurrency", "Channels", "Goroutines", "Testing", "Profiling"]`, nil
		},
	}
	topics := NewCoach(client, nil).RelatedTopics(context.Background(), "anything")
	assert.Equal(t, []string{"Go", "Concurrency", "Channels", "Goroutines", "Testing"}, topics)

	topics = NewCoach(failingClient(), nil).RelatedTopics(context.Background(), "Use SQL and a Python API")
	assert.Equal(t, []string{"Python", "Sql", "Api"}, topics)
}

func TestQASummary_MissingQuestionText(t *testing.T) {
	s := &types.Session{
		Questions: []types.Question{{ID: 1, Question: "First?"}},
		Answers:   []types.Answer{{AnswerText: "a"}, {QuestionID: 5, AnswerText: "b"}},
	}
	pairs := QASummary(s)
	require.Len(t, pairs, 2)
	assert.Equal(t, "First?", pairs[0].Question)
	assert.Equal(t, "Question not found", pairs[1].Question)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "Unknown duration", formatDuration(0))
	assert.Equal(t, "12 minutes", formatDuration(12*time.Minute+30*time.Second))
}

func TestCleanFollowUp(t *testing.T) {
	assert.Equal(t, "Why?", cleanFollowUp("  Question: **Why?**  "))
	assert.True(t, strings.HasSuffix(cleanFollowUp("'How did it go?'"), "?"))
}
