// Package interview runs mock interviews: it asks the model for questions,
// evaluations, follow-ups and reports, falls back to local results when the
// model is unavailable, and keeps session state through the session manager.
package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/llm"
	"github.com/jonathan/interview-partner/internal/logging"
	"github.com/jonathan/interview-partner/internal/prompts"
	"github.com/jonathan/interview-partner/internal/schemas"
	"github.com/jonathan/interview-partner/internal/types"
)

// DefaultQuestionCount is the number of questions generated when none is requested.
const DefaultQuestionCount = 10

const promptFile = "interview.json"

// ErrNoModel is returned by model-backed calls when the coach runs without a client.
var ErrNoModel = errors.New("no language model configured")

// Coach talks to the language model. Every call that feeds the interview
// flow degrades to a deterministic local result instead of failing.
type Coach struct {
	client llm.Client
	logger *zap.Logger
	now    func() time.Time
	pick   FollowUpPicker
}

// NewCoach creates a coach. A nil client makes every call use its fallback.
func NewCoach(client llm.Client, logger *zap.Logger) *Coach {
	return &Coach{
		client: client,
		logger: logging.OrNop(logger),
		now:    time.Now,
		pick:   RandomPicker,
	}
}

// HasModel reports whether a language model is configured.
func (c *Coach) HasModel() bool {
	return c.client != nil
}

// QuestionParams describes the interview to generate questions for.
type QuestionParams struct {
	Role            string
	ExperienceLevel types.ExperienceLevel
	Difficulty      types.Difficulty
	ResumeText      string
	Count           int
}

// GenerateQuestions asks the model for tailored questions. The boolean is
// true when the local question bank was used instead.
func (c *Coach) GenerateQuestions(ctx context.Context, p QuestionParams) ([]types.Question, bool) {
	if p.Count <= 0 {
		p.Count = DefaultQuestionCount
	}

	prompt := llm.JSONPrompt{
		Instructions: prompts.Format(prompts.MustGet(promptFile, "generate-questions"), map[string]string{
			"Count":           fmt.Sprint(p.Count),
			"Role":            orDefault(p.Role, "Software Developer"),
			"ExperienceLevel": orDefault(string(p.ExperienceLevel), "unspecified"),
			"Difficulty":      orDefault(string(p.Difficulty), string(types.DifficultyMedium)),
		}),
		Array: true,
		Fields: []llm.PromptField{
			{Name: "id", Type: "integer", Description: "1-based position"},
			{Name: "question", Type: "string", Description: "the main interview question"},
			{Name: "type", Type: "string", Description: "technical | behavioral | situational | resume-specific"},
			{Name: "difficulty", Type: "string", Description: string(p.Difficulty)},
			{Name: "follow_ups", Type: "[]string", Description: "1-2 follow-up questions"},
			{Name: "evaluation_criteria", Type: "[]string", Description: "what a strong answer shows"},
			{Name: "expected_topics", Type: "[]string", Description: "topics a strong answer covers"},
		},
		Context: []llm.ContextBlock{{Label: "Candidate's Resume", Text: p.ResumeText}},
		Rules: []string{
			fmt.Sprintf("Return exactly %d questions", p.Count),
			"Every question must be a complete sentence ending with a question mark or a clear instruction",
		},
	}

	var raw []rawQuestion
	if err := c.generateJSON(ctx, llm.TierStandard, prompt.Build(), schemas.Questions, &raw); err != nil {
		c.logger.Warn("question generation failed, using question bank",
			zap.String("role", p.Role),
			zap.Bool(logging.FieldFallback, true),
			zap.Error(err),
		)
		return FallbackQuestions(p.Role, p.Difficulty, p.Count), true
	}

	questions := normalizeQuestions(raw, p.Difficulty, p.Count)
	if len(questions) == 0 {
		c.logger.Warn("model returned no usable questions, using question bank", zap.Bool(logging.FieldFallback, true))
		return FallbackQuestions(p.Role, p.Difficulty, p.Count), true
	}
	c.logger.Info("generated questions",
		zap.String("role", p.Role),
		zap.String("difficulty", string(p.Difficulty)),
		zap.Int("count", len(questions)),
		zap.String(logging.FieldModel, c.client.GetModel(llm.TierStandard)),
	)
	return questions, false
}

type rawQuestion struct {
	ID                 int      `json:"id"`
	Question           string   `json:"question"`
	Type               string   `json:"type"`
	Difficulty         string   `json:"difficulty"`
	FollowUps          []string `json:"follow_ups"`
	EvaluationCriteria []string `json:"evaluation_criteria"`
	ExpectedTopics     []string `json:"expected_topics"`
}

// normalizeQuestions renumbers questions 1..n, fixes unknown types and caps the count.
func normalizeQuestions(raw []rawQuestion, difficulty types.Difficulty, count int) []types.Question {
	questions := make([]types.Question, 0, len(raw))
	for _, r := range raw {
		text := strings.TrimSpace(r.Question)
		if text == "" {
			continue
		}
		questions = append(questions, types.Question{
			ID:                 len(questions) + 1,
			Question:           text,
			Type:               questionType(r.Type),
			Difficulty:         difficulty,
			FollowUps:          nonNil(r.FollowUps),
			EvaluationCriteria: nonNil(r.EvaluationCriteria),
			ExpectedTopics:     nonNil(r.ExpectedTopics),
		})
		if len(questions) == count {
			break
		}
	}
	return questions
}

func questionType(s string) types.QuestionType {
	switch t := types.QuestionType(strings.ToLower(strings.TrimSpace(s))); t {
	case types.QuestionTechnical, types.QuestionBehavioral, types.QuestionSituational, types.QuestionResumeSpecific:
		return t
	case "resume_specific", "resume":
		return types.QuestionResumeSpecific
	default:
		return types.QuestionTechnical
	}
}

// EvaluationParams is one answer to evaluate.
type EvaluationParams struct {
	Role            string
	ExperienceLevel types.ExperienceLevel
	Question        string
	Answer          string
	Criteria        []string
}

// EvaluateAnswer scores an answer. Model failures yield FallbackEvaluation.
func (c *Coach) EvaluateAnswer(ctx context.Context, p EvaluationParams) types.AnswerEvaluation {
	criteria := ""
	if len(p.Criteria) > 0 {
		criteria = "Evaluation Criteria: " + strings.Join(p.Criteria, ", ")
	}
	scoreType := "number 0-100"
	prompt := llm.JSONPrompt{
		Instructions: prompts.Format(prompts.MustGet(promptFile, "evaluate-answer"), map[string]string{
			"Role":            orDefault(p.Role, "Software Developer"),
			"ExperienceLevel": orDefault(string(p.ExperienceLevel), "unspecified"),
			"Question":        p.Question,
			"Criteria":        criteria,
		}),
		Fields: []llm.PromptField{
			{Name: "overall_score", Type: scoreType},
			{Name: "scores", Type: "object", Description: "technical_accuracy, communication_clarity, depth_of_knowledge, problem_solving, confidence; each " + scoreType},
			{Name: "strengths", Type: "[]string"},
			{Name: "weaknesses", Type: "[]string"},
			{Name: "detailed_feedback", Type: "string", Description: "one paragraph"},
			{Name: "improvement_suggestions", Type: "[]string"},
			{Name: "follow_up_questions", Type: "[]string"},
			{Name: "red_flags", Type: "[]string", Description: "empty when there are none"},
			{Name: "positive_indicators", Type: "[]string"},
		},
		Context: []llm.ContextBlock{{Label: "Candidate's Answer", Text: p.Answer}},
	}

	var raw rawEvaluation
	if err := c.generateJSON(ctx, llm.TierStandard, prompt.Build(), schemas.Evaluation, &raw); err != nil {
		c.logger.Warn("answer evaluation failed, using neutral evaluation",
			zap.Bool(logging.FieldFallback, true),
			zap.Error(err),
		)
		return FallbackEvaluation()
	}
	return raw.toEvaluation()
}

type rawEvaluation struct {
	OverallScore float64 `json:"overall_score"`
	Scores       struct {
		TechnicalAccuracy    float64 `json:"technical_accuracy"`
		CommunicationClarity float64 `json:"communication_clarity"`
		DepthOfKnowledge     float64 `json:"depth_of_knowledge"`
		ProblemSolving       float64 `json:"problem_solving"`
		Confidence           float64 `json:"confidence"`
	} `json:"scores"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	DetailedFeedback       string   `json:"detailed_feedback"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	FollowUpQuestions      []string `json:"follow_up_questions"`
	RedFlags               []string `json:"red_flags"`
	PositiveIndicators     []string `json:"positive_indicators"`
}

func (r rawEvaluation) toEvaluation() types.AnswerEvaluation {
	return types.AnswerEvaluation{
		OverallScore: score(r.OverallScore),
		Scores: types.EvaluationScores{
			TechnicalAccuracy:    score(r.Scores.TechnicalAccuracy),
			CommunicationClarity: score(r.Scores.CommunicationClarity),
			DepthOfKnowledge:     score(r.Scores.DepthOfKnowledge),
			ProblemSolving:       score(r.Scores.ProblemSolving),
			Confidence:           score(r.Scores.Confidence),
		},
		Strengths:              nonNil(r.Strengths),
		Weaknesses:             nonNil(r.Weaknesses),
		DetailedFeedback:       strings.TrimSpace(r.DetailedFeedback),
		ImprovementSuggestions: nonNil(r.ImprovementSuggestions),
		FollowUpQuestions:      nonNil(r.FollowUpQuestions),
		RedFlags:               nonNil(r.RedFlags),
		PositiveIndicators:     nonNil(r.PositiveIndicators),
	}
}

// FollowUp asks the model for one follow-up question. Without a usable model
// answer the keyword tables are tried, then DefaultFollowUp.
func (c *Coach) FollowUp(ctx context.Context, role, question, answer string) string {
	if c.client != nil {
		prompt := prompts.Format(prompts.MustGet(promptFile, "follow-up"), map[string]string{
			"Role":     orDefault(role, "Software Developer"),
			"Question": question,
			"Answer":   answer,
		})
		text, err := c.client.GenerateContent(ctx, prompt, llm.TierLite)
		if err == nil {
			if followUp := cleanFollowUp(text); followUp != "" {
				return followUp
			}
			err = errors.New("empty follow-up")
		}
		c.logger.Warn("follow-up generation failed", zap.Bool(logging.FieldFallback, true), zap.Error(err))
	}

	if followUp, ok := ContextualFollowUp(answer, c.pick); ok {
		return followUp
	}
	return DefaultFollowUp
}

// ReportInput is what the final report is generated from.
type ReportInput struct {
	Session  *types.Session
	Duration time.Duration
}

// FinalReport asks the model for the end-of-interview report. Failures yield
// FallbackReport built from the session averages. The QA summary, speech
// breakdown and resume score always come from the session.
func (c *Coach) FinalReport(ctx context.Context, in ReportInput) types.FinalReport {
	s := in.Session
	now := c.now()

	report, err := c.modelReport(ctx, in)
	if err != nil {
		c.logger.Warn("report generation failed, using session averages",
			zap.String(logging.FieldSessionID, s.ID),
			zap.Bool(logging.FieldFallback, true),
			zap.Error(err),
		)
		report = FallbackReport(s, now)
	}

	report.Success = true
	report.SessionID = s.ID
	report.Role = s.Role
	report.ExperienceLevel = string(s.ExperienceLevel)
	report.Difficulty = string(s.Difficulty)
	report.GeneratedAt = now
	report.QASummary = QASummary(s)
	report.SpeechBreakdown = s.SpeechBreakdown
	report.ResumeScore = s.ResumeScore
	return report
}

func (c *Coach) modelReport(ctx context.Context, in ReportInput) (types.FinalReport, error) {
	s := in.Session
	sb := s.SpeechBreakdown
	speech := "not recorded"
	if sb != (types.ScoreBreakdown{}) {
		speech = fmt.Sprintf("%d/%d/%d/%d/%d (overall %d)", sb.Communication, sb.Confidence, sb.Technical, sb.Pace, sb.FillerWords, sb.Overall)
	}

	var qa strings.Builder
	for i, a := range s.Answers {
		fmt.Fprintf(&qa, "Q%d: %s\nA%d: %s\nScore: %d/100\n\n", i+1, a.QuestionText, i+1, a.AnswerText, a.Score)
	}

	scoreType := "number 0-100"
	prompt := llm.JSONPrompt{
		Instructions: prompts.Format(prompts.MustGet(promptFile, "final-report"), map[string]string{
			"Role":            orDefault(s.Role, "Not specified"),
			"ExperienceLevel": orDefault(string(s.ExperienceLevel), "Not specified"),
			"Difficulty":      orDefault(string(s.Difficulty), "Not specified"),
			"Duration":        formatDuration(in.Duration),
			"Answered":        fmt.Sprint(len(s.Answers)),
			"Total":           fmt.Sprint(len(s.Questions)),
			"AverageScore":    fmt.Sprint(s.Scores.Overall),
			"QuestionTypes":   strings.Join(questionTypes(s.Questions), ", "),
			"Speech":          speech,
		}),
		Fields: []llm.PromptField{
			{Name: "executive_summary", Type: "string", Description: "brief overall assessment"},
			{Name: "overall_rating", Type: "string", Description: "Strong Hire | Hire | No Hire | Strong No Hire"},
			{Name: "overall_score", Type: scoreType},
			{Name: "category_scores", Type: "object", Description: "technical_skills, communication, problem_solving, cultural_fit, leadership_potential; each " + scoreType},
			{Name: "key_strengths", Type: "[]string"},
			{Name: "areas_for_improvement", Type: "[]string"},
			{Name: "detailed_analysis", Type: "string", Description: "one or two paragraphs"},
			{Name: "recommendation", Type: "string", Description: "hiring recommendation with reasoning"},
			{Name: "next_steps", Type: "[]string"},
			{Name: "interview_highlights", Type: "[]string"},
			{Name: "red_flags", Type: "[]string"},
			{Name: "salary_range_assessment", Type: "string"},
		},
		Context: []llm.ContextBlock{{Label: "Detailed Q&A", Text: qa.String()}},
	}

	var raw rawReport
	if err := c.generateJSON(ctx, llm.TierAdvanced, prompt.Build(), schemas.Report, &raw); err != nil {
		return types.FinalReport{}, err
	}
	return raw.toReport(), nil
}

type rawReport struct {
	ExecutiveSummary string  `json:"executive_summary"`
	OverallRating    string  `json:"overall_rating"`
	OverallScore     float64 `json:"overall_score"`
	CategoryScores   struct {
		TechnicalSkills     float64 `json:"technical_skills"`
		Communication       float64 `json:"communication"`
		ProblemSolving      float64 `json:"problem_solving"`
		CulturalFit         float64 `json:"cultural_fit"`
		LeadershipPotential float64 `json:"leadership_potential"`
	} `json:"category_scores"`
	KeyStrengths          []string `json:"key_strengths"`
	AreasForImprovement   []string `json:"areas_for_improvement"`
	DetailedAnalysis      string   `json:"detailed_analysis"`
	Recommendation        string   `json:"recommendation"`
	NextSteps             []string `json:"next_steps"`
	InterviewHighlights   []string `json:"interview_highlights"`
	RedFlags              []string `json:"red_flags"`
	SalaryRangeAssessment string   `json:"salary_range_assessment"`
}

func (r rawReport) toReport() types.FinalReport {
	return types.FinalReport{
		ExecutiveSummary: strings.TrimSpace(r.ExecutiveSummary),
		OverallRating:    r.OverallRating,
		OverallScore:     score(r.OverallScore),
		CategoryScores: types.CategoryScores{
			TechnicalSkills:     score(r.CategoryScores.TechnicalSkills),
			Communication:       score(r.CategoryScores.Communication),
			ProblemSolving:      score(r.CategoryScores.ProblemSolving),
			CulturalFit:         score(r.CategoryScores.CulturalFit),
			LeadershipPotential: score(r.CategoryScores.LeadershipPotential),
		},
		KeyStrengths:          nonNil(r.KeyStrengths),
		AreasForImprovement:   nonNil(r.AreasForImprovement),
		DetailedAnalysis:      strings.TrimSpace(r.DetailedAnalysis),
		Recommendation:        strings.TrimSpace(r.Recommendation),
		NextSteps:             nonNil(r.NextSteps),
		InterviewHighlights:   nonNil(r.InterviewHighlights),
		RedFlags:              nonNil(r.RedFlags),
		SalaryRangeAssessment: strings.TrimSpace(r.SalaryRangeAssessment),
	}
}

// QASummary lists every answered question with its score.
func QASummary(s *types.Session) []types.QAPair {
	pairs := make([]types.QAPair, 0, len(s.Answers))
	for i, a := range s.Answers {
		id := a.QuestionID
		if id == 0 {
			id = i + 1
		}
		question := a.QuestionText
		if question == "" {
			question = questionText(s.Questions, id)
		}
		pairs = append(pairs, types.QAPair{
			QuestionID: id,
			Question:   question,
			Answer:     a.AnswerText,
			Score:      a.Score,
			AnsweredAt: a.SubmittedAt,
		})
	}
	return pairs
}

func questionText(questions []types.Question, id int) string {
	for _, q := range questions {
		if q.ID == id {
			return q.Question
		}
	}
	return "Question not found"
}

func questionTypes(questions []types.Question) []string {
	seen := make(map[types.QuestionType]bool)
	var out []string
	for _, q := range questions {
		t := q.Type
		if t == "" {
			t = "general"
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, string(t))
		}
	}
	return out
}

// Answer answers a free-form technical or career question.
func (c *Coach) Answer(ctx context.Context, question, extra string) (string, error) {
	if c.client == nil {
		return "", ErrNoModel
	}
	if extra != "" {
		extra = "Context: " + extra
	}
	prompt := prompts.Format(prompts.MustGet(promptFile, "general-question"), map[string]string{
		"Question": question,
		"Context":  extra,
	})
	text, err := c.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("general question failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("general question failed: empty answer")
	}
	return text, nil
}

// RelatedTopics suggests topics related to an answer. The model is asked
// first; keyword extraction is the fallback.
func (c *Coach) RelatedTopics(ctx context.Context, text string) []string {
	if c.client != nil {
		prompt := llm.JSONPrompt{
			Instructions: prompts.MustGet(promptFile, "related-topics"),
			Context:      []llm.ContextBlock{{Label: "Answer", Text: text}},
			Rules:        []string{"Return a JSON array of strings, not objects"},
		}.Build()
		var topics []string
		err := c.generateJSON(ctx, llm.TierLite, prompt, schemas.Topics, &topics)
		if err == nil && len(topics) > 0 {
			return capStrings(topics, MaxRelatedTopics)
		}
		c.logger.Debug("related topics fell back to keywords", zap.Error(err))
	}
	return ExtractTopics(text)
}

// generateJSON runs a JSON prompt, validates the payload against a schema and decodes it into out.
func (c *Coach) generateJSON(ctx context.Context, tier llm.ModelTier, prompt string, schema schemas.Name, out any) error {
	if c.client == nil {
		return ErrNoModel
	}

	resp, err := c.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return fmt.Errorf("LLM generation failed: %w", err)
	}

	payload := llm.CleanJSONBlock(resp)
	if err := schemas.Validate(schema, []byte(payload)); err != nil {
		return fmt.Errorf("invalid %s payload: %w", schema, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, logging.TruncateForLog(payload, 200))
	}
	return nil
}

func score(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func nonNil(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func capStrings(s []string, n int) []string {
	s = nonNil(s)
	if len(s) > n {
		return s[:n]
	}
	return s
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "Unknown duration"
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
