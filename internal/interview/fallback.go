package interview

import (
	"fmt"
	"time"

	"github.com/jonathan/interview-partner/internal/types"
)

// FallbackAnswer is returned when a general question cannot be answered.
const FallbackAnswer = "I apologize, but I'm having trouble processing that question right now. Please try rephrasing or ask something else."

// FallbackQuestions builds up to count questions from the local question bank.
// The first two are the standard introduction and motivation questions; the
// bank holds ten questions per role, so larger counts are truncated.
func FallbackQuestions(role string, difficulty types.Difficulty, count int) []types.Question {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if role == "" {
		role = "this"
	}

	questions := []types.Question{
		{
			Question:           "Tell me about yourself and your experience.",
			Type:               types.QuestionBehavioral,
			FollowUps:          []string{"What interests you most about this role?"},
			EvaluationCriteria: []string{"Communication", "Self-awareness"},
			ExpectedTopics:     []string{"Experience", "Career goals"},
		},
		{
			Question:           fmt.Sprintf("What interests you about the %s position?", role),
			Type:               types.QuestionBehavioral,
			FollowUps:          []string{"How does this align with your career goals?"},
			EvaluationCriteria: []string{"Motivation", "Role understanding"},
			ExpectedTopics:     []string{"Role interest", "Career alignment"},
		},
	}

	// the bank's first two entries are its own introduction and motivation questions
	for _, text := range BankQuestions(role)[2:] {
		if len(questions) >= count {
			break
		}
		questions = append(questions, types.Question{
			Question:           text,
			Type:               bankQuestionType(text),
			FollowUps:          []string{"Can you provide a specific example?"},
			EvaluationCriteria: []string{"Relevance", "Depth", "Clarity"},
			ExpectedTopics:     []string{},
		})
	}

	questions = questions[:min(count, len(questions))]
	for i := range questions {
		questions[i].ID = i + 1
		questions[i].Difficulty = difficulty
	}
	return questions
}

// bankQuestionType guesses the type of a bank question from its opening words.
func bankQuestionType(text string) types.QuestionType {
	switch {
	case hasAnyPrefix(text, "Describe a time", "Tell me about", "Why are you"):
		return types.QuestionBehavioral
	case hasAnyPrefix(text, "How do you handle", "How would you"):
		return types.QuestionSituational
	default:
		return types.QuestionTechnical
	}
}

// FallbackEvaluation is the neutral evaluation used when the model cannot evaluate an answer.
func FallbackEvaluation() types.AnswerEvaluation {
	return types.AnswerEvaluation{
		OverallScore: 70,
		Scores: types.EvaluationScores{
			TechnicalAccuracy:    70,
			CommunicationClarity: 75,
			DepthOfKnowledge:     65,
			ProblemSolving:       70,
			Confidence:           75,
		},
		Strengths:              []string{"Provided a response"},
		Weaknesses:             []string{"Could provide more detail"},
		DetailedFeedback:       "The response shows basic understanding. Consider elaborating on key points.",
		ImprovementSuggestions: []string{"Provide more specific examples", "Elaborate on technical details"},
		FollowUpQuestions:      []string{"Can you provide a specific example?"},
		RedFlags:               []string{},
		PositiveIndicators:     []string{"Attempted to answer"},
		Fallback:               true,
	}
}

// RatingFor maps an overall score onto a hiring rating.
func RatingFor(score int) string {
	switch {
	case score >= 85:
		return types.RatingStrongHire
	case score >= 70:
		return types.RatingHire
	case score >= 50:
		return types.RatingNoHire
	default:
		return types.RatingStrongNoHire
	}
}

// FallbackReport builds a report from the session's running averages.
func FallbackReport(s *types.Session, now time.Time) types.FinalReport {
	scores := s.Scores
	overall := scores.Overall
	if len(s.Answers) == 0 {
		overall = 0
	}

	strengths := []string{"Completed interview process", "Provided thoughtful responses"}
	improvements := []string{"Continue professional development"}
	if s.SpeechBreakdown.FillerWords > 0 && s.SpeechBreakdown.FillerWords < 70 {
		improvements = append(improvements, "Reduce filler words such as \"um\" and \"like\"")
	}
	if s.SpeechBreakdown.Confidence > 0 && s.SpeechBreakdown.Confidence < 60 {
		improvements = append(improvements, "Use more assertive language when describing your work")
	}

	return types.FinalReport{
		Success:          true,
		SessionID:        s.ID,
		Role:             s.Role,
		ExperienceLevel:  string(s.ExperienceLevel),
		Difficulty:       string(s.Difficulty),
		ExecutiveSummary: "Interview completed successfully with automated evaluation.",
		OverallRating:    RatingFor(overall),
		OverallScore:     overall,
		CategoryScores: types.CategoryScores{
			TechnicalSkills:     scores.Technical,
			Communication:       scores.Communication,
			ProblemSolving:      scores.ProblemSolving,
			CulturalFit:         75,
			LeadershipPotential: 70,
		},
		KeyStrengths:          strengths,
		AreasForImprovement:   improvements,
		DetailedAnalysis:      "The candidate participated in the interview process and demonstrated various skills through their responses.",
		Recommendation:        "Consider for further evaluation based on role requirements.",
		NextSteps:             []string{"Technical assessment", "Team interviews", "Reference checks"},
		InterviewHighlights:   []string{"Engaged throughout the interview"},
		RedFlags:              []string{},
		SalaryRangeAssessment: "Market competitive range appropriate",
		GeneratedAt:           now,
		SpeechBreakdown:       s.SpeechBreakdown,
		ResumeScore:           s.ResumeScore,
		Fallback:              true,
	}
}
