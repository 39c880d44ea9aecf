package types

// QuestionType classifies an interview question.
type QuestionType string

// Question types.
const (
	QuestionTechnical      QuestionType = "technical"
	QuestionBehavioral     QuestionType = "behavioral"
	QuestionSituational    QuestionType = "situational"
	QuestionResumeSpecific QuestionType = "resume-specific"
)

// Question is one interview question, either generated by the model or taken from the local bank.
type Question struct {
	ID                 int          `json:"id"`
	Question           string       `json:"question"`
	Type               QuestionType `json:"type"`
	Difficulty         Difficulty   `json:"difficulty"`
	FollowUps          []string     `json:"follow_ups"`
	EvaluationCriteria []string     `json:"evaluation_criteria"`
	ExpectedTopics     []string     `json:"expected_topics"`
}

// QuestionGenerationResponse is returned after an interview is set up.
type QuestionGenerationResponse struct {
	Success                  bool       `json:"success"`
	SessionID                string     `json:"session_id"`
	Questions                []Question `json:"questions"`
	TotalQuestions           int        `json:"total_questions"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	Fallback                 bool       `json:"fallback,omitempty"`
}

// GeneralQuestionResponse answers a free-form technical or career question.
type GeneralQuestionResponse struct {
	Success       bool     `json:"success"`
	Answer        string   `json:"answer"`
	RelatedTopics []string `json:"related_topics"`
}
