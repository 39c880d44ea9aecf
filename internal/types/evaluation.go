package types

// EvaluationScores are the per-dimension scores of a single answer.
type EvaluationScores struct {
	TechnicalAccuracy    int `json:"technical_accuracy"`
	CommunicationClarity int `json:"communication_clarity"`
	DepthOfKnowledge     int `json:"depth_of_knowledge"`
	ProblemSolving       int `json:"problem_solving"`
	Confidence           int `json:"confidence"`
}

// AnswerEvaluation is the model's (or the fallback's) verdict on an answer.
type AnswerEvaluation struct {
	OverallScore           int              `json:"overall_score"`
	Scores                 EvaluationScores `json:"scores"`
	Strengths              []string         `json:"strengths"`
	Weaknesses             []string         `json:"weaknesses"`
	DetailedFeedback       string           `json:"detailed_feedback"`
	ImprovementSuggestions []string         `json:"improvement_suggestions"`
	FollowUpQuestions      []string         `json:"follow_up_questions"`
	RedFlags               []string         `json:"red_flags"`
	PositiveIndicators     []string         `json:"positive_indicators"`
	Fallback               bool             `json:"fallback,omitempty"`
}

// AnswerEvaluationResponse is what submit-answer returns to the client.
type AnswerEvaluationResponse struct {
	Success bool `json:"success"`
	AnswerEvaluation
	Speech          *SpeechAnalysis `json:"speech,omitempty"`
	NextQuestion    *Question       `json:"next_question,omitempty"`
	InterviewStatus SessionStatus   `json:"interview_status,omitempty"`
}
