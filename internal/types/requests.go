package types

// RoleRequest sets the interview role.
type RoleRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Role      string `json:"role" validate:"required,min=2,max=100"`
}

// ExperienceRequest sets the experience bracket.
type ExperienceRequest struct {
	SessionID  string          `json:"session_id,omitempty"`
	Experience ExperienceLevel `json:"experience" validate:"required,oneof=0 0-1 1-2 2-3 3-5 5+"`
}

// DifficultyRequest sets the difficulty.
type DifficultyRequest struct {
	SessionID  string     `json:"session_id,omitempty"`
	Difficulty Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard expert"`
}

// ResumeUploadRequest carries pasted resume text.
type ResumeUploadRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	FileName   string `json:"file_name,omitempty"`
}

// StartInterviewRequest creates a session and generates questions in one call.
type StartInterviewRequest struct {
	Role            string          `json:"role" validate:"required,min=2,max=100"`
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"required,oneof=0 0-1 1-2 2-3 3-5 5+"`
	Difficulty      Difficulty      `json:"difficulty" validate:"required,oneof=easy medium hard expert"`
	ResumeText      string          `json:"resume_text,omitempty"`
	QuestionCount   int             `json:"question_count,omitempty" validate:"omitempty,min=5,max=20"`
}

// AnswerSubmissionRequest submits one answer for evaluation.
type AnswerSubmissionRequest struct {
	SessionID           string  `json:"session_id" validate:"required"`
	QuestionID          int     `json:"question_id" validate:"min=0"`
	QuestionText        string  `json:"question_text,omitempty"`
	AnswerText          string  `json:"answer_text" validate:"required"`
	ResponseTimeSeconds int     `json:"response_time_seconds,omitempty" validate:"min=0"`
	SpeechDurationSecs  float64 `json:"speech_duration_seconds,omitempty" validate:"min=0"`
}

// FollowUpRequest asks for a follow-up to an answer.
type FollowUpRequest struct {
	SessionID        string `json:"session_id" validate:"required"`
	OriginalQuestion string `json:"original_question" validate:"required"`
	Answer           string `json:"answer" validate:"required"`
}

// BatchEvaluateRequest evaluates several answers at once.
type BatchEvaluateRequest struct {
	SessionID string                    `json:"session_id" validate:"required"`
	Answers   []AnswerSubmissionRequest `json:"answers" validate:"required,min=1,max=20"`
}

// BatchEvaluationItem is one result of a batch evaluation.
type BatchEvaluationItem struct {
	QuestionID int                       `json:"question_id"`
	Success    bool                      `json:"success"`
	Evaluation *AnswerEvaluationResponse `json:"evaluation,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

// ManualScoreRequest records a reviewer override.
type ManualScoreRequest struct {
	SessionID    string         `json:"session_id" validate:"required"`
	QuestionID   int            `json:"question_id" validate:"min=0"`
	ManualScores map[string]int `json:"manual_scores" validate:"required,min=1,dive,min=0,max=100"`
	Feedback     string         `json:"feedback,omitempty"`
}

// GeneralQuestionRequest is a free-form question.
type GeneralQuestionRequest struct {
	Question string `json:"question" validate:"required,min=5,max=500"`
	Context  string `json:"context,omitempty"`
}

// ExplainConceptRequest asks for a concept explanation.
type ExplainConceptRequest struct {
	Concept         string `json:"concept" validate:"required,min=2,max=200"`
	Level           string `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	IncludeExamples *bool  `json:"include_examples,omitempty"`
}

// CodeReviewRequest asks for a code review.
type CodeReviewRequest struct {
	Code       string   `json:"code" validate:"required,min=1,max=20000"`
	Language   string   `json:"language" validate:"required"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// InterviewTipsRequest asks for tailored tips.
type InterviewTipsRequest struct {
	Role            string `json:"role,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	InterviewType   string `json:"interview_type,omitempty" validate:"omitempty,oneof=technical behavioral system_design"`
}

// ReportGenerationRequest asks for the final report.
type ReportGenerationRequest struct {
	SessionID               string `json:"session_id" validate:"required"`
	IncludeDetailedAnalysis *bool  `json:"include_detailed_analysis,omitempty"`
	FormatType              string `json:"format_type,omitempty" validate:"omitempty,oneof=json pdf html"`
	Regenerate              bool   `json:"regenerate,omitempty"`
}

// CompareSessionsRequest compares up to five sessions.
type CompareSessionsRequest struct {
	SessionIDs []string `json:"session_ids" validate:"required,min=1"`
}

// SpeechScoreRequest scores a transcript without touching a session.
type SpeechScoreRequest struct {
	Transcript      string  `json:"transcript"`
	DurationSeconds float64 `json:"duration_seconds,omitempty" validate:"min=0"`
}

// ResumeScoreRequest scores resume text without touching a session.
type ResumeScoreRequest struct {
	ResumeText string `json:"resume_text"`
}

// ChatMessage is a message to the general chat endpoint.
type ChatMessage struct {
	Message   string `json:"message" validate:"required,min=1,max=2000"`
	SessionID string `json:"sessionId,omitempty"`
}

// APIResponse is the generic envelope used by most endpoints.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
