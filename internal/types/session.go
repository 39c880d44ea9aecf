package types

import "time"

// ExperienceLevel is the candidate's years-of-experience bracket.
type ExperienceLevel string

// Experience brackets offered by the setup flow.
const (
	ExperienceFresher     ExperienceLevel = "0"
	ExperienceZeroToOne   ExperienceLevel = "0-1"
	ExperienceOneToTwo    ExperienceLevel = "1-2"
	ExperienceTwoToThree  ExperienceLevel = "2-3"
	ExperienceThreeToFive ExperienceLevel = "3-5"
	ExperienceFivePlus    ExperienceLevel = "5+"
)

// Difficulty is the requested interview difficulty.
type Difficulty string

// Difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// SessionStatus tracks where a session is in the interview flow.
type SessionStatus string

// Session statuses.
const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// SessionScores are running averages of the AI evaluation scores.
type SessionScores struct {
	Overall        int `json:"overall"`
	Technical      int `json:"technical"`
	Communication  int `json:"communication"`
	ProblemSolving int `json:"problem_solving"`
	Confidence     int `json:"confidence"`
}

// TranscriptEntry is one line of the interview chat.
type TranscriptEntry struct {
	Speaker string    `json:"speaker"` // interviewer or candidate
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Transcript speakers.
const (
	SpeakerInterviewer = "interviewer"
	SpeakerCandidate   = "candidate"
)

// Answer is a submitted answer with everything computed for it.
type Answer struct {
	QuestionID          int               `json:"question_id"`
	QuestionText        string            `json:"question_text"`
	QuestionType        QuestionType      `json:"question_type,omitempty"`
	AnswerText          string            `json:"answer_text"`
	ResponseTimeSeconds int               `json:"response_time_seconds,omitempty"`
	Evaluation          *AnswerEvaluation `json:"evaluation,omitempty"`
	Speech              *SpeechAnalysis   `json:"speech,omitempty"`
	ManualScores        map[string]int    `json:"manual_scores,omitempty"`
	ManualFeedback      string            `json:"manual_feedback,omitempty"`
	Score               int               `json:"score"`
	SubmittedAt         time.Time         `json:"submitted_at"`
}

// Session is the whole state of one user's practice interview.
type Session struct {
	ID                   string            `json:"session_id"`
	UserEmail            string            `json:"user_email,omitempty"`
	Role                 string            `json:"role,omitempty"`
	ExperienceLevel      ExperienceLevel   `json:"experience_level,omitempty"`
	Difficulty           Difficulty        `json:"difficulty,omitempty"`
	ResumeText           string            `json:"resume_text,omitempty"`
	ResumeScore          *ATSResult        `json:"resume_score,omitempty"`
	Status               SessionStatus     `json:"status"`
	Questions            []Question        `json:"questions"`
	Answers              []Answer          `json:"answers"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	Scores               SessionScores     `json:"scores"`
	SpeechBreakdown      ScoreBreakdown    `json:"speech_breakdown"`
	Transcript           []TranscriptEntry `json:"transcript,omitempty"`
	FinalReport          *FinalReport      `json:"final_report,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	LastUpdated          time.Time         `json:"last_updated"`
	StartedAt            *time.Time        `json:"interview_started_at,omitempty"`
	CompletedAt          *time.Time        `json:"completed_at,omitempty"`
}

// Progress summarises how far a session has come.
type Progress struct {
	SessionID            string          `json:"session_id"`
	Status               SessionStatus   `json:"status"`
	TotalQuestions       int             `json:"total_questions"`
	AnsweredQuestions    int             `json:"answered_questions"`
	CurrentQuestionIndex int             `json:"current_question_index"`
	ProgressPercentage   int             `json:"progress_percentage"`
	Scores               SessionScores   `json:"scores"`
	SpeechBreakdown      ScoreBreakdown  `json:"speech_breakdown"`
	Role                 string          `json:"role,omitempty"`
	ExperienceLevel      ExperienceLevel `json:"experience_level,omitempty"`
	Difficulty           Difficulty      `json:"difficulty,omitempty"`
}

// SessionStats counts live sessions by status.
type SessionStats struct {
	TotalActive int `json:"total_active_sessions"`
	Completed   int `json:"completed_sessions"`
	InProgress  int `json:"in_progress_sessions"`
	NotStarted  int `json:"not_started_sessions"`
}

// Statistics is the numeric part of an interview summary.
type Statistics struct {
	TotalQuestions    int     `json:"total_questions"`
	QuestionsAnswered int     `json:"questions_answered"`
	AverageScore      int     `json:"average_score"`
	CompletionRate    float64 `json:"completion_rate"`
}

// SessionInfo is the header of an interview summary.
type SessionInfo struct {
	SessionID       string          `json:"session_id"`
	Role            string          `json:"role,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	Difficulty      Difficulty      `json:"difficulty,omitempty"`
	Status          SessionStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// SessionSummary is the full record of an interview with its statistics.
type SessionSummary struct {
	SessionInfo     SessionInfo    `json:"session_info"`
	Questions       []Question     `json:"questions"`
	Answers         []Answer       `json:"answers"`
	Scores          SessionScores  `json:"scores"`
	SpeechBreakdown ScoreBreakdown `json:"speech_breakdown"`
	Statistics      Statistics     `json:"statistics"`
}
