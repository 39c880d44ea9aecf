package types

import "time"

// CategoryScores are the report-level radar categories produced by the model.
type CategoryScores struct {
	TechnicalSkills     int `json:"technical_skills"`
	Communication       int `json:"communication"`
	ProblemSolving      int `json:"problem_solving"`
	CulturalFit         int `json:"cultural_fit"`
	LeadershipPotential int `json:"leadership_potential"`
}

// QAPair is one question/answer line of the report.
type QAPair struct {
	QuestionID int       `json:"question_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Score      int       `json:"score"`
	AnsweredAt time.Time `json:"answered_at"`
}

// FinalReport is the end-of-interview report.
type FinalReport struct {
	Success               bool           `json:"success"`
	SessionID             string         `json:"session_id"`
	Role                  string         `json:"role,omitempty"`
	ExperienceLevel       string         `json:"experience_level,omitempty"`
	Difficulty            string         `json:"difficulty,omitempty"`
	ExecutiveSummary      string         `json:"executive_summary"`
	OverallRating         string         `json:"overall_rating"`
	OverallScore          int            `json:"overall_score"`
	CategoryScores        CategoryScores `json:"category_scores"`
	KeyStrengths          []string       `json:"key_strengths"`
	AreasForImprovement   []string       `json:"areas_for_improvement"`
	DetailedAnalysis      string         `json:"detailed_analysis"`
	Recommendation        string         `json:"recommendation"`
	NextSteps             []string       `json:"next_steps"`
	InterviewHighlights   []string       `json:"interview_highlights"`
	RedFlags              []string       `json:"red_flags"`
	SalaryRangeAssessment string         `json:"salary_range_assessment"`
	GeneratedAt           time.Time      `json:"generated_at"`
	QASummary             []QAPair       `json:"qa_summary"`
	SpeechBreakdown       ScoreBreakdown `json:"speech_breakdown"`
	ResumeScore           *ATSResult     `json:"resume_score,omitempty"`
	Fallback              bool           `json:"fallback,omitempty"`
}

// Overall ratings used by reports.
const (
	RatingStrongHire   = "Strong Hire"
	RatingHire         = "Hire"
	RatingNoHire       = "No Hire"
	RatingStrongNoHire = "Strong No Hire"
)
