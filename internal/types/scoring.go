package types

// SpeechAnalysis is the heuristic reading of one transcribed answer.
type SpeechAnalysis struct {
	WordCount         int            `json:"word_count"`
	SentenceCount     int            `json:"sentence_count"`
	FillerCount       int            `json:"filler_count"`
	FillerRatio       float64        `json:"filler_ratio"`
	FillersFound      map[string]int `json:"fillers_found,omitempty"`
	HedgeCount        int            `json:"hedge_count"`
	AssertiveCount    int            `json:"assertive_count"`
	TechnicalTerms    []string       `json:"technical_terms,omitempty"`
	WordsPerMinute    float64        `json:"words_per_minute"`
	AvgSentenceLength float64        `json:"avg_sentence_length"`
	ClarityScore      int            `json:"clarity_score"`
	ConfidenceScore   int            `json:"confidence_score"`
	Breakdown         ScoreBreakdown `json:"breakdown"`
	Feedback          []string       `json:"feedback,omitempty"`
}

// ScoreBreakdown is the per-category view summarised into one overall score.
type ScoreBreakdown struct {
	Communication int `json:"communication"`
	Confidence    int `json:"confidence"`
	Technical     int `json:"technical"`
	Pace          int `json:"pace"`
	FillerWords   int `json:"filler_words"`
	Overall       int `json:"overall"`
}

// CategoryScore is one weighted ATS category.
type CategoryScore struct {
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Details  []string `json:"details,omitempty"`
}

// ATSResult is the heuristic applicant-tracking-system score of a resume.
type ATSResult struct {
	TotalScore    int             `json:"total_score"`
	Grade         string          `json:"grade"`
	WordCount     int             `json:"word_count"`
	Categories    []CategoryScore `json:"categories"`
	MatchedSkills []string        `json:"matched_skills"`
	ActionVerbs   []string        `json:"action_verbs"`
	Suggestions   []string        `json:"suggestions"`
}

// Category returns the named category, or a zero value when absent.
func (r ATSResult) Category(name string) CategoryScore {
	for _, c := range r.Categories {
		if c.Name == name {
			return c
		}
	}
	return CategoryScore{Name: name}
}
