package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-partner/internal/types"
)

func TestDurationFor(t *testing.T) {
	assert.Equal(t, 20, DurationFor(types.DifficultyEasy))
	assert.Equal(t, 30, DurationFor(types.DifficultyMedium))
	assert.Equal(t, 45, DurationFor(types.DifficultyHard))
	assert.Equal(t, 60, DurationFor(types.DifficultyExpert))
}

func TestScoringCriteria_WeightsSumTo100(t *testing.T) {
	total := 0
	for _, c := range ScoringCriteria {
		total += c.Weight
	}
	assert.Equal(t, 100, total)
}

func TestTips(t *testing.T) {
	tests := []struct {
		name          string
		role          string
		experience    string
		interviewType string
		wantLen       int
		wantContains  string
	}{
		{name: "technical fresher", experience: "0-1", interviewType: "technical", wantLen: 9, wantContains: "Focus on fundamental data structures and algorithms"},
		{name: "technical experienced", experience: "5+", interviewType: "", wantLen: 9, wantContains: "Discuss trade-offs in your technical decisions"},
		{name: "technical mid-level", experience: "2-3", interviewType: "technical", wantLen: 5, wantContains: "Test your code with edge cases"},
		{name: "behavioral with role", role: "Frontend Developer", interviewType: "behavioral", wantLen: 7, wantContains: "Know CSS and responsive design"},
		{name: "capped", role: "software developer", experience: "fresher", interviewType: "technical", wantLen: MaxTips, wantContains: "Think out loud during problem-solving"},
		{name: "system design", interviewType: "system_design", wantLen: 5, wantContains: "Think about scalability from the beginning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tips := Tips(tt.role, tt.experience, tt.interviewType)
			assert.Len(t, tips, tt.wantLen)
			assert.Contains(t, tips, tt.wantContains)
		})
	}
}

func TestBankQuestions(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{role: "Software Developer", want: "software_developer"},
		{role: "data-scientist", want: "data_scientist"},
		{role: "Machine Learning Engineer", want: "data_scientist"},
		{role: "Senior Product Owner", want: "product_manager"},
		{role: "DevOps Engineer", want: "software_developer"},
		{role: "", want: "software_developer"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, roleKey(tt.role))
			assert.Len(t, BankQuestions(tt.role), 10)
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Roles, 10)
	assert.Len(t, c.Difficulties, 4)
	assert.NotEmpty(t, c.ExperienceLevels)
	assert.NotEmpty(t, c.QuestionTypes)
}
