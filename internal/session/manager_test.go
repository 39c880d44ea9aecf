package session

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-partner/internal/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	m := NewManager(newTestFileStore(t), time.Hour, nil)
	m.now = clock.Now
	return m, clock
}

func questions(n int) []types.Question {
	qs := make([]types.Question, n)
	for i := range qs {
		qs[i] = types.Question{ID: i + 1, Question: "Question?", Type: types.QuestionTechnical}
	}
	return qs
}

func evaluated(qid, overall, tech, comm int) types.Answer {
	return types.Answer{
		QuestionID: qid,
		AnswerText: "answer",
		Evaluation: &types.AnswerEvaluation{
			OverallScore: overall,
			Scores: types.EvaluationScores{
				TechnicalAccuracy:    tech,
				CommunicationClarity: comm,
				ProblemSolving:       overall,
				Confidence:           overall,
			},
		},
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.Regexp(t, regexp.MustCompile(`^session_[0-9a-f]{12}$`), id)
	assert.NotEqual(t, id, NewID())
}

func TestManager_CreateAndSetup(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	s, err := m.Create(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, types.StatusNotStarted, s.Status)

	_, err = m.SetRole(ctx, s.ID, "  Backend Engineer ")
	require.NoError(t, err)
	_, err = m.SetExperience(ctx, s.ID, types.ExperienceTwoToThree)
	require.NoError(t, err)
	_, err = m.SetDifficulty(ctx, s.ID, types.DifficultyHard)
	require.NoError(t, err)
	got, err := m.SetResume(ctx, s.ID, "resume text", &types.ATSResult{TotalScore: 55})
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", got.Role)
	assert.Equal(t, types.ExperienceTwoToThree, got.ExperienceLevel)
	assert.Equal(t, types.DifficultyHard, got.Difficulty)
	assert.Equal(t, 55, got.ResumeScore.TotalScore)
	assert.Equal(t, "test@example.com", got.UserEmail)
}

func TestManager_UnknownSession(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Get(context.Background(), "session_nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestManager_Expiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t)

	s, err := m.Create(ctx, "")
	require.NoError(t, err)

	clock.Advance(50 * time.Minute)
	_, err = m.Get(ctx, s.ID) // touches
	require.NoError(t, err)

	clock.Advance(50 * time.Minute)
	_, err = m.Get(ctx, s.ID)
	require.NoError(t, err, "touch should have extended the session")

	clock.Advance(61 * time.Minute)
	_, err = m.Get(ctx, s.ID)
	assert.True(t, errors.Is(err, ErrExpired))

	_, err = m.Get(ctx, s.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "expired session is deleted")
}

func TestManager_InterviewFlow(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	s, err := m.Create(ctx, "")
	require.NoError(t, err)
	_, err = m.StartInterview(ctx, s.ID, questions(2))
	require.NoError(t, err)

	next, err := m.NextQuestion(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 1, next.ID)

	got, err := m.SubmitAnswer(ctx, s.ID, evaluated(1, 80, 70, 90))
	require.NoError(t, err)
	assert.Equal(t, types.StatusInProgress, got.Status)
	assert.Equal(t, 1, got.CurrentQuestionIndex)
	assert.Equal(t, 80, got.Scores.Overall)

	progress, err := m.Progress(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, progress.ProgressPercentage)

	got, err = m.SubmitAnswer(ctx, s.ID, evaluated(2, 60, 50, 70))
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, types.SessionScores{Overall: 70, Technical: 60, Communication: 80, ProblemSolving: 70, Confidence: 70}, got.Scores)

	next, err = m.NextQuestion(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, next)

	_, err = m.SubmitAnswer(ctx, s.ID, evaluated(3, 60, 50, 70))
	assert.True(t, errors.Is(err, ErrInterviewComplete))

	summary, err := m.Summary(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Statistics.QuestionsAnswered)
	assert.InDelta(t, 1.0, summary.Statistics.CompletionRate, 0.001)
	assert.Equal(t, 70, summary.Statistics.AverageScore)
}

func TestManager_SpeechBreakdownAverages(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	s, _ := m.Create(ctx, "")
	_, err := m.StartInterview(ctx, s.ID, questions(3))
	require.NoError(t, err)

	a1 := evaluated(1, 70, 70, 70)
	a1.Speech = &types.SpeechAnalysis{WordCount: 40, Breakdown: types.ScoreBreakdown{Communication: 80, Confidence: 60, Technical: 40, Pace: 60, FillerWords: 100}}
	a2 := evaluated(2, 70, 70, 70)
	a2.Speech = &types.SpeechAnalysis{WordCount: 40, Breakdown: types.ScoreBreakdown{Communication: 60, Confidence: 80, Technical: 60, Pace: 100, FillerWords: 80}}
	a3 := evaluated(3, 70, 70, 70) // typed answer, no speech

	_, err = m.SubmitAnswer(ctx, s.ID, a1)
	require.NoError(t, err)
	_, err = m.SubmitAnswer(ctx, s.ID, a2)
	require.NoError(t, err)
	got, err := m.SubmitAnswer(ctx, s.ID, a3)
	require.NoError(t, err)

	assert.Equal(t, 70, got.SpeechBreakdown.Communication)
	assert.Equal(t, 80, got.SpeechBreakdown.Pace)
}

func TestManager_AveragesRoundOnce(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	s, _ := m.Create(ctx, "")
	_, err := m.StartInterview(ctx, s.ID, questions(30))
	require.NoError(t, err)

	overall := []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	var got *types.Session
	for i, score := range overall {
		got, err = m.SubmitAnswer(ctx, s.ID, evaluated(i+1, score, score, score))
		require.NoError(t, err)
	}
	assert.Equal(t, types.SessionScores{}, got.Scores, "mean of 0.1 rounds to 0")

	for i := 0; i < 20; i++ {
		_, err = m.SubmitAnswer(ctx, s.ID, evaluated(11+i, 100, 100, 100))
		require.NoError(t, err)
	}
	// 2001 / 30
	assert.Equal(t, 67, mustGet(t, m, s.ID).Scores.Overall)
}

func mustGet(t *testing.T, m *Manager, id string) *types.Session {
	t.Helper()
	s, err := m.Peek(context.Background(), id)
	require.NoError(t, err)
	return s
}

func TestManager_RecordManualScore(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	s, _ := m.Create(ctx, "")
	_, _ = m.StartInterview(ctx, s.ID, questions(2))
	_, err := m.SubmitAnswer(ctx, s.ID, evaluated(1, 50, 50, 50))
	require.NoError(t, err)

	got, err := m.RecordManualScore(ctx, s.ID, 1, map[string]int{"technical": 90, "communication": 70}, "better than the AI thought")
	require.NoError(t, err)
	assert.Equal(t, 80, got.Answers[0].Score)
	assert.Equal(t, 80, got.Scores.Overall)
	assert.Equal(t, "better than the AI thought", got.Answers[0].ManualFeedback)

	got, err = m.RecordManualScore(ctx, s.ID, 1, map[string]int{"overall": 65}, "")
	require.NoError(t, err)
	assert.Equal(t, 65, got.Scores.Overall)

	_, err = m.RecordManualScore(ctx, s.ID, 2, map[string]int{"overall": 65}, "")
	assert.True(t, errors.Is(err, ErrAnswerNotFound))
}

func TestManager_TranscriptReportAndAbandon(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	s, _ := m.Create(ctx, "")
	require.NoError(t, m.RecordTranscript(ctx, s.ID, types.SpeakerInterviewer, "Welcome!"))
	require.NoError(t, m.RecordTranscript(ctx, s.ID, types.SpeakerCandidate, "   "))
	require.NoError(t, m.SaveReport(ctx, s.ID, &types.FinalReport{OverallRating: types.RatingHire}))

	got, err := m.Abandon(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Transcript, 1)
	assert.Equal(t, types.RatingHire, got.FinalReport.OverallRating)
	assert.Equal(t, types.StatusAbandoned, got.Status)
}

func TestManager_CleanupAndStats(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t)

	old, _ := m.Create(ctx, "")
	clock.Advance(2 * time.Hour)

	fresh, _ := m.Create(ctx, "")
	running, _ := m.Create(ctx, "")
	_, err := m.StartInterview(ctx, running.ID, questions(1))
	require.NoError(t, err)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.SessionStats{TotalActive: 2, InProgress: 1, NotStarted: 1}, stats)

	_, err = m.Peek(ctx, old.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = m.Peek(ctx, fresh.ID)
	assert.NoError(t, err)

	require.NoError(t, m.Delete(ctx, fresh.ID))
	assert.True(t, errors.Is(m.Delete(ctx, fresh.ID), ErrNotFound))
}

func TestManager_RunJanitorStopsOnCancel(t *testing.T) {
	m, _ := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
