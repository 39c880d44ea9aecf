package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/scoring"
	"github.com/jonathan/interview-partner/internal/types"
)

// DefaultTimeout is how long an untouched session lives.
const DefaultTimeout = 120 * time.Minute

// Manager owns the session lifecycle on top of a Store. Every mutation is a
// load-modify-save under one lock, so concurrent requests for the same
// session do not lose updates.
type Manager struct {
	store   Store
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewManager creates a manager. A non-positive timeout uses DefaultTimeout.
func NewManager(store Store, timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, timeout: timeout, logger: logger, now: time.Now}
}

// NewID returns a fresh session id of the form session_<12 hex chars>.
func NewID() string {
	return "session_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Create starts a new, empty session.
func (m *Manager) Create(ctx context.Context, userEmail string) (*types.Session, error) {
	now := m.now()
	s := &types.Session{
		ID:          NewID(),
		UserEmail:   userEmail,
		Status:      types.StatusNotStarted,
		Questions:   []types.Question{},
		Answers:     []types.Answer{},
		CreatedAt:   now,
		LastUpdated: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("created session", zap.String("session_id", s.ID))
	return s, nil
}

func (m *Manager) expired(s *types.Session) bool {
	return m.now().After(s.LastUpdated.Add(m.timeout))
}

// loadLocked loads a live session, deleting it when it has expired.
func (m *Manager) loadLocked(ctx context.Context, id string) (*types.Session, error) {
	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.expired(s) {
		if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			m.logger.Warn("failed to delete expired session", zap.String("session_id", id), zap.Error(err))
		}
		return nil, ErrExpired
	}
	return s, nil
}

// Get returns a live session and refreshes its last-updated time.
func (m *Manager) Get(ctx context.Context, id string) (*types.Session, error) {
	return m.Update(ctx, id, func(*types.Session) error { return nil })
}

// Peek returns a live session without refreshing it.
func (m *Manager) Peek(ctx context.Context, id string) (*types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx, id)
}

// Update applies fn to a live session and saves it. When fn fails nothing is saved.
func (m *Manager) Update(ctx context.Context, id string, fn func(*types.Session) error) (*types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.loadLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.LastUpdated = m.now()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetRole records the interview role.
func (m *Manager) SetRole(ctx context.Context, id, role string) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		s.Role = strings.TrimSpace(role)
		return nil
	})
}

// SetExperience records the experience bracket.
func (m *Manager) SetExperience(ctx context.Context, id string, level types.ExperienceLevel) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		s.ExperienceLevel = level
		return nil
	})
}

// SetDifficulty records the difficulty.
func (m *Manager) SetDifficulty(ctx context.Context, id string, d types.Difficulty) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		s.Difficulty = d
		return nil
	})
}

// SetResume stores resume text and its ATS score.
func (m *Manager) SetResume(ctx context.Context, id, text string, score *types.ATSResult) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		s.ResumeText = text
		s.ResumeScore = score
		return nil
	})
}

// StartInterview installs a fresh question list and resets any previous attempt.
func (m *Manager) StartInterview(ctx context.Context, id string, questions []types.Question) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		now := m.now()
		s.Questions = questions
		s.Answers = []types.Answer{}
		s.CurrentQuestionIndex = 0
		s.Scores = types.SessionScores{}
		s.SpeechBreakdown = types.ScoreBreakdown{}
		s.FinalReport = nil
		s.CompletedAt = nil
		s.StartedAt = &now
		s.Status = types.StatusInProgress
		return nil
	})
}

// SubmitAnswer appends an answer, advances the question index, recomputes the
// running averages and completes the interview once every question is answered.
func (m *Manager) SubmitAnswer(ctx context.Context, id string, answer types.Answer) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		if s.Status == types.StatusCompleted {
			return ErrInterviewComplete
		}
		if answer.SubmittedAt.IsZero() {
			answer.SubmittedAt = m.now()
		}
		if answer.Evaluation != nil && len(answer.ManualScores) == 0 {
			answer.Score = answer.Evaluation.OverallScore
		}
		if s.Status == types.StatusNotStarted {
			now := m.now()
			s.Status = types.StatusInProgress
			s.StartedAt = &now
		}

		s.Answers = append(s.Answers, answer)
		s.CurrentQuestionIndex = len(s.Answers)
		recompute(s)

		if len(s.Questions) > 0 && len(s.Answers) >= len(s.Questions) {
			now := m.now()
			s.Status = types.StatusCompleted
			s.CompletedAt = &now
			m.logger.Info("interview completed", zap.String("session_id", s.ID), zap.Int("overall", s.Scores.Overall))
		}
		return nil
	})
}

// RecordManualScore stores a reviewer override for an answered question.
// An "overall" entry replaces the answer score; otherwise the mean of the
// manual scores does.
func (m *Manager) RecordManualScore(ctx context.Context, id string, questionID int, scores map[string]int, feedback string) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		for i := range s.Answers {
			a := &s.Answers[i]
			if a.QuestionID != questionID {
				continue
			}
			a.ManualScores = scores
			a.ManualFeedback = feedback
			if overall, ok := scores["overall"]; ok {
				a.Score = overall
			} else if len(scores) > 0 {
				sum := 0
				for _, v := range scores {
					sum += v
				}
				a.Score = int(math.Round(float64(sum) / float64(len(scores))))
			}
			recompute(s)
			return nil
		}
		return fmt.Errorf("question %d: %w", questionID, ErrAnswerNotFound)
	})
}

// recompute rebuilds the session averages from the answers, rounding each mean once.
func recompute(s *types.Session) {
	var sum types.SessionScores
	var spoken []types.ScoreBreakdown
	for _, a := range s.Answers {
		sum.Overall += a.Score
		if a.Evaluation != nil {
			ev := a.Evaluation.Scores
			sum.Technical += ev.TechnicalAccuracy
			sum.Communication += ev.CommunicationClarity
			sum.ProblemSolving += ev.ProblemSolving
			sum.Confidence += ev.Confidence
		}
		if a.Speech != nil && a.Speech.WordCount > 0 {
			spoken = append(spoken, a.Speech.Breakdown)
		}
	}
	n := len(s.Answers)
	s.Scores = types.SessionScores{
		Overall:        scoring.Mean(sum.Overall, n),
		Technical:      scoring.Mean(sum.Technical, n),
		Communication:  scoring.Mean(sum.Communication, n),
		ProblemSolving: scoring.Mean(sum.ProblemSolving, n),
		Confidence:     scoring.Mean(sum.Confidence, n),
	}
	s.SpeechBreakdown = scoring.MeanBreakdown(spoken)
}

// NextQuestion returns the question at the current index, or nil when every question has been answered.
func (m *Manager) NextQuestion(ctx context.Context, id string) (*types.Question, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.CurrentQuestionIndex >= len(s.Questions) {
		return nil, nil
	}
	q := s.Questions[s.CurrentQuestionIndex]
	return &q, nil
}

// Progress reports how far the interview has come.
func (m *Manager) Progress(ctx context.Context, id string) (*types.Progress, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ProgressOf(s), nil
}

// ProgressOf computes the progress view of a session.
func ProgressOf(s *types.Session) *types.Progress {
	total, answered := len(s.Questions), len(s.Answers)
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(answered) / float64(total) * 100))
	}
	return &types.Progress{
		SessionID:            s.ID,
		Status:               s.Status,
		TotalQuestions:       total,
		AnsweredQuestions:    answered,
		CurrentQuestionIndex: s.CurrentQuestionIndex,
		ProgressPercentage:   pct,
		Scores:               s.Scores,
		SpeechBreakdown:      s.SpeechBreakdown,
		Role:                 s.Role,
		ExperienceLevel:      s.ExperienceLevel,
		Difficulty:           s.Difficulty,
	}
}

// Summary returns the session with its statistics.
func (m *Manager) Summary(ctx context.Context, id string) (*types.SessionSummary, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return SummaryOf(s), nil
}

// SummaryOf computes the summary view of a session.
func SummaryOf(s *types.Session) *types.SessionSummary {
	total, answered := len(s.Questions), len(s.Answers)
	rate := 0.0
	if total > 0 {
		rate = float64(answered) / float64(total)
	}
	return &types.SessionSummary{
		SessionInfo: types.SessionInfo{
			SessionID:       s.ID,
			Role:            s.Role,
			ExperienceLevel: s.ExperienceLevel,
			Difficulty:      s.Difficulty,
			Status:          s.Status,
			CreatedAt:       s.CreatedAt,
			CompletedAt:     s.CompletedAt,
		},
		Questions:       s.Questions,
		Answers:         s.Answers,
		Scores:          s.Scores,
		SpeechBreakdown: s.SpeechBreakdown,
		Statistics: types.Statistics{
			TotalQuestions:    total,
			QuestionsAnswered: answered,
			AverageScore:      s.Scores.Overall,
			CompletionRate:    rate,
		},
	}
}

// RecordTranscript appends a chat line to the session transcript.
func (m *Manager) RecordTranscript(ctx context.Context, id, speaker, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	_, err := m.Update(ctx, id, func(s *types.Session) error {
		s.Transcript = append(s.Transcript, types.TranscriptEntry{Speaker: speaker, Text: text, At: m.now()})
		return nil
	})
	return err
}

// SaveReport caches the final report on the session.
func (m *Manager) SaveReport(ctx context.Context, id string, report *types.FinalReport) error {
	_, err := m.Update(ctx, id, func(s *types.Session) error {
		s.FinalReport = report
		return nil
	})
	return err
}

// Abandon marks an unfinished interview as abandoned.
func (m *Manager) Abandon(ctx context.Context, id string) (*types.Session, error) {
	return m.Update(ctx, id, func(s *types.Session) error {
		if s.Status != types.StatusCompleted {
			s.Status = types.StatusAbandoned
		}
		return nil
	})
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info("deleted session", zap.String("session_id", id))
	return nil
}

// CleanupExpired deletes every expired session and returns how many were removed.
func (m *Manager) CleanupExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.store.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, s := range sessions {
		if !m.expired(s) {
			continue
		}
		if err := m.store.Delete(ctx, s.ID); err != nil && !errors.Is(err, ErrNotFound) {
			m.logger.Warn("failed to delete expired session", zap.String("session_id", s.ID), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		m.logger.Info("cleaned up expired sessions", zap.Int("count", removed))
	}
	return removed, nil
}

// List returns every live session.
func (m *Manager) List(ctx context.Context) ([]*types.Session, error) {
	if _, err := m.CleanupExpired(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.List(ctx)
}

// Stats counts live sessions by status after removing expired ones.
func (m *Manager) Stats(ctx context.Context) (types.SessionStats, error) {
	sessions, err := m.List(ctx)
	if err != nil {
		return types.SessionStats{}, err
	}
	stats := types.SessionStats{TotalActive: len(sessions)}
	for _, s := range sessions {
		switch s.Status {
		case types.StatusCompleted:
			stats.Completed++
		case types.StatusInProgress:
			stats.InProgress++
		}
	}
	stats.NotStarted = stats.TotalActive - stats.Completed - stats.InProgress
	return stats, nil
}

// RunJanitor removes expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.CleanupExpired(ctx); err != nil {
				m.logger.Warn("session cleanup failed", zap.Error(err))
			}
		}
	}
}
