package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-partner/internal/ingestion"
	"github.com/jonathan/interview-partner/internal/logging"
	"github.com/jonathan/interview-partner/internal/prompts"
	"github.com/jonathan/interview-partner/internal/scoring"
	"github.com/jonathan/interview-partner/internal/session"
	"github.com/jonathan/interview-partner/internal/types"
)

// Options bounds the interview flow.
type Options struct {
	DefaultQuestionCount int
	MinAnswerLength      int
	MaxAnswerLength      int
	MinResumeChars       int
	BatchConcurrency     int
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{
		DefaultQuestionCount: DefaultQuestionCount,
		MinAnswerLength:      10,
		MaxAnswerLength:      5000,
		MinResumeChars:       scoring.DefaultMinResumeChars,
		BatchConcurrency:     4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DefaultQuestionCount <= 0 {
		o.DefaultQuestionCount = d.DefaultQuestionCount
	}
	if o.MinAnswerLength <= 0 {
		o.MinAnswerLength = d.MinAnswerLength
	}
	if o.MaxAnswerLength <= 0 {
		o.MaxAnswerLength = d.MaxAnswerLength
	}
	if o.MinResumeChars <= 0 {
		o.MinResumeChars = d.MinResumeChars
	}
	if o.BatchConcurrency <= 0 {
		o.BatchConcurrency = d.BatchConcurrency
	}
	return o
}

// Service orchestrates interviews on top of the session manager and the coach.
type Service struct {
	sessions *session.Manager
	coach    *Coach
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a service. Zero option fields take their defaults.
func NewService(sessions *session.Manager, coach *Coach, opts Options, logger *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		coach:    coach,
		opts:     opts.withDefaults(),
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// Sessions exposes the session manager.
func (s *Service) Sessions() *session.Manager { return s.sessions }

// Coach exposes the model-backed coach.
func (s *Service) Coach() *Coach { return s.coach }

// Options returns the effective limits.
func (s *Service) Options() Options { return s.opts }

// CreateSession starts an empty session for a user.
func (s *Service) CreateSession(ctx context.Context, userEmail string) (*types.Session, error) {
	return s.sessions.Create(ctx, userEmail)
}

// SetupInterview records the interview settings on a session (creating one
// when sessionID is empty), stores the resume if given and generates questions.
func (s *Service) SetupInterview(ctx context.Context, sessionID, userEmail string, req types.StartInterviewRequest) (*types.QuestionGenerationResponse, error) {
	if sessionID == "" {
		sess, err := s.sessions.Create(ctx, userEmail)
		if err != nil {
			return nil, err
		}
		sessionID = sess.ID
	}

	_, err := s.sessions.Update(ctx, sessionID, func(sess *types.Session) error {
		sess.Role = strings.TrimSpace(req.Role)
		sess.ExperienceLevel = req.ExperienceLevel
		sess.Difficulty = req.Difficulty
		return nil
	})
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.ResumeText) != "" {
		if _, err := s.SetResume(ctx, sessionID, req.ResumeText); err != nil {
			return nil, err
		}
	}

	return s.GenerateQuestions(ctx, sessionID, req.QuestionCount)
}

// GenerateQuestions (re)generates the question list of a session from its
// current settings and starts the interview.
func (s *Service) GenerateQuestions(ctx context.Context, sessionID string, count int) (*types.QuestionGenerationResponse, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = s.opts.DefaultQuestionCount
	}

	questions, fallback := s.coach.GenerateQuestions(ctx, QuestionParams{
		Role:            sess.Role,
		ExperienceLevel: sess.ExperienceLevel,
		Difficulty:      sess.Difficulty,
		ResumeText:      sess.ResumeText,
		Count:           count,
	})

	if _, err := s.sessions.StartInterview(ctx, sessionID, questions); err != nil {
		return nil, err
	}
	if len(questions) > 0 {
		s.recordTranscript(ctx, sessionID, types.SpeakerInterviewer, questions[0].Question)
	}

	logging.Session(s.logger, sessionID).Info("interview set up",
		zap.String("role", sess.Role),
		zap.Int("questions", len(questions)),
		zap.Bool(logging.FieldFallback, fallback),
	)
	return &types.QuestionGenerationResponse{
		Success:                  true,
		SessionID:                sessionID,
		Questions:                questions,
		TotalQuestions:           len(questions),
		EstimatedDurationMinutes: len(questions) * MinutesPerQuestion,
		Fallback:                 fallback,
	}, nil
}

// SetResume cleans, validates and scores resume text and stores it on the session.
func (s *Service) SetResume(ctx context.Context, sessionID, text string) (*types.ATSResult, error) {
	cleaned := ingestion.CleanText(text)
	if err := scoring.ValidateResumeText(cleaned, s.opts.MinResumeChars); err != nil {
		return nil, err
	}
	result := scoring.ScoreResume(cleaned)
	if _, err := s.sessions.SetResume(ctx, sessionID, cleaned, &result); err != nil {
		return nil, err
	}
	logging.Session(s.logger, sessionID).Info("resume stored",
		zap.Int("ats_score", result.TotalScore),
		zap.Int("words", result.WordCount),
	)
	return &result, nil
}

// NextQuestion returns the next unanswered question, or nil when the interview is done.
func (s *Service) NextQuestion(ctx context.Context, sessionID string) (*types.Question, error) {
	return s.sessions.NextQuestion(ctx, sessionID)
}

// Progress reports interview progress.
func (s *Service) Progress(ctx context.Context, sessionID string) (*types.Progress, error) {
	return s.sessions.Progress(ctx, sessionID)
}

// EvaluationHistory returns the answers, scores and statistics of a session.
func (s *Service) EvaluationHistory(ctx context.Context, sessionID string) (*types.SessionSummary, error) {
	return s.sessions.Summary(ctx, sessionID)
}

// ValidateAnswer checks the answer length in characters after trimming.
func (s *Service) ValidateAnswer(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < s.opts.MinAnswerLength || n > s.opts.MaxAnswerLength {
		return &AnswerLengthError{Length: n, Min: s.opts.MinAnswerLength, Max: s.opts.MaxAnswerLength}
	}
	return nil
}

// evaluated is an answer that has been scored but not yet stored.
type evaluated struct {
	answer types.Answer
}

// evaluate scores one answer against the session it belongs to.
func (s *Service) evaluate(ctx context.Context, sess *types.Session, req types.AnswerSubmissionRequest) (*evaluated, error) {
	if err := s.ValidateAnswer(req.AnswerText); err != nil {
		return nil, err
	}

	var question *types.Question
	for i := range sess.Questions {
		if sess.Questions[i].ID == req.QuestionID {
			question = &sess.Questions[i]
			break
		}
	}

	text := strings.TrimSpace(req.QuestionText)
	var criteria []string
	var qType types.QuestionType
	if question != nil {
		if text == "" {
			text = question.Question
		}
		criteria = question.EvaluationCriteria
		qType = question.Type
	}
	if text == "" {
		return nil, fmt.Errorf("question %d: %w", req.QuestionID, ErrNoQuestions)
	}

	answerText := strings.TrimSpace(req.AnswerText)
	evaluation := s.coach.EvaluateAnswer(ctx, EvaluationParams{
		Role:            sess.Role,
		ExperienceLevel: sess.ExperienceLevel,
		Question:        text,
		Answer:          answerText,
		Criteria:        criteria,
	})
	speech := scoring.AnalyzeSpeech(answerText, req.SpeechDurationSecs)

	return &evaluated{answer: types.Answer{
		QuestionID:          req.QuestionID,
		QuestionText:        text,
		QuestionType:        qType,
		AnswerText:          answerText,
		ResponseTimeSeconds: req.ResponseTimeSeconds,
		Evaluation:          &evaluation,
		Speech:              &speech,
	}}, nil
}

// store persists an evaluated answer and builds the client response.
func (s *Service) store(ctx context.Context, sessionID string, ev *evaluated) (*types.AnswerEvaluationResponse, error) {
	updated, err := s.sessions.SubmitAnswer(ctx, sessionID, ev.answer)
	if err != nil {
		return nil, err
	}

	s.recordTranscript(ctx, sessionID, types.SpeakerCandidate, ev.answer.AnswerText)

	var next *types.Question
	if updated.CurrentQuestionIndex < len(updated.Questions) {
		q := updated.Questions[updated.CurrentQuestionIndex]
		next = &q
		s.recordTranscript(ctx, sessionID, types.SpeakerInterviewer, q.Question)
	}

	logging.Session(s.logger, sessionID).Info("answer evaluated",
		zap.Int("question_id", ev.answer.QuestionID),
		zap.Int("score", ev.answer.Evaluation.OverallScore),
		zap.Int("speech_overall", ev.answer.Speech.Breakdown.Overall),
		zap.Bool(logging.FieldFallback, ev.answer.Evaluation.Fallback),
	)
	return &types.AnswerEvaluationResponse{
		Success:          true,
		AnswerEvaluation: *ev.answer.Evaluation,
		Speech:           ev.answer.Speech,
		NextQuestion:     next,
		InterviewStatus:  updated.Status,
	}, nil
}

// SubmitAnswer evaluates an answer with the model and the speech heuristics,
// stores it and returns the evaluation together with the next question.
func (s *Service) SubmitAnswer(ctx context.Context, req types.AnswerSubmissionRequest) (*types.AnswerEvaluationResponse, error) {
	sess, err := s.sessions.Peek(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == types.StatusCompleted {
		return nil, session.ErrInterviewComplete
	}

	ev, err := s.evaluate(ctx, sess, req)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, req.SessionID, ev)
}

// BatchEvaluate evaluates several answers concurrently, bounded by the batch
// concurrency, then stores them in request order. A failing answer does not
// stop the others.
func (s *Service) BatchEvaluate(ctx context.Context, req types.BatchEvaluateRequest) ([]types.BatchEvaluationItem, error) {
	sess, err := s.sessions.Peek(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	results := make([]*evaluated, len(req.Answers))
	errs := make([]error, len(req.Answers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, item := range req.Answers {
		item.SessionID = req.SessionID
		g.Go(func() error {
			results[i], errs[i] = s.evaluate(gctx, sess, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]types.BatchEvaluationItem, len(req.Answers))
	for i, item := range req.Answers {
		items[i] = types.BatchEvaluationItem{QuestionID: item.QuestionID}
		if errs[i] != nil {
			items[i].Error = errs[i].Error()
			continue
		}
		resp, err := s.store(ctx, req.SessionID, results[i])
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		items[i].Success = true
		items[i].Evaluation = resp
	}
	return items, nil
}

// GenerateFollowUp asks for a follow-up question in the context of a session.
func (s *Service) GenerateFollowUp(ctx context.Context, req types.FollowUpRequest) (string, error) {
	sess, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return "", err
	}
	followUp := s.coach.FollowUp(ctx, sess.Role, req.OriginalQuestion, req.Answer)
	s.recordTranscript(ctx, req.SessionID, types.SpeakerInterviewer, followUp)
	return followUp, nil
}

// RecordManualScore stores a reviewer override and returns the updated session.
func (s *Service) RecordManualScore(ctx context.Context, req types.ManualScoreRequest) (*types.Session, error) {
	sess, err := s.sessions.RecordManualScore(ctx, req.SessionID, req.QuestionID, req.ManualScores, req.Feedback)
	if err != nil {
		return nil, err
	}
	logging.Session(s.logger, req.SessionID).Info("manual scores recorded",
		zap.Int("question_id", req.QuestionID),
		zap.Any("manual_scores", req.ManualScores),
	)
	return sess, nil
}

// CompleteInterview returns the final report of a session, generating and
// caching it on first use. Generating a report completes the interview.
func (s *Service) CompleteInterview(ctx context.Context, sessionID string, regenerate bool) (*types.FinalReport, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.FinalReport != nil && !regenerate {
		return sess.FinalReport, nil
	}

	report := s.coach.FinalReport(ctx, ReportInput{Session: sess, Duration: s.interviewDuration(sess)})

	_, err = s.sessions.Update(ctx, sessionID, func(stored *types.Session) error {
		stored.FinalReport = &report
		if stored.Status != types.StatusCompleted {
			now := s.now()
			stored.Status = types.StatusCompleted
			stored.CompletedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Session(s.logger, sessionID).Info("final report generated",
		zap.Int("overall_score", report.OverallScore),
		zap.String("rating", report.OverallRating),
		zap.Bool(logging.FieldFallback, report.Fallback),
	)
	return &report, nil
}

func (s *Service) interviewDuration(sess *types.Session) time.Duration {
	start := sess.CreatedAt
	if sess.StartedAt != nil {
		start = *sess.StartedAt
	}
	end := s.now()
	if sess.CompletedAt != nil {
		end = *sess.CompletedAt
	}
	return end.Sub(start)
}

// AskQuestion answers a free-form question. Failures produce an apology
// rather than an error.
func (s *Service) AskQuestion(ctx context.Context, question, extra string) types.GeneralQuestionResponse {
	answer, err := s.coach.Answer(ctx, question, extra)
	if err != nil {
		s.logger.Warn("general question failed", zap.Bool(logging.FieldFallback, true), zap.Error(err))
		return types.GeneralQuestionResponse{
			Success:       false,
			Answer:        FallbackAnswer,
			RelatedTopics: []string{},
		}
	}
	return types.GeneralQuestionResponse{
		Success:       true,
		Answer:        answer,
		RelatedTopics: s.coach.RelatedTopics(ctx, answer),
	}
}

// ExplainConcept explains a technical concept at the requested level.
func (s *Service) ExplainConcept(ctx context.Context, req types.ExplainConceptRequest) types.GeneralQuestionResponse {
	level := req.Level
	if level == "" {
		level = "intermediate"
	}
	examples := ""
	if req.IncludeExamples == nil || *req.IncludeExamples {
		examples = " with practical examples and code snippets where applicable"
	}

	question := prompts.Format(prompts.MustGet(promptFile, "explain-concept"), map[string]string{"Concept": req.Concept})
	extra := prompts.Format(prompts.MustGet(promptFile, "explain-concept-context"), map[string]string{
		"Level":    level,
		"Examples": examples,
	})
	return s.AskQuestion(ctx, question, extra)
}

// ReviewCode reviews a code snippet.
func (s *Service) ReviewCode(ctx context.Context, req types.CodeReviewRequest) types.GeneralQuestionResponse {
	focus := "overall code quality"
	if len(req.FocusAreas) > 0 {
		focus = strings.Join(req.FocusAreas, ", ")
	}
	question := prompts.Format(prompts.MustGet(promptFile, "code-review"), map[string]string{
		"Language": req.Language,
		"Focus":    focus,
		"Code":     req.Code,
	})
	return s.AskQuestion(ctx, question, "Code review with constructive feedback and suggestions")
}

// Chat answers a chat message, using the session's role as context when the
// message belongs to a live session.
func (s *Service) Chat(ctx context.Context, msg types.ChatMessage) types.GeneralQuestionResponse {
	extra := ""
	if msg.SessionID != "" {
		sess, err := s.sessions.Peek(ctx, msg.SessionID)
		switch {
		case err == nil && sess.Role != "":
			extra = "The user is practising for a " + sess.Role + " interview"
		case err != nil && !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired):
			s.logger.Warn("chat session lookup failed", zap.Error(err))
		}
	}

	resp := s.AskQuestion(ctx, msg.Message, extra)
	if msg.SessionID != "" {
		s.recordTranscript(ctx, msg.SessionID, types.SpeakerCandidate, msg.Message)
		s.recordTranscript(ctx, msg.SessionID, types.SpeakerInterviewer, resp.Answer)
	}
	return resp
}

// Analytics computes performance analytics of a session.
func (s *Service) Analytics(ctx context.Context, sessionID string) (*Analytics, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	a := Analyze(sess)
	return &a, nil
}

// CompareSessions compares up to MaxCompareSessions sessions. Unknown or
// expired sessions are skipped.
func (s *Service) CompareSessions(ctx context.Context, ids []string) (*SessionComparison, error) {
	if len(ids) > MaxCompareSessions {
		return nil, ErrTooManySessions
	}
	sessions := make([]*types.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.sessions.Peek(ctx, id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	c := Compare(sessions)
	return &c, nil
}

// recordTranscript appends to the transcript; failures are logged only.
func (s *Service) recordTranscript(ctx context.Context, sessionID, speaker, text string) {
	if err := s.sessions.RecordTranscript(ctx, sessionID, speaker, text); err != nil {
		logging.Session(s.logger, sessionID).Warn("failed to record transcript", zap.Error(err))
	}
}
