package server

import (
	"net/http"

	"github.com/jonathan/interview-partner/internal/interview"
	"github.com/jonathan/interview-partner/internal/types"
)

// handleSubmitAnswer evaluates one answer and returns the next question.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req types.AnswerSubmissionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.service.SubmitAnswer(r.Context(), req)
	if err != nil {
		s.handleError(w, req.SessionID, "evaluate answer", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateFollowUp asks for a follow-up question.
func (s *Server) handleGenerateFollowUp(w http.ResponseWriter, r *http.Request) {
	var req types.FollowUpRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	followUp, err := s.service.GenerateFollowUp(r.Context(), req)
	if err != nil {
		s.handleError(w, req.SessionID, "generate follow-up question", err)
		return
	}
	s.success(w, "Follow-up question generated", map[string]string{"follow_up_question": followUp})
}

// handleEvaluationHistory returns every answer and score of a session.
func (s *Server) handleEvaluationHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	summary, err := s.service.EvaluationHistory(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, sessionID, "get evaluation history", err)
		return
	}
	s.success(w, "Evaluation history retrieved", map[string]any{
		"session_id":       sessionID,
		"answers":          summary.Answers,
		"scores":           summary.Scores,
		"speech_breakdown": summary.SpeechBreakdown,
		"statistics":       summary.Statistics,
	})
}

// handleBatchEvaluate evaluates several answers at once.
func (s *Server) handleBatchEvaluate(w http.ResponseWriter, r *http.Request) {
	var req types.BatchEvaluateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	items, err := s.service.BatchEvaluate(r.Context(), req)
	if err != nil {
		s.handleError(w, req.SessionID, "evaluate answers", err)
		return
	}

	succeeded := 0
	for _, item := range items {
		if item.Success {
			succeeded++
		}
	}
	s.success(w, "Batch evaluation completed", map[string]any{
		"evaluations": items,
		"evaluated":   succeeded,
		"failed":      len(items) - succeeded,
	})
}

// handleScoringCriteria explains the evaluation dimensions.
func (s *Server) handleScoringCriteria(w http.ResponseWriter, _ *http.Request) {
	s.success(w, "Scoring criteria retrieved", map[string]any{"criteria": interview.ScoringCriteria})
}

// handleManualScore records a reviewer's score override.
func (s *Server) handleManualScore(w http.ResponseWriter, r *http.Request) {
	var req types.ManualScoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.service.RecordManualScore(r.Context(), req)
	if err != nil {
		s.handleError(w, req.SessionID, "record manual score", err)
		return
	}
	s.success(w, "Manual scores recorded", map[string]any{
		"session_id":    req.SessionID,
		"question_id":   req.QuestionID,
		"manual_scores": req.ManualScores,
		"scores":        sess.Scores,
	})
}
