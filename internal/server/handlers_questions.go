package server

import (
	"net/http"

	"github.com/jonathan/interview-partner/internal/interview"
	"github.com/jonathan/interview-partner/internal/scoring"
	"github.com/jonathan/interview-partner/internal/types"
)

// handleAskQuestion answers a free-form technical or career question.
func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req types.GeneralQuestionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.service.AskQuestion(r.Context(), req.Question, req.Context))
}

// handlePopularQuestions lists frequently asked questions by category.
func (s *Server) handlePopularQuestions(w http.ResponseWriter, _ *http.Request) {
	s.success(w, "Popular questions retrieved", map[string]any{"categories": interview.PopularQuestions})
}

// handleExplainConcept explains a technical concept.
func (s *Server) handleExplainConcept(w http.ResponseWriter, r *http.Request) {
	var req types.ExplainConceptRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.service.ExplainConcept(r.Context(), req))
}

// handleCodeReview reviews a code snippet.
func (s *Server) handleCodeReview(w http.ResponseWriter, r *http.Request) {
	var req types.CodeReviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.service.ReviewCode(r.Context(), req))
}

// handleInterviewTips returns tips tailored to role, level and interview type.
func (s *Server) handleInterviewTips(w http.ResponseWriter, r *http.Request) {
	var req types.InterviewTipsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	interviewType := req.InterviewType
	if interviewType == "" {
		interviewType = interview.TipsTechnical
	}

	s.success(w, "Interview tips retrieved", map[string]any{
		"role":             req.Role,
		"experience_level": req.ExperienceLevel,
		"interview_type":   interviewType,
		"tips":             interview.Tips(req.Role, req.ExperienceLevel, interviewType),
	})
}

// handleScoreSpeech runs the speech heuristics on a transcript.
func (s *Server) handleScoreSpeech(w http.ResponseWriter, r *http.Request) {
	var req types.SpeechScoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, scoring.AnalyzeSpeech(req.Transcript, req.DurationSeconds))
}

// handleScoreResume runs the ATS heuristics on resume text. Short text is
// scored rather than rejected.
func (s *Server) handleScoreResume(w http.ResponseWriter, r *http.Request) {
	var req types.ResumeScoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, scoring.ScoreResume(req.ResumeText))
}

// handleChat answers a chat message, optionally in the context of a session.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var msg types.ChatMessage
	if !s.decodeJSON(w, r, &msg) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.service.Chat(r.Context(), msg))
}
