package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-partner/internal/ingestion"
	"github.com/jonathan/interview-partner/internal/interview"
	"github.com/jonathan/interview-partner/internal/scoring"
	"github.com/jonathan/interview-partner/internal/server/middleware"
	"github.com/jonathan/interview-partner/internal/types"
)

// requireSession returns the session id of the request or writes a 400.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := sessionParam(r)
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "session_id is required")
		return "", false
	}
	return id, true
}

// sessionOrNew returns id, or the id of a fresh session when id is empty.
func (s *Server) sessionOrNew(r *http.Request, id string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		return id, nil
	}
	sess, err := s.service.CreateSession(r.Context(), middleware.UserEmail(r))
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// handleCreateSession starts an empty session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.CreateSession(r.Context(), middleware.UserEmail(r))
	if err != nil {
		s.handleError(w, "", "create session", err)
		return
	}
	s.success(w, "Session created successfully", map[string]string{"session_id": sess.ID})
}

// handleSetup records role, experience and difficulty (and optionally a
// resume) and generates the questions in one call.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req types.StartInterviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sessionID := sessionParam(r)
	resp, err := s.service.SetupInterview(r.Context(), sessionID, middleware.UserEmail(r), req)
	if err != nil {
		s.handleError(w, sessionID, "set up interview", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSetRole sets the role of the given session, creating one when the
// request names none.
func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req types.RoleRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sessionID, err := s.sessionOrNew(r, req.SessionID)
	if err != nil {
		s.handleError(w, "", "create session", err)
		return
	}
	role := strings.TrimSpace(req.Role)
	if _, err := s.service.Sessions().SetRole(r.Context(), sessionID, role); err != nil {
		s.handleError(w, sessionID, "set role", err)
		return
	}
	s.success(w, "Role set to "+role, map[string]string{"session_id": sessionID, "role": role})
}

// handleSetExperience sets the experience bracket.
func (s *Server) handleSetExperience(w http.ResponseWriter, r *http.Request) {
	var req types.ExperienceRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sessionID, err := s.sessionOrNew(r, req.SessionID)
	if err != nil {
		s.handleError(w, "", "create session", err)
		return
	}
	if _, err := s.service.Sessions().SetExperience(r.Context(), sessionID, req.Experience); err != nil {
		s.handleError(w, sessionID, "set experience", err)
		return
	}
	s.success(w, "Experience level set to "+string(req.Experience), map[string]any{
		"session_id": sessionID,
		"experience": req.Experience,
	})
}

// handleSetDifficulty sets the difficulty.
func (s *Server) handleSetDifficulty(w http.ResponseWriter, r *http.Request) {
	var req types.DifficultyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sessionID, err := s.sessionOrNew(r, req.SessionID)
	if err != nil {
		s.handleError(w, "", "create session", err)
		return
	}
	if _, err := s.service.Sessions().SetDifficulty(r.Context(), sessionID, req.Difficulty); err != nil {
		s.handleError(w, sessionID, "set difficulty", err)
		return
	}
	s.success(w, "Difficulty set to "+string(req.Difficulty), map[string]any{
		"session_id":                 sessionID,
		"difficulty":                 req.Difficulty,
		"estimated_duration_minutes": interview.DurationFor(req.Difficulty),
	})
}

// handleSetResume stores pasted resume text on a session and returns its ATS score.
func (s *Server) handleSetResume(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req types.ResumeUploadRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.service.SetResume(r.Context(), sessionID, req.ResumeText)
	if err != nil {
		s.handleError(w, sessionID, "set resume", err)
		return
	}
	s.success(w, "Resume uploaded successfully", map[string]any{
		"session_id":    sessionID,
		"resume_length": utf8.RuneCountInString(req.ResumeText),
		"ats_score":     result,
	})
}

// handleUploadResume accepts a multipart "file" upload. With a session_id the
// resume is stored on the session; without one it is only extracted and scored.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxUploadBytes+64<<10)
	if err := r.ParseMultipartForm(ingestion.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, ingestion.ErrTooLarge.Error())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Expected a multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, ingestion.MaxUploadBytes+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	sessionID := sessionParam(r)
	text, meta, err := ingestion.ExtractUpload(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.handleError(w, sessionID, "read resume", err)
		return
	}

	result, err := s.scoreResume(r, sessionID, text)
	if err != nil {
		s.handleError(w, sessionID, "store resume", err)
		return
	}
	s.success(w, "Resume uploaded successfully", map[string]any{
		"session_id":    sessionID,
		"resume_text":   text,
		"resume_length": meta.Characters,
		"metadata":      meta,
		"ats_score":     result,
	})
}

// handleBuildResume turns a resume-builder form into text and scores it.
func (s *Server) handleBuildResume(w http.ResponseWriter, r *http.Request) {
	var form types.ResumeForm
	if !s.decodeJSON(w, r, &form) {
		return
	}

	sessionID := sessionParam(r)
	text := ingestion.BuildResume(form)
	result, err := s.scoreResume(r, sessionID, text)
	if err != nil {
		s.handleError(w, sessionID, "build resume", err)
		return
	}
	s.success(w, "Resume built successfully", map[string]any{
		"session_id":    sessionID,
		"resume_text":   text,
		"resume_length": utf8.RuneCountInString(text),
		"ats_score":     result,
	})
}

// scoreResume stores text on the session when sessionID is set, otherwise it
// validates and scores it without side effects.
func (s *Server) scoreResume(r *http.Request, sessionID, text string) (*types.ATSResult, error) {
	if sessionID != "" {
		return s.service.SetResume(r.Context(), sessionID, text)
	}
	cleaned := ingestion.CleanText(text)
	if err := scoring.ValidateResumeText(cleaned, s.service.Options().MinResumeChars); err != nil {
		return nil, err
	}
	result := scoring.ScoreResume(cleaned)
	return &result, nil
}

// handleNextQuestion returns the next unanswered question, or null.
func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	q, err := s.service.NextQuestion(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, sessionID, "get next question", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, q)
}

// handleProgress reports interview progress.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	progress, err := s.service.Progress(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, sessionID, "get progress", err)
		return
	}
	s.success(w, "Progress retrieved", progress)
}

// handleGenerateQuestions (re)generates questions for an existing session.
func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	count := s.service.Options().DefaultQuestionCount
	if raw := r.URL.Query().Get("question_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 5 || n > 20 {
			s.errorResponse(w, http.StatusBadRequest, "question_count must be an integer between 5 and 20")
			return
		}
		count = n
	}

	resp, err := s.service.GenerateQuestions(r.Context(), sessionID, count)
	if err != nil {
		s.handleError(w, sessionID, "generate questions", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleDeleteSession removes a session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	if err := s.service.Sessions().Delete(r.Context(), sessionID); err != nil {
		s.handleError(w, sessionID, "delete session", err)
		return
	}
	s.success(w, "Session deleted successfully", map[string]string{"session_id": sessionID})
}

// handleAbandonSession ends an unfinished interview without a report.
func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	sess, err := s.service.Sessions().Abandon(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, sessionID, "abandon session", err)
		return
	}
	s.success(w, "Session abandoned", map[string]any{"session_id": sessionID, "status": sess.Status})
}

// handleSessionStats counts live sessions by status.
func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Sessions().Stats(r.Context())
	if err != nil {
		s.handleError(w, "", "get session stats", err)
		return
	}
	s.success(w, "Session statistics retrieved", stats)
}

// handleCatalog lists the roles, levels, difficulties and question types the client offers.
func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, interview.DefaultCatalog())
}
