package server

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/logging"
	"github.com/jonathan/interview-partner/internal/rendering"
	"github.com/jonathan/interview-partner/internal/types"
)

// Report download formats.
const (
	formatJSON = "json"
	formatHTML = "html"
	formatPDF  = "pdf"
)

// handleGenerateReport generates (or returns the cached) final report and
// completes the interview.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req types.ReportGenerationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	report, err := s.service.CompleteInterview(r.Context(), req.SessionID, req.Regenerate)
	if err != nil {
		s.handleError(w, req.SessionID, "generate final report", err)
		return
	}

	out := *report
	if req.IncludeDetailedAnalysis != nil && !*req.IncludeDetailedAnalysis {
		out.DetailedAnalysis = ""
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleDownloadReport serves the final report as a JSON, HTML or PDF attachment.
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = r.URL.Query().Get("format_type")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = formatJSON
	}
	if format != formatJSON && format != formatHTML && format != formatPDF {
		s.errorResponse(w, http.StatusBadRequest, "format must be one of json, html, pdf")
		return
	}
	if format == formatPDF && s.pdf == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF rendering is not available")
		return
	}

	report, err := s.service.CompleteInterview(r.Context(), sessionID, false)
	if err != nil {
		s.handleError(w, sessionID, "download report", err)
		return
	}

	filename := fmt.Sprintf("interview_report_%s.%s", sessionID, format)
	if format == formatJSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		s.jsonResponse(w, http.StatusOK, report)
		return
	}

	html, err := rendering.RenderReportHTML(report)
	if err != nil {
		s.handleError(w, sessionID, "render report", err)
		return
	}
	if format == formatHTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html)) //nolint:errcheck
		return
	}

	pdf, err := s.pdf.RenderPDF(r.Context(), html)
	if err != nil {
		s.handleError(w, sessionID, "render PDF report", err)
		return
	}
	logging.Session(s.logger, sessionID).Info("report PDF rendered", zap.Int("bytes", len(pdf)))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf) //nolint:errcheck
}

// handleReportSummary returns a quick summary of the interview results.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	progress, err := s.service.Progress(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, sessionID, "get report summary", err)
		return
	}

	s.success(w, "Report summary retrieved", map[string]any{
		"session_id":         sessionID,
		"status":             progress.Status,
		"overall_score":      progress.Scores.Overall,
		"questions_answered": progress.AnsweredQuestions,
		"total_questions":    progress.TotalQuestions,
		"completion_rate":    progress.ProgressPercentage,
		"role":               progress.Role,
		"experience_level":   progress.ExperienceLevel,
		"difficulty":         progress.Difficulty,
		"speech_breakdown":   progress.SpeechBreakdown,
	})
}

// handleAnalytics returns performance analytics of a session.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionParam(r)
	analytics, err := s.service.Analytics(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, sessionID, "get interview analytics", err)
		return
	}
	s.success(w, "Interview analytics retrieved", analytics)
}

// handleCompareSessions compares up to five sessions.
func (s *Server) handleCompareSessions(w http.ResponseWriter, r *http.Request) {
	var req types.CompareSessionsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	comparison, err := s.service.CompareSessions(r.Context(), req.SessionIDs)
	if err != nil {
		s.handleError(w, "", "compare sessions", err)
		return
	}
	s.success(w, "Session comparison completed", comparison)
}
