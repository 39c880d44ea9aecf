package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/interview"
	"github.com/jonathan/interview-partner/internal/logging"
	"github.com/jonathan/interview-partner/internal/rendering"
	"github.com/jonathan/interview-partner/internal/server/middleware"
	"github.com/jonathan/interview-partner/internal/server/ratelimit"
	"github.com/jonathan/interview-partner/internal/types"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	service     *interview.Service
	userService *UserService
	jwtService  *JWTService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	pdf         rendering.PDFRenderer
	validator   *validator.Validate
	upgrader    websocket.Upgrader
	corsOrigins []string
	aiEnabled   bool
	logger      *zap.Logger
	handler     http.Handler
}

// Config holds server configuration and dependencies.
type Config struct {
	Addr        string
	CORSOrigins []string
	Service     *interview.Service
	Users       *UserService
	JWT         *JWTService
	// RateLimit nil disables rate limiting.
	RateLimit *ratelimit.Config
	// PDF nil disables PDF downloads.
	PDF    rendering.PDFRenderer
	Logger *zap.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("server: interview service is required")
	}
	if cfg.Users == nil || cfg.JWT == nil {
		return nil, fmt.Errorf("server: user and JWT services are required")
	}

	s := &Server{
		service:     cfg.Service,
		userService: cfg.Users,
		jwtService:  cfg.JWT,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		pdf:         cfg.PDF,
		validator:   validator.New(),
		corsOrigins: cfg.CORSOrigins,
		aiEnabled:   cfg.Service.Coach().HasModel(),
		logger:      logging.OrNop(cfg.Logger),
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, s.logger)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	auth := middleware.OptionalAuth(s.jwtService.AsTokenValidator())
	s.handler = s.withRateLimit(s.withLogging(s.withCORS(auth(mux))))

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      180 * time.Second, // report generation and PDF printing are slow
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// routes registers every endpoint on mux.
func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Authentication
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /api/auth/signup", s.authHandler.Signup)
	mux.HandleFunc("POST /api/auth/guest-session", s.authHandler.GuestSession)
	mux.HandleFunc("POST /api/auth/logout", s.authHandler.Logout)
	mux.HandleFunc("GET /api/auth/validate-token", s.authHandler.ValidateToken)
	mux.Handle("GET /api/auth/me", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(http.HandlerFunc(s.authHandler.Me)))

	// Interview management
	mux.HandleFunc("POST /api/interview/create-session", s.handleCreateSession)
	mux.HandleFunc("POST /api/interview/setup", s.handleSetup)
	mux.HandleFunc("POST /api/interview/set-role", s.handleSetRole)
	mux.HandleFunc("POST /api/interview/set-experience", s.handleSetExperience)
	mux.HandleFunc("POST /api/interview/set-difficulty", s.handleSetDifficulty)
	mux.HandleFunc("POST /api/interview/set-resume", s.handleSetResume)
	mux.HandleFunc("POST /api/interview/upload-resume", s.handleUploadResume)
	mux.HandleFunc("POST /api/interview/build-resume", s.handleBuildResume)
	mux.HandleFunc("GET /api/interview/next-question/{session_id}", s.handleNextQuestion)
	mux.HandleFunc("GET /api/interview/progress/{session_id}", s.handleProgress)
	mux.HandleFunc("POST /api/interview/generate-questions", s.handleGenerateQuestions)
	mux.HandleFunc("DELETE /api/interview/session/{session_id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/interview/abandon/{session_id}", s.handleAbandonSession)
	mux.HandleFunc("GET /api/interview/sessions/stats", s.handleSessionStats)
	mux.HandleFunc("GET /api/interview/catalog", s.handleCatalog)

	// Answer evaluation
	mux.HandleFunc("POST /api/evaluation/submit-answer", s.handleSubmitAnswer)
	mux.HandleFunc("POST /api/evaluation/generate-followup", s.handleGenerateFollowUp)
	mux.HandleFunc("GET /api/evaluation/evaluation-history/{session_id}", s.handleEvaluationHistory)
	mux.HandleFunc("POST /api/evaluation/batch-evaluate", s.handleBatchEvaluate)
	mux.HandleFunc("GET /api/evaluation/scoring-criteria", s.handleScoringCriteria)
	mux.HandleFunc("POST /api/evaluation/manual-score", s.handleManualScore)

	// Reports
	mux.HandleFunc("POST /api/reports/generate", s.handleGenerateReport)
	mux.HandleFunc("GET /api/reports/download/{session_id}", s.handleDownloadReport)
	mux.HandleFunc("GET /api/reports/summary/{session_id}", s.handleReportSummary)
	mux.HandleFunc("GET /api/reports/analytics/{session_id}", s.handleAnalytics)
	mux.HandleFunc("POST /api/reports/compare-sessions", s.handleCompareSessions)

	// General questions
	mux.HandleFunc("POST /api/questions/ask", s.handleAskQuestion)
	mux.HandleFunc("GET /api/questions/popular-questions", s.handlePopularQuestions)
	mux.HandleFunc("POST /api/questions/explain-concept", s.handleExplainConcept)
	mux.HandleFunc("POST /api/questions/code-review", s.handleCodeReview)
	mux.HandleFunc("POST /api/questions/interview-tips", s.handleInterviewTips)

	// Stateless scoring and chat
	mux.HandleFunc("POST /api/scoring/speech", s.handleScoreSpeech)
	mux.HandleFunc("POST /api/scoring/resume", s.handleScoreResume)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/speech/ws/{session_id}", s.handleSpeechSocket)

	// Legacy endpoints for older browser clients
	mux.HandleFunc("POST /login", s.authHandler.Login)
	mux.HandleFunc("POST /set-role", s.handleSetRole)
	mux.HandleFunc("POST /set-experience", s.handleSetExperience)
	mux.HandleFunc("POST /set-difficulty", s.handleSetDifficulty)
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until ctx is cancelled or
// the process receives SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			zap.String("addr", s.httpServer.Addr),
			zap.Bool("ai_enabled", s.aiEnabled),
			zap.Bool("pdf_enabled", s.pdf != nil),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case <-ctx.Done():
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work without serving. Used by tests.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// originAllowed reports whether a browser origin may call the API.
func (s *Server) originAllowed(origin string) bool {
	return slices.Contains(s.corsOrigins, "*") || slices.Contains(s.corsOrigins, origin)
}

// checkOrigin is the websocket upgrader's origin policy.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.originAllowed(origin)
}

// withCORS adds CORS headers for the configured origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case origin == "":
		case slices.Contains(s.corsOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
			setCORSMethods(w)
		case slices.Contains(s.corsOrigins, "*"):
			// A wildcard never carries credentials.
			w.Header().Set("Access-Control-Allow-Origin", "*")
			setCORSMethods(w)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func setCORSMethods(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", s.extractClientID(r)),
		}
		switch {
		case rec.status >= http.StatusInternalServerError:
			s.logger.Error("request", fields...)
		case r.URL.Path == "/health":
			s.logger.Debug("request", fields...)
		default:
			s.logger.Info("request", fields...)
		}
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, clientID, r.URL.Path, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	aiProvider := "local fallback"
	if s.aiEnabled {
		aiProvider = "Google Gemini"
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"service":     "AI Interview Backend",
		"ai_provider": aiProvider,
		"ai_enabled":  s.aiEnabled,
		"pdf_enabled": s.pdf != nil,
		"version":     Version,
	})
}

// handleRoot describes the service.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message":     "AI Interview Practice Partner Backend",
		"ai_provider": "Google Gemini",
		"status":      "Running",
		"health":      "/health",
	})
}

// writeJSON encodes data as the response body.
func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// success writes the standard success envelope.
func (s *Server) success(w http.ResponseWriter, message string, data any) {
	s.jsonResponse(w, http.StatusOK, types.APIResponse{Success: true, Message: message, Data: data})
}

// handleError maps err to a status code. Server-side failures are logged and
// their details kept out of the response.
func (s *Server) handleError(w http.ResponseWriter, sessionID string, op string, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Session(s.logger, sessionID).Error(op+" failed", zap.Error(err))
		s.errorResponse(w, status, fmt.Sprintf("Failed to %s", op))
		return
	}
	logging.Session(s.logger, sessionID).Debug(op+" rejected", zap.Int("status", status), zap.Error(err))
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON body into v and validates it. It writes the 400
// response itself and reports whether the handler may continue.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			s.errorResponse(w, http.StatusBadRequest, "Request body is required")
		default:
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	if err := s.validator.Struct(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// sessionParam returns the {session_id} path value, falling back to the
// session_id query parameter.
func sessionParam(r *http.Request) string {
	if id := strings.TrimSpace(r.PathValue("session_id")); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("session_id"))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is ignored
// because no trusted proxy list is configured.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID, path string, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.String("path", path),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
