package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/logging"
	"github.com/jonathan/interview-partner/internal/server/middleware"
	"github.com/jonathan/interview-partner/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
		logger:      logging.OrNop(logger),
	}
}

// Login handles login requests. Failures keep the LoginResponse shape with
// success=false so the browser client can show the message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.LoginResponse{Message: extractValidationErrors(err)})
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.logger.Info("login failed", zap.String("email", normalizeEmail(req.Email)))
		writeJSON(w, HTTPStatus(err), types.LoginResponse{Message: "Invalid email or password"})
		return
	}

	h.issue(w, http.StatusOK, user, "Login successful")
}

// Signup registers a practice account and logs it in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.LoginResponse{Message: extractValidationErrors(err)})
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("signup failed", zap.Error(err))
			writeJSON(w, status, types.LoginResponse{Message: "Failed to create account"})
			return
		}
		writeJSON(w, status, types.LoginResponse{Message: err.Error()})
		return
	}

	h.logger.Info("account created", zap.String("email", user.Email))
	h.issue(w, http.StatusCreated, user, "Account created")
}

// GuestSession issues a token for an anonymous guest.
func (h *AuthHandler) GuestSession(w http.ResponseWriter, _ *http.Request) {
	user := h.userService.Guest()
	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		h.logger.Error("failed to sign guest token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Message: "Guest session created",
		Data: map[string]any{
			"user_id":       user.ID,
			"session_token": token,
			"is_guest":      true,
		},
	})
}

// Logout revokes the bearer token, if any. It always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.BearerToken(r); ok {
		if err := h.jwtService.Revoke(token); err != nil {
			h.logger.Debug("logout with invalid token", zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "Logged out successfully"})
}

// ValidateToken reports whether the token in the "token" query parameter
// (or the bearer token) is valid.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}

	data := map[string]any{"valid": false}
	if claims, err := h.jwtService.ValidateToken(token); err == nil {
		data["valid"] = true
		data["user_id"] = claims.UserID
		data["is_guest"] = claims.Guest
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: data})
}

// Me returns the authenticated user. It must run behind AuthMiddleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	if identity.IsGuest() {
		writeJSON(w, http.StatusOK, types.User{ID: identity.GetUserID(), Name: "Guest", IsGuest: true})
		return
	}

	user, err := h.userService.Get(r.Context(), identity.GetUserID())
	if err != nil {
		writeJSON(w, HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, user *types.User, message string) {
	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
		return
	}

	writeJSON(w, status, types.LoginResponse{
		Success:      true,
		Message:      message,
		UserID:       user.ID,
		SessionToken: token,
		User:         user,
	})
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
