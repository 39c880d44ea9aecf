// Package server provides the HTTP REST API for the interview partner.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-partner/internal/ingestion"
	"github.com/jonathan/interview-partner/internal/interview"
	"github.com/jonathan/interview-partner/internal/scoring"
	"github.com/jonathan/interview-partner/internal/session"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID string
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists *ErrEmailAlreadyExists
		badCreds    *ErrInvalidCredentials
		noUser      *ErrUserNotFound
		invalid     *ErrValidation
		tooShort    *scoring.ResumeTooShortError
		badLength   *interview.AnswerLengthError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &badCreds):
		return http.StatusUnauthorized
	case errors.As(err, &noUser),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, session.ErrAnswerNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInterviewComplete):
		return http.StatusConflict
	case errors.As(err, &invalid),
		errors.As(err, &tooShort),
		errors.As(err, &badLength),
		errors.Is(err, ingestion.ErrUnsupportedFormat),
		errors.Is(err, interview.ErrTooManySessions),
		errors.Is(err, interview.ErrNoQuestions):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
