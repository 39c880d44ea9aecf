// Package session persists interview sessions and implements the session
// lifecycle: setup, answering, scoring aggregation, expiry.
package session

import (
	"context"
	"errors"
	"regexp"

	"github.com/jonathan/interview-partner/internal/types"
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a session outlived its timeout; it has been deleted.
	ErrExpired = errors.New("session expired")
	// ErrInterviewComplete is returned when answering a completed interview.
	ErrInterviewComplete = errors.New("interview already completed")
	// ErrAnswerNotFound is returned when no answer exists for a question id.
	ErrAnswerNotFound = errors.New("answer not found")
)

// Store persists sessions. Load and Delete return ErrNotFound for unknown ids.
type Store interface {
	Load(ctx context.Context, id string) (*types.Session, error)
	Save(ctx context.Context, s *types.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*types.Session, error)
	Close() error
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidID reports whether id is safe to use as a storage key.
func ValidID(id string) bool {
	return validID.MatchString(id)
}
