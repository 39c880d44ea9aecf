package interview

import (
	"errors"
	"fmt"
)

// MaxCompareSessions bounds CompareSessions.
const MaxCompareSessions = 5

// ErrTooManySessions is returned when more than MaxCompareSessions sessions are compared.
var ErrTooManySessions = fmt.Errorf("maximum %d sessions can be compared at once", MaxCompareSessions)

// ErrNoQuestions is returned when an answer is submitted before questions exist.
var ErrNoQuestions = errors.New("interview has no questions yet")

// AnswerLengthError reports an answer outside the accepted length.
type AnswerLengthError struct {
	Length int
	Min    int
	Max    int
}

func (e *AnswerLengthError) Error() string {
	if e.Length < e.Min {
		return fmt.Sprintf("answer is too short: %d characters, minimum is %d", e.Length, e.Min)
	}
	return fmt.Sprintf("answer is too long: %d characters, maximum is %d", e.Length, e.Max)
}
