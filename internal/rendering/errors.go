// Package rendering turns interview reports into HTML, SVG radar charts and PDF.
package rendering

import (
	"context"
	"errors"
	"fmt"
)

// TemplateError is returned when the report template cannot be parsed or executed.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := e.Message
	if e.Template != "" {
		msg = e.Template + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("report template: %s: %v", msg, e.Cause)
	}
	return "report template: " + msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// PDF rendering stages reported by PDFError.
const (
	StageLaunch = "launch"
	StageLoad   = "load"
	StagePrint  = "print"
)

// PDFError is a headless Chrome failure. Stage names the step that failed.
type PDFError struct {
	Stage string
	Cause error
}

func (e *PDFError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("pdf %s timed out: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("pdf %s failed: %v", e.Stage, e.Cause)
}

func (e *PDFError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the render ran out of time.
func (e *PDFError) Timeout() bool {
	return errors.Is(e.Cause, context.DeadlineExceeded)
}
