package service

import (
	"errors"
	"fmt"
	"strings"
)

// --- Error Definitions ---
// Shared across services; handlers map these onto HTTP statuses.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrUpstreamTimeout   = errors.New("plan generation timed out")
	ErrUpstreamFormat    = errors.New("plan generation returned malformed output")
	ErrSessionInProgress = errors.New("a session is already in progress for this template")
	ErrSessionFinished   = errors.New("session is already finished")
)

// ValidationError is a client-correctable input defect. Fields names exactly
// the offending question keys or request fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// NewValidationError builds a ValidationError for the given fields.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// PlanShapeError means the upstream produced parseable JSON that does not
// match the required plan shape. Never retried here; the caller decides
// whether to resubmit.
type PlanShapeError struct {
	Violations []string
}

func (e *PlanShapeError) Error() string {
	return fmt.Sprintf("plan failed shape validation: %s", strings.Join(e.Violations, "; "))
}
