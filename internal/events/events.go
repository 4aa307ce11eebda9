// Package events is the fire-and-forget audit sink. Recording an event must
// never fail the operation that emitted it, and identifiers are masked so
// tokens and raw IDs stay out of the log stream.
package events

import (
	"coachplan/fitness-app/internal/repository"
	"context"
	"log"
	"time"
)

// Event types emitted by the interview/plan/check-off pipeline.
const (
	TypeInterviewSubmitted = "interview_submitted"
	TypePlanGenerated      = "plan_generated"
	TypePlanRejected       = "plan_rejected"
	TypeLinkCreated        = "workout_link_created"
	TypeItemChecked        = "item_checked"
	TypeItemUnchecked      = "item_unchecked"
	TypeTokenValidated     = "token_validated"
	TypeTokenExpired       = "token_expired"
	TypeTokenInvalid       = "token_invalid"
	TypeTokensRevoked      = "tokens_revoked"
)

const recordTimeout = 2 * time.Second

// MaskID keeps only the last 4 characters of an identifier.
func MaskID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 4 {
		return "***" + id
	}
	return "***" + id[len(id)-4:]
}

// Logger records audit events to the log and, best-effort, to storage.
type Logger struct {
	repo repository.EventRepository
}

// NewLogger creates an event logger. repo may be nil to log to stdout only.
func NewLogger(repo repository.EventRepository) *Logger {
	return &Logger{repo: repo}
}

// Record logs one event. It masks both IDs, never blocks the caller beyond a
// short persistence timeout, and never returns an error.
func (l *Logger) Record(eventType, userID, resourceID string, metadata map[string]any) {
	maskedUser := MaskID(userID)
	maskedResource := MaskID(resourceID)
	log.Printf("[EVENT] type=%s user=%s resource=%s meta=%v", eventType, maskedUser, maskedResource, metadata)

	if l.repo == nil {
		return
	}
	// Detached context: the event outlives the request, and a cancelled
	// request must not abort the write mid-flight.
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := l.repo.Record(ctx, eventType, maskedUser, maskedResource, metadata); err != nil {
		log.Printf("WARN: event persist failed: %v", err)
	}
}
