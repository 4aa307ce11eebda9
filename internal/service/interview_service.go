package service

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/events"
	"coachplan/fitness-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---
type InterviewService interface {
	// Questions returns the enabled questions in display order.
	Questions(ctx context.Context) ([]domain.Question, error)
	// Submit validates the answer set against the enabled questions and
	// persists one immutable Response.
	Submit(ctx context.Context, userID primitive.ObjectID, sessionID string, answers map[string]any) (*domain.Response, error)
	// ResponsesForUser lists a user's submitted responses, newest first.
	ResponsesForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Response, error)
}

// --- Service Implementation ---

type interviewService struct {
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	audit        *events.Logger
}

// NewInterviewService creates a new instance of interviewService.
func NewInterviewService(
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	audit *events.Logger,
) InterviewService {
	return &interviewService{
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		audit:        audit,
	}
}

func (s *interviewService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.questionRepo.ListEnabled(ctx)
}

func (s *interviewService) Submit(ctx context.Context, userID primitive.ObjectID, sessionID string, answers map[string]any) (*domain.Response, error) {
	if userID == primitive.NilObjectID {
		return nil, NewValidationError("user ID is required")
	}
	if sessionID == "" {
		return nil, NewValidationError("session ID is required", "session_id")
	}
	if len(answers) == 0 {
		return nil, NewValidationError("answers must not be empty", "answers")
	}

	questions, err := s.questionRepo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	// Missing required keys are collected first so the error names every
	// gap in one round trip, not just the first.
	var missing []string
	for _, q := range questions {
		if !q.IsRequired {
			continue
		}
		if answerEmpty(answers[q.Key]) {
			missing = append(missing, q.Key)
		}
	}
	if len(missing) > 0 {
		return nil, NewValidationError("missing required interview answers", missing...)
	}

	for _, q := range questions {
		val, ok := answers[q.Key]
		if !ok || val == nil {
			continue
		}
		if err := checkAnswerType(&q, val); err != nil {
			return nil, err
		}
	}

	response := &domain.Response{
		UserID:    userID,
		SessionID: sessionID,
		Answers:   answers,
	}
	responseID, err := s.responseRepo.Create(ctx, response)
	if err != nil {
		return nil, err
	}
	response.ID = responseID

	s.audit.Record(events.TypeInterviewSubmitted, userID.Hex(), responseID.Hex(), map[string]any{
		"answerCount": len(answers),
	})
	return response, nil
}

func (s *interviewService) ResponsesForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Response, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.responseRepo.GetByUserID(ctx, userID)
}

// answerEmpty treats nil, blank strings, and empty arrays as not answered.
func answerEmpty(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// checkAnswerType enforces per-input-type shape: arrays for multi_select,
// scalars for single_select, parseable numbers for number questions, and
// option membership where options are defined.
func checkAnswerType(q *domain.Question, val any) error {
	allowed := q.EnabledOptionValues()

	switch q.InputType {
	case domain.InputMultiSelect:
		items, ok := toStringSlice(val)
		if !ok {
			return NewValidationError(fmt.Sprintf("expected array for %s", q.Key), q.Key)
		}
		if allowed != nil {
			for _, item := range items {
				if !allowed[item] {
					return NewValidationError(fmt.Sprintf("invalid option for %s: %s", q.Key, item), q.Key)
				}
			}
		}
	case domain.InputSingleSelect:
		scalar, ok := toScalarString(val)
		if !ok {
			return NewValidationError(fmt.Sprintf("expected single value for %s", q.Key), q.Key)
		}
		if allowed != nil && !allowed[scalar] {
			return NewValidationError(fmt.Sprintf("invalid option for %s: %s", q.Key, scalar), q.Key)
		}
	case domain.InputNumber, domain.InputRange:
		if !isNumeric(val) {
			return NewValidationError(fmt.Sprintf("expected numeric value for %s", q.Key), q.Key)
		}
	}
	// text and yes_no accept anything coercible to string.
	return nil
}

func toStringSlice(val any) ([]string, bool) {
	switch v := val.(type) {
	case []string:
		return v, true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			scalar, ok := toScalarString(item)
			if !ok {
				return nil, false
			}
			items = append(items, scalar)
		}
		return items, true
	default:
		return nil, false
	}
}

func toScalarString(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func isNumeric(val any) bool {
	switch v := val.(type) {
	case float64, float32, int, int32, int64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil
	default:
		return false
	}
}
