package service

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/events"
	"coachplan/fitness-app/internal/generation"
	"coachplan/fitness-app/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---
type PlanService interface {
	// Generate builds a prompt from the response's answers, calls the
	// generation service once with a bounded timeout, validates the result,
	// and persists a new Plan. It never retries; two calls for the same
	// response produce two distinct plans.
	Generate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, responseID primitive.ObjectID) (*domain.Plan, error)
	GetPlan(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, planID primitive.ObjectID) (*domain.Plan, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error)
}

// --- Service Implementation ---

type planService struct {
	responseRepo repository.ResponseRepository
	planRepo     repository.PlanRepository
	client       generation.Client
	timeout      time.Duration
	audit        *events.Logger
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	responseRepo repository.ResponseRepository,
	planRepo repository.PlanRepository,
	client generation.Client,
	timeout time.Duration,
	audit *events.Logger,
) PlanService {
	if timeout <= 0 {
		timeout = generation.DefaultTimeout
	}
	return &planService{
		responseRepo: responseRepo,
		planRepo:     planRepo,
		client:       client,
		timeout:      timeout,
		audit:        audit,
	}
}

func (s *planService) Generate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, responseID primitive.ObjectID) (*domain.Plan, error) {
	if responseID == primitive.NilObjectID {
		return nil, NewValidationError("response ID is required", "response_id")
	}

	requestID := uuid.NewString()
	start := time.Now()

	// 1. Load the response and check ownership.
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !domain.CanAccess(callerID, callerRole, response.UserID) {
		// Not-owned reads as not-found to the caller.
		return nil, ErrNotFound
	}

	// 2. Build the prompt. Answers go in verbatim.
	derived := deriveFields(response.Answers)
	systemMsg := generation.BuildSystemMessage()
	userMsg, err := generation.BuildUserMessage(response.Answers, derived)
	if err != nil {
		return nil, err
	}

	// 3. Single upstream call, bounded by the configured timeout. This is
	// the only suspension point in the pipeline; a client disconnect does
	// not cancel it, the deadline does.
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rawText, err := s.client.Complete(callCtx, systemMsg, userMsg)
	if err != nil {
		duration := time.Since(start)
		if generation.IsTimeout(err) {
			log.Printf("plan generation request=%s response=%s status=timeout duration=%s", requestID, responseID.Hex(), duration)
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		log.Printf("plan generation request=%s response=%s status=upstream_error duration=%s", requestID, responseID.Hex(), duration)
		return nil, err
	}

	// 4. Parse. Models occasionally wrap output in code fences despite the
	// instruction, so strip them before parsing.
	cleaned := stripCodeFences(rawText)
	var planJSON map[string]any
	if err := json.Unmarshal([]byte(cleaned), &planJSON); err != nil {
		log.Printf("plan generation request=%s response=%s status=invalid_json duration=%s", requestID, responseID.Hex(), time.Since(start))
		s.audit.Record(events.TypePlanRejected, callerID.Hex(), responseID.Hex(), map[string]any{"reason": "invalid_json"})
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFormat, err)
	}

	// 5. Shape validation. No retry loop; the caller decides whether to
	// resubmit.
	if valid, violations := ValidatePlan(planJSON); !valid {
		log.Printf("plan generation request=%s response=%s status=invalid_shape duration=%s", requestID, responseID.Hex(), time.Since(start))
		s.audit.Record(events.TypePlanRejected, callerID.Hex(), responseID.Hex(), map[string]any{"reason": "invalid_shape"})
		return nil, &PlanShapeError{Violations: violations}
	}

	// 6. Persist a new plan row. Always an insert: regeneration history is
	// kept on purpose.
	plan := &domain.Plan{
		UserID:                response.UserID,
		CreatedFromResponseID: responseID,
		PlanJSON:              planJSON,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID

	log.Printf("plan generation request=%s response=%s plan=%s status=ok duration=%s", requestID, responseID.Hex(), planID.Hex(), time.Since(start))
	s.audit.Record(events.TypePlanGenerated, callerID.Hex(), planID.Hex(), nil)
	return plan, nil
}

func (s *planService) GetPlan(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, planID primitive.ObjectID) (*domain.Plan, error) {
	if planID == primitive.NilObjectID {
		return nil, NewValidationError("plan ID is required", "plan_id")
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !domain.CanAccess(callerID, callerRole, plan.UserID) {
		return nil, ErrAccessDenied
	}
	return plan, nil
}

func (s *planService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.planRepo.GetByUserID(ctx, userID)
}

// deriveFields computes prompt hints from the raw answers. The injuries text
// itself is never copied out, only a flag.
func deriveFields(answers map[string]any) generation.Derived {
	derived := generation.Derived{EquipmentAssumptions: "bodyweight"}

	if target, ok := answers["target_date"].(string); ok {
		derived.TargetDate = target
	}
	if location, ok := answers["location"].(string); ok && strings.Contains(strings.ToLower(location), "gym") {
		derived.EquipmentAssumptions = "basic_gym"
	}
	if injuries, ok := answers["injuries"].(string); ok && strings.TrimSpace(injuries) != "" {
		derived.LowImpactFlag = true
	}
	return derived
}

// stripCodeFences removes markdown ```json fences around a completion.
func stripCodeFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
