package service

import (
	"coachplan/fitness-app/internal/domain"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubGenClient returns canned completions or errors.
type stubGenClient struct {
	completion string
	err        error
	calls      int
	lastUser   string
}

func (s *stubGenClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.lastUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.completion, nil
}

func validPlanJSON(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(validPlanCandidate())
	require.NoError(t, err)
	return string(raw)
}

func seedResponse(t *testing.T, repo *stubResponseRepo, userID primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	response := &domain.Response{
		UserID:    userID,
		SessionID: "sess-1",
		Answers: map[string]any{
			"goal":     "strength",
			"location": "Commercial gym",
			"injuries": "lower back",
		},
	}
	id, err := repo.Create(context.Background(), response)
	require.NoError(t, err)
	return id
}

func TestGeneratePersistsValidPlan(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	planRepo := &stubPlanRepo{}
	client := &stubGenClient{completion: validPlanJSON(t)}
	svc := NewPlanService(responseRepo, planRepo, client, 0, testAudit())

	userID := primitive.NewObjectID()
	responseID := seedResponse(t, responseRepo, userID)

	plan, err := svc.Generate(context.Background(), userID, domain.RoleUser, responseID)
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, plan.ID)
	assert.Equal(t, userID, plan.UserID)
	assert.Equal(t, responseID, plan.CreatedFromResponseID)
	assert.Equal(t, validPlanCandidate(), plan.PlanJSON)
	assert.Equal(t, 1, client.calls, "exactly one upstream call, no retries")

	// The prompt carries the answers verbatim plus derived hints.
	assert.Contains(t, client.lastUser, "Commercial gym")
	assert.Contains(t, client.lastUser, "basic_gym")
}

func TestGenerateStripsCodeFences(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	planRepo := &stubPlanRepo{}
	client := &stubGenClient{completion: "```json\n" + validPlanJSON(t) + "\n```"}
	svc := NewPlanService(responseRepo, planRepo, client, 0, testAudit())

	userID := primitive.NewObjectID()
	plan, err := svc.Generate(context.Background(), userID, domain.RoleUser, seedResponse(t, responseRepo, userID))
	require.NoError(t, err)
	assert.Equal(t, validPlanCandidate(), plan.PlanJSON)
}

func TestGenerateRegenerationKeepsHistory(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	planRepo := &stubPlanRepo{}
	client := &stubGenClient{completion: validPlanJSON(t)}
	svc := NewPlanService(responseRepo, planRepo, client, 0, testAudit())

	userID := primitive.NewObjectID()
	responseID := seedResponse(t, responseRepo, userID)

	first, err := svc.Generate(context.Background(), userID, domain.RoleUser, responseID)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), userID, domain.RoleUser, responseID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	plans, err := svc.ListPlans(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestGenerateMalformedJSON(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	client := &stubGenClient{completion: "Sure! Here is your plan: do squats."}
	svc := NewPlanService(responseRepo, &stubPlanRepo{}, client, 0, testAudit())

	userID := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), userID, domain.RoleUser, seedResponse(t, responseRepo, userID))
	assert.ErrorIs(t, err, ErrUpstreamFormat)
}

func TestGenerateTimeout(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	client := &stubGenClient{err: context.DeadlineExceeded}
	svc := NewPlanService(responseRepo, &stubPlanRepo{}, client, 0, testAudit())

	userID := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), userID, domain.RoleUser, seedResponse(t, responseRepo, userID))
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
}

func TestGenerateShapeViolation(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	planRepo := &stubPlanRepo{}
	client := &stubGenClient{completion: `{"planSummary":"ok","weeklySchedule":[]}`}
	svc := NewPlanService(responseRepo, planRepo, client, 0, testAudit())

	userID := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), userID, domain.RoleUser, seedResponse(t, responseRepo, userID))
	require.Error(t, err)

	var shapeErr *PlanShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.NotEmpty(t, shapeErr.Violations)
	assert.Empty(t, planRepo.plans, "rejected plans are not persisted")
}

func TestGenerateOwnership(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	client := &stubGenClient{completion: validPlanJSON(t)}
	svc := NewPlanService(responseRepo, &stubPlanRepo{}, client, 0, testAudit())

	owner := primitive.NewObjectID()
	responseID := seedResponse(t, responseRepo, owner)

	// A stranger sees not-found, not forbidden.
	_, err := svc.Generate(context.Background(), primitive.NewObjectID(), domain.RoleUser, responseID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Admins can generate on behalf of any user; the plan still belongs
	// to the response owner.
	plan, err := svc.Generate(context.Background(), primitive.NewObjectID(), domain.RoleAdmin, responseID)
	require.NoError(t, err)
	assert.Equal(t, owner, plan.UserID)
}

func TestDeriveFields(t *testing.T) {
	derived := deriveFields(map[string]any{
		"location":    "Home living room",
		"injuries":    " ",
		"target_date": "2026-12-01",
	})
	assert.Equal(t, "bodyweight", derived.EquipmentAssumptions)
	assert.False(t, derived.LowImpactFlag, "blank injuries text is no injury")
	assert.Equal(t, "2026-12-01", derived.TargetDate)

	derived = deriveFields(map[string]any{
		"location": "Gym near work",
		"injuries": "knee pain",
	})
	assert.Equal(t, "basic_gym", derived.EquipmentAssumptions)
	assert.True(t, derived.LowImpactFlag)
}
