package service

import (
	"coachplan/fitness-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func interviewFixture() *stubQuestionRepo {
	return &stubQuestionRepo{questions: []domain.Question{
		{
			ID: primitive.NewObjectID(), Key: "goal", Label: "Primary goal",
			InputType: domain.InputSingleSelect, IsRequired: true, IsEnabled: true, SortOrder: 1,
			Options: []domain.QuestionOption{
				{Value: "strength", IsEnabled: true},
				{Value: "endurance", IsEnabled: true},
				{Value: "legacy_bulk", IsEnabled: false},
			},
		},
		{
			ID: primitive.NewObjectID(), Key: "training_days", Label: "Days per week",
			InputType: domain.InputNumber, IsRequired: true, IsEnabled: true, SortOrder: 2,
		},
		{
			ID: primitive.NewObjectID(), Key: "equipment", Label: "Available equipment",
			InputType: domain.InputMultiSelect, IsRequired: false, IsEnabled: true, SortOrder: 3,
			Options: []domain.QuestionOption{
				{Value: "barbell", IsEnabled: true},
				{Value: "dumbbells", IsEnabled: true},
			},
		},
		{
			ID: primitive.NewObjectID(), Key: "injuries", Label: "Current injuries",
			InputType: domain.InputText, IsRequired: false, IsEnabled: true, SortOrder: 4,
		},
		{
			// Disabled questions are invisible to submission checks.
			ID: primitive.NewObjectID(), Key: "retired_question", Label: "Old",
			InputType: domain.InputText, IsRequired: true, IsEnabled: false, SortOrder: 5,
		},
	}}
}

func TestInterviewQuestionsOnlyEnabled(t *testing.T) {
	svc := NewInterviewService(interviewFixture(), &stubResponseRepo{}, testAudit())

	questions, err := svc.Questions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 4)
	for _, q := range questions {
		assert.NotEqual(t, "retired_question", q.Key)
	}
}

func TestInterviewSubmitStoresResponse(t *testing.T) {
	responseRepo := &stubResponseRepo{}
	svc := NewInterviewService(interviewFixture(), responseRepo, testAudit())
	userID := primitive.NewObjectID()

	answers := map[string]any{
		"goal":          "strength",
		"training_days": float64(4),
		"equipment":     []any{"barbell", "dumbbells"},
	}
	response, err := svc.Submit(context.Background(), userID, "sess-1", answers)
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, response.ID)
	assert.Equal(t, userID, response.UserID)
	assert.Equal(t, "sess-1", response.SessionID)

	stored, err := svc.ResponsesForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, answers, stored[0].Answers)
}

func TestInterviewSubmitListsAllMissingKeys(t *testing.T) {
	svc := NewInterviewService(interviewFixture(), &stubResponseRepo{}, testAudit())

	// Both required answers absent: the error must name both keys, not
	// just the first.
	_, err := svc.Submit(context.Background(), primitive.NewObjectID(), "sess-1", map[string]any{
		"injuries": "none",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{"goal", "training_days"}, validationErr.Fields)
}

func TestInterviewSubmitTypeChecks(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]any
		badKey  string
	}{
		{
			"single select rejects arrays",
			map[string]any{"goal": []any{"strength"}, "training_days": float64(3)},
			"goal",
		},
		{
			"single select rejects disabled option",
			map[string]any{"goal": "legacy_bulk", "training_days": float64(3)},
			"goal",
		},
		{
			"number rejects non-numeric string",
			map[string]any{"goal": "strength", "training_days": "most days"},
			"training_days",
		},
		{
			"multi select rejects scalar",
			map[string]any{"goal": "strength", "training_days": float64(3), "equipment": "barbell"},
			"equipment",
		},
		{
			"multi select rejects unknown option",
			map[string]any{"goal": "strength", "training_days": float64(3), "equipment": []any{"kettlebell"}},
			"equipment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewInterviewService(interviewFixture(), &stubResponseRepo{}, testAudit())
			_, err := svc.Submit(context.Background(), primitive.NewObjectID(), "sess-1", tt.answers)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.badKey)
		})
	}
}

func TestInterviewSubmitAcceptsNumericStrings(t *testing.T) {
	svc := NewInterviewService(interviewFixture(), &stubResponseRepo{}, testAudit())

	_, err := svc.Submit(context.Background(), primitive.NewObjectID(), "sess-1", map[string]any{
		"goal":          "endurance",
		"training_days": "4",
	})
	assert.NoError(t, err)
}
