package service

import (
	"coachplan/fitness-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestQuestionCreateValidation(t *testing.T) {
	svc := NewQuestionService(&stubQuestionRepo{})
	ctx := context.Background()

	tests := []struct {
		name     string
		question domain.Question
		wantErr  bool
	}{
		{
			"valid text question",
			domain.Question{Key: "goal", Label: "Goal", InputType: domain.InputText},
			false,
		},
		{
			"select without options",
			domain.Question{Key: "goal", Label: "Goal", InputType: domain.InputSingleSelect},
			true,
		},
		{
			"range with inverted bounds",
			domain.Question{Key: "days", Label: "Days", InputType: domain.InputRange, Range: &domain.RangeBounds{Min: 7, Max: 1}},
			true,
		},
		{
			"unknown input type",
			domain.Question{Key: "goal", Label: "Goal", InputType: "dropdown"},
			true,
		},
		{
			"missing key",
			domain.Question{Label: "Goal", InputType: domain.InputText},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.question
			_, err := svc.Create(ctx, &q)
			if tt.wantErr {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestionKeyIsImmutable(t *testing.T) {
	repo := &stubQuestionRepo{}
	svc := NewQuestionService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Question{Key: "goal", Label: "Goal", InputType: domain.InputText})
	require.NoError(t, err)

	renamed := *created
	renamed.Key = "objective"
	_, err = svc.Update(ctx, &renamed)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "key")

	relabeled := *created
	relabeled.Label = "Primary goal"
	updated, err := svc.Update(ctx, &relabeled)
	require.NoError(t, err)
	assert.Equal(t, "Primary goal", updated.Label)
	assert.Equal(t, "goal", updated.Key)
}

func TestQuestionSetEnabled(t *testing.T) {
	repo := &stubQuestionRepo{}
	svc := NewQuestionService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Question{Key: "goal", Label: "Goal", InputType: domain.InputText, IsEnabled: true})
	require.NoError(t, err)

	require.NoError(t, svc.SetEnabled(ctx, created.ID, false))
	enabled, err := svc.ListEnabled(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "disabling never deletes")

	assert.ErrorIs(t, svc.SetEnabled(ctx, primitive.NewObjectID(), true), ErrNotFound)
}
