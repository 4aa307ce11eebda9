package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCalculateCompletionPercent(t *testing.T) {
	build := func(completed, total int) []SessionExercise {
		exercises := make([]SessionExercise, total)
		for i := 0; i < total; i++ {
			exercises[i] = SessionExercise{ID: primitive.NewObjectID(), IsCompleted: i < completed}
		}
		return exercises
	}

	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty session", 0, 0, 0},
		{"none completed", 0, 4, 0},
		{"all completed", 5, 5, 100},
		{"three of five", 3, 5, 60},
		{"one of three rounds down", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"one of two rounds up", 1, 2, 50},
		{"single exercise done", 1, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCompletionPercent(build(tt.completed, tt.total))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotExercises(t *testing.T) {
	template := &WorkoutTemplate{
		ID:   primitive.NewObjectID(),
		Name: "Push Day",
		Exercises: []TemplateExercise{
			{ID: primitive.NewObjectID(), SortOrder: 1, Name: "Bench Press", PrescriptionType: PrescriptionReps, Sets: 3, Reps: 8},
			{ID: primitive.NewObjectID(), SortOrder: 2, Name: "Plank", PrescriptionType: PrescriptionTime, Sets: 3, Seconds: 60},
		},
	}

	snapshot := SnapshotExercises(template)
	assert.Len(t, snapshot, 2)
	for i, ex := range snapshot {
		assert.NotEqual(t, template.Exercises[i].ID, ex.ID, "snapshot entries get their own IDs")
		assert.Equal(t, template.Exercises[i].Name, ex.Name)
		assert.False(t, ex.IsCompleted)
		assert.Nil(t, ex.CompletedAt)
	}

	// Mutating the template after the fact must not reach the snapshot.
	template.Exercises[0].Name = "Incline Press"
	assert.Equal(t, "Bench Press", snapshot[0].Name)
}

func TestCanAccess(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	assert.True(t, CanAccess(owner, RoleUser, owner))
	assert.False(t, CanAccess(stranger, RoleUser, owner))
	assert.True(t, CanAccess(stranger, RoleAdmin, owner))
}
