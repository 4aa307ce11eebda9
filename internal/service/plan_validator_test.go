package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPlanCandidate() map[string]any {
	return map[string]any{
		"planSummary":    "Three day full-body program",
		"weeklySchedule": []any{"Mon", "Wed", "Fri"},
		"sessions": []any{
			map[string]any{
				"name": "Day A",
				"exercises": []any{
					map[string]any{"name": "Squat", "sets": float64(3), "reps": float64(5)},
					map[string]any{"name": "Plank", "sets": float64(3), "seconds": float64(45)},
				},
			},
		},
	}
}

func TestValidatePlanAcceptsMinimalPlan(t *testing.T) {
	ok, violations := ValidatePlan(validPlanCandidate())
	assert.True(t, ok)
	assert.Empty(t, violations)
}

func TestValidatePlanViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(candidate map[string]any)
	}{
		{
			"missing planSummary",
			func(c map[string]any) { delete(c, "planSummary") },
		},
		{
			"planSummary not a string",
			func(c map[string]any) { c["planSummary"] = float64(3) },
		},
		{
			"weeklySchedule not an array",
			func(c map[string]any) { c["weeklySchedule"] = "Mon,Wed,Fri" },
		},
		{
			"missing sessions",
			func(c map[string]any) { delete(c, "sessions") },
		},
		{
			"session without a name",
			func(c map[string]any) {
				c["sessions"] = []any{map[string]any{
					"exercises": []any{map[string]any{"name": "Squat", "sets": float64(3), "reps": float64(5)}},
				}}
			},
		},
		{
			"session with no exercises",
			func(c map[string]any) {
				c["sessions"] = []any{map[string]any{"name": "Day A", "exercises": []any{}}}
			},
		},
		{
			"exercise without a name",
			func(c map[string]any) {
				c["sessions"] = []any{map[string]any{
					"name":      "Day A",
					"exercises": []any{map[string]any{"sets": float64(3), "reps": float64(5)}},
				}}
			},
		},
		{
			"exercise without a prescription",
			func(c map[string]any) {
				c["sessions"] = []any{map[string]any{
					"name":      "Day A",
					"exercises": []any{map[string]any{"name": "Squat"}},
				}}
			},
		},
		{
			"exercise with sets but no reps or seconds",
			func(c map[string]any) {
				c["sessions"] = []any{map[string]any{
					"name":      "Day A",
					"exercises": []any{map[string]any{"name": "Squat", "sets": float64(3)}},
				}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validPlanCandidate()
			tt.mutate(candidate)
			ok, violations := ValidatePlan(candidate)
			assert.False(t, ok)
			assert.NotEmpty(t, violations)
		})
	}
}
