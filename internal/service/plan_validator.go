package service

import "fmt"

// ValidatePlan checks a candidate plan object against the required shape.
// It is purely structural: a well-shaped plan with absurd numbers passes;
// domain plausibility is not this function's job.
//
// Required shape:
//   - planSummary: non-empty string
//   - weeklySchedule: array
//   - sessions: array; each entry has a name and a non-empty exercises
//     array; each exercise has a name and sets+reps or sets+seconds.
func ValidatePlan(candidate map[string]any) (bool, []string) {
	var violations []string

	summary, ok := candidate["planSummary"].(string)
	if !ok || summary == "" {
		violations = append(violations, "planSummary must be a non-empty string")
	}

	if _, ok := asArray(candidate["weeklySchedule"]); !ok {
		violations = append(violations, "weeklySchedule must be an array")
	}

	sessions, ok := asArray(candidate["sessions"])
	if !ok {
		violations = append(violations, "sessions must be an array")
		return false, violations
	}

	for i, raw := range sessions {
		session, ok := raw.(map[string]any)
		if !ok {
			violations = append(violations, fmt.Sprintf("sessions[%d] must be an object", i))
			continue
		}
		if name, ok := session["name"].(string); !ok || name == "" {
			violations = append(violations, fmt.Sprintf("sessions[%d].name must be a non-empty string", i))
		}
		exercises, ok := asArray(session["exercises"])
		if !ok || len(exercises) == 0 {
			violations = append(violations, fmt.Sprintf("sessions[%d].exercises must be a non-empty array", i))
			continue
		}
		for j, rawEx := range exercises {
			exercise, ok := rawEx.(map[string]any)
			if !ok {
				violations = append(violations, fmt.Sprintf("sessions[%d].exercises[%d] must be an object", i, j))
				continue
			}
			if name, ok := exercise["name"].(string); !ok || name == "" {
				violations = append(violations, fmt.Sprintf("sessions[%d].exercises[%d].name must be a non-empty string", i, j))
			}
			if !hasPrescription(exercise) {
				violations = append(violations, fmt.Sprintf("sessions[%d].exercises[%d] must have sets with reps or seconds", i, j))
			}
		}
	}

	return len(violations) == 0, violations
}

// hasPrescription reports whether an exercise carries sets+reps or
// sets+seconds.
func hasPrescription(exercise map[string]any) bool {
	if !isNumeric(exercise["sets"]) {
		return false
	}
	return isNumeric(exercise["reps"]) || isNumeric(exercise["seconds"])
}

func asArray(val any) ([]any, bool) {
	arr, ok := val.([]any)
	return arr, ok
}
