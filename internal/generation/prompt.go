package generation

import (
	"encoding/json"
	"fmt"
)

// Derived carries fields computed from the interview answers before
// prompting. None of them repeat sensitive free text: the low-impact flag is
// set from the injuries answer without quoting it.
type Derived struct {
	TargetDate           string `json:"targetDate,omitempty"`
	EquipmentAssumptions string `json:"equipmentAssumptions"`
	LowImpactFlag        bool   `json:"lowImpactFlag"`
}

// BuildSystemMessage returns the fixed instruction describing the plan
// schema the model must emit.
func BuildSystemMessage() string {
	return "You are an expert fitness coach. You MUST return JSON ONLY " +
		"(no prose, no markdown, no code fences). Each session must not exceed " +
		"the user's time limit. Respect injuries and prefer low-impact " +
		"alternatives when necessary. Use goal to set focus and weekly split. " +
		"Use targetDate to set progression pace (if null, use steady " +
		"progression). Use starting volume/intensity appropriate to fitness " +
		"level. Only include exercises appropriate to the user's " +
		"location/equipment. Provide substitutes when equipment is missing. " +
		"Remove movements that match the user's pain/injury list. Include " +
		"warm-up and mobility blocks tied to limits. Output a single JSON " +
		"object with keys: planSummary, weeklySchedule, sessions, " +
		"progressionRules, substitutions, trackingFields, safetyNotes. Each " +
		"session must include a name and exercises. Exercises must include " +
		"name, sets, and reps or seconds, plus restSeconds and notes."
}

// BuildUserMessage embeds the full answer set verbatim, not summarized, plus
// the derived fields.
func BuildUserMessage(answers map[string]any, derived Derived) (string, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("marshal interview answers: %w", err)
	}
	derivedJSON, err := json.Marshal(derived)
	if err != nil {
		return "", fmt.Errorf("marshal derived fields: %w", err)
	}
	return fmt.Sprintf(
		"User interview responses (JSON):\n%s\n\nDerived fields:\n%s\n\n"+
			"CRITICAL: Return VALID JSON only that conforms to the schema provided "+
			"by the system. Do not include any additional keys at the top-level "+
			"beyond the specified schema.",
		answersJSON, derivedJSON), nil
}
