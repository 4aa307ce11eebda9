package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrescriptionType says how an exercise is dosed: by repetitions or by time.
type PrescriptionType string

const (
	PrescriptionReps PrescriptionType = "reps"
	PrescriptionTime PrescriptionType = "time"
)

// TemplateExercise is one ordered exercise entry inside a WorkoutTemplate.
type TemplateExercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SortOrder        int                `bson:"sortOrder" json:"sortOrder"`
	Name             string             `bson:"name" json:"name"`
	PrescriptionType PrescriptionType   `bson:"prescriptionType" json:"prescriptionType"`
	Sets             int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps             int                `bson:"reps,omitempty" json:"reps,omitempty"`
	Seconds          int                `bson:"seconds,omitempty" json:"seconds,omitempty"`
	RestSeconds      int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	MediaID          *primitive.ObjectID `bson:"mediaId,omitempty" json:"mediaId,omitempty"` // Optional demo video (see ExerciseMedia)
}

// WorkoutTemplate is a user-owned, editable list of exercises that sessions
// are started from. Edits never propagate into already-started sessions;
// sessions carry their own snapshots.
type WorkoutTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises []TemplateExercise `bson:"exercises" json:"exercises"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TemplateStatus is derived from a template's recent sessions for list views.
type TemplateStatus string

const (
	TemplateNotStarted TemplateStatus = "not_started"
	TemplateInProgress TemplateStatus = "in_progress"
	TemplateDone       TemplateStatus = "done"
)
