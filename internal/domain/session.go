package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus tracks the lifecycle of a workout session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionFinished   SessionStatus = "finished"
)

// SessionExercise is a value copy of a TemplateExercise taken when the
// session starts, plus its completion state. The snapshot fields must not be
// rewritten after session start: historical sessions stay untouched by later
// template edits.
type SessionExercise struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TemplateExerciseID primitive.ObjectID `bson:"templateExerciseId" json:"templateExerciseId"` // Weak reference back to the template entry
	SortOrder          int                `bson:"sortOrder" json:"sortOrder"`
	Name               string             `bson:"name" json:"name"`
	PrescriptionType   PrescriptionType   `bson:"prescriptionType" json:"prescriptionType"`
	Sets               int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps               int                `bson:"reps,omitempty" json:"reps,omitempty"`
	Seconds            int                `bson:"seconds,omitempty" json:"seconds,omitempty"`
	RestSeconds        int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	IsCompleted        bool               `bson:"isCompleted" json:"isCompleted"`
	CompletedAt        *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// WorkoutSession is one timed attempt at executing a template.
type WorkoutSession struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutTemplateID primitive.ObjectID `bson:"workoutTemplateId" json:"workoutTemplateId"`
	Status            SessionStatus      `bson:"status" json:"status"`
	StartedAt         time.Time          `bson:"startedAt" json:"startedAt"`
	FinishedAt        *time.Time         `bson:"finishedAt,omitempty" json:"finishedAt,omitempty"`
	CompletionPercent int                `bson:"completionPercent" json:"completionPercent"` // 0-100
	DayNote           string             `bson:"dayNote,omitempty" json:"dayNote,omitempty"`
	Exercises         []SessionExercise  `bson:"exercises" json:"exercises"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SnapshotExercises builds session exercise copies from a template's current
// exercise list. Value copies only; the session never follows a live
// reference back to the template.
func SnapshotExercises(template *WorkoutTemplate) []SessionExercise {
	snapshots := make([]SessionExercise, 0, len(template.Exercises))
	for _, ex := range template.Exercises {
		snapshots = append(snapshots, SessionExercise{
			ID:                 primitive.NewObjectID(),
			TemplateExerciseID: ex.ID,
			SortOrder:          ex.SortOrder,
			Name:               ex.Name,
			PrescriptionType:   ex.PrescriptionType,
			Sets:               ex.Sets,
			Reps:               ex.Reps,
			Seconds:            ex.Seconds,
			RestSeconds:        ex.RestSeconds,
			IsCompleted:        false,
		})
	}
	return snapshots
}

// CalculateCompletionPercent returns round(100 * completed / total) with
// half-up rounding, and 0 for an empty list. 1-of-3 gives 33, 2-of-3 gives 67.
func CalculateCompletionPercent(exercises []SessionExercise) int {
	if len(exercises) == 0 {
		return 0
	}
	completed := 0
	for _, ex := range exercises {
		if ex.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(exercises))))
}
