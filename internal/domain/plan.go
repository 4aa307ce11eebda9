package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is one generated workout plan tied to the Response it was built from.
// Plans are immutable; regeneration inserts a new Plan rather than updating,
// so the full regeneration history is preserved.
type Plan struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedFromResponseID primitive.ObjectID `bson:"createdFromResponseId" json:"createdFromResponseId"` // Weak reference; the Response may be purged later
	PlanJSON              map[string]any     `bson:"planJson" json:"planJson"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
}
