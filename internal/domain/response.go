package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Response is one user's submitted interview answers, keyed by question key.
// A Response is immutable once created; regenerating a plan never rewrites
// the answers it was generated from.
type Response struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	SessionID string             `bson:"sessionId" json:"sessionId"` // Client-side interview session identifier
	Answers   map[string]any     `bson:"answers" json:"answers"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
