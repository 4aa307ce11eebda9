package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShareTokenLength is the hex length of an issued token (32 random bytes).
const ShareTokenLength = 64

// ShareToken grants anonymous, time-limited access to one workout session's
// check-off view. Tokens for a session are revoked before a new one is
// issued, so at most one token per session is ever live.
type ShareToken struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token            string             `bson:"token" json:"token"` // Unique (enforced by index)
	WorkoutSessionID primitive.ObjectID `bson:"workoutSessionId" json:"workoutSessionId"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	ExpiresAt        time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

func (t *ShareToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
