package mongo

import (
	"coachplan/fitness-app/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventCollectionName = "event_logs"

// mongoEventRepository implements repository.EventRepository. Writes are
// best-effort; the events sink swallows the error either way.
type mongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new event log repository.
func NewMongoEventRepository(db *mongo.Database) repository.EventRepository {
	return &mongoEventRepository{
		collection: db.Collection(eventCollectionName),
	}
}

// Record inserts one audit event row. IDs arrive pre-masked.
func (r *mongoEventRepository) Record(ctx context.Context, eventType, maskedUserID, maskedResourceID string, metadata map[string]any) error {
	doc := bson.M{
		"eventType":  eventType,
		"userId":     maskedUserID,
		"resourceId": maskedResourceID,
		"metadata":   metadata,
		"createdAt":  time.Now().UTC(),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// EnsureEventIndexes creates necessary indexes. Call during startup.
func EnsureEventIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventType", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
