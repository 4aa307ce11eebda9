package mongo

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const shareTokenCollectionName = "workout_share_tokens"

// mongoShareTokenRepository implements repository.ShareTokenRepository.
type mongoShareTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoShareTokenRepository creates a new share token repository.
func NewMongoShareTokenRepository(db *mongo.Database) repository.ShareTokenRepository {
	return &mongoShareTokenRepository{
		collection: db.Collection(shareTokenCollectionName),
	}
}

// Create inserts a new share token.
func (r *mongoShareTokenRepository) Create(ctx context.Context, token *domain.ShareToken) (primitive.ObjectID, error) {
	if token.Token == "" || token.WorkoutSessionID == primitive.NilObjectID || token.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("share token requires token, workoutSessionId, and userId")
	}

	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted token ID")
	}
	return insertedID, nil
}

// GetByToken retrieves a token by its opaque value.
func (r *mongoShareTokenRepository) GetByToken(ctx context.Context, token string) (*domain.ShareToken, error) {
	var shareToken domain.ShareToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&shareToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &shareToken, nil
}

// DeleteBySession removes every token issued for a session. Called before a
// new token is issued so only one is ever live per session.
func (r *mongoShareTokenRepository) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"workoutSessionId": sessionID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteExpired removes tokens past their expiry.
func (r *mongoShareTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureShareTokenIndexes creates necessary indexes. Call during startup.
func EnsureShareTokenIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "workoutSessionId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
