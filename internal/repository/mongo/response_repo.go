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

const responseCollectionName = "interview_responses"

// mongoResponseRepository implements repository.ResponseRepository.
// Responses are insert-only; there is deliberately no Update method.
type mongoResponseRepository struct {
	collection *mongo.Collection
}

// NewMongoResponseRepository creates a new response repository.
func NewMongoResponseRepository(db *mongo.Database) repository.ResponseRepository {
	return &mongoResponseRepository{
		collection: db.Collection(responseCollectionName),
	}
}

// Create inserts a new interview response.
func (r *mongoResponseRepository) Create(ctx context.Context, response *domain.Response) (primitive.ObjectID, error) {
	if response.UserID == primitive.NilObjectID || response.SessionID == "" {
		return primitive.NilObjectID, errors.New("response requires userId and sessionId")
	}

	response.ID = primitive.NewObjectID()
	response.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, response)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted response ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single response by its ID.
func (r *mongoResponseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Response, error) {
	var response domain.Response
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&response)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &response, nil
}

// GetByUserID retrieves a user's responses, newest first.
func (r *mongoResponseRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Response, error) {
	var responses []domain.Response
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// EnsureResponseIndexes creates necessary indexes. Call during startup.
func EnsureResponseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
