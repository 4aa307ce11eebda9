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

const questionCollectionName = "interview_questions"

// mongoQuestionRepository implements repository.QuestionRepository.
type mongoQuestionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepository creates a new question repository.
func NewMongoQuestionRepository(db *mongo.Database) repository.QuestionRepository {
	return &mongoQuestionRepository{
		collection: db.Collection(questionCollectionName),
	}
}

// Create inserts a new question definition.
func (r *mongoQuestionRepository) Create(ctx context.Context, question *domain.Question) (primitive.ObjectID, error) {
	if question.Key == "" || question.Label == "" || question.InputType == "" {
		return primitive.NilObjectID, errors.New("question requires key, label, and inputType")
	}

	question.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	question.CreatedAt = now
	question.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted question ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single question by its ID.
func (r *mongoQuestionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Question, error) {
	var question domain.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByKey retrieves a single question by its unique key.
func (r *mongoQuestionRepository) GetByKey(ctx context.Context, key string) (*domain.Question, error) {
	var question domain.Question
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&question)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ListEnabled returns enabled questions ordered by sortOrder.
func (r *mongoQuestionRepository) ListEnabled(ctx context.Context) ([]domain.Question, error) {
	return r.list(ctx, bson.M{"isEnabled": true})
}

// ListAll returns every question, enabled or not, ordered by sortOrder.
func (r *mongoQuestionRepository) ListAll(ctx context.Context) ([]domain.Question, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoQuestionRepository) list(ctx context.Context, filter bson.M) ([]domain.Question, error) {
	var questions []domain.Question
	findOptions := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Update replaces the mutable fields of a question. The key stays fixed so
// stored responses keep resolving.
func (r *mongoQuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	if question.ID == primitive.NilObjectID {
		return errors.New("question ID is required for update")
	}

	filter := bson.M{"_id": question.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"label":      question.Label,
			"helpText":   question.HelpText,
			"inputType":  question.InputType,
			"options":    question.Options,
			"range":      question.Range,
			"isRequired": question.IsRequired,
			"sortOrder":  question.SortOrder,
			"updatedAt":  time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetEnabled flips the enabled flag. Questions are never deleted.
func (r *mongoQuestionRepository) SetEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"isEnabled": enabled, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureQuestionIndexes creates necessary indexes. Call during startup.
func EnsureQuestionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "isEnabled", Value: 1}, {Key: "sortOrder", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
