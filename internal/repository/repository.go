package repository

import (
	"coachplan/fitness-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// QuestionRepository defines the interface for interview question definitions.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Question, error)
	GetByKey(ctx context.Context, key string) (*domain.Question, error)
	ListEnabled(ctx context.Context) ([]domain.Question, error)
	ListAll(ctx context.Context) ([]domain.Question, error)
	Update(ctx context.Context, question *domain.Question) error
	SetEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) error
}

// ResponseRepository stores immutable interview responses.
type ResponseRepository interface {
	Create(ctx context.Context, response *domain.Response) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Response, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Response, error)
}

// PlanRepository stores generated plans. Plans are insert-only.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error)
}

// TemplateRepository defines the interface for workout template data.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, template *domain.WorkoutTemplate) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// SessionRepository defines the interface for workout session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetInProgressByTemplate(ctx context.Context, templateID, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetRecentByTemplate(ctx context.Context, templateID, userID primitive.ObjectID, limit int) ([]domain.WorkoutSession, error)
	GetFinishedBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, session *domain.WorkoutSession) error
}

// ShareTokenRepository stores check-off share tokens.
type ShareTokenRepository interface {
	Create(ctx context.Context, token *domain.ShareToken) (primitive.ObjectID, error)
	GetByToken(ctx context.Context, token string) (*domain.ShareToken, error)
	DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// MediaRepository stores exercise demo media metadata.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.ExerciseMedia) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseMedia, error)
}

// EventRepository persists audit events. Implementations must be cheap to
// fail; callers treat writes as best-effort.
type EventRepository interface {
	Record(ctx context.Context, eventType, maskedUserID, maskedResourceID string, metadata map[string]any) error
}
