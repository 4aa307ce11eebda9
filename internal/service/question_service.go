package service

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---

// QuestionService manages the interview question catalog. Listing enabled
// questions is public; everything else is admin-only and enforced at the
// route layer.
type QuestionService interface {
	ListEnabled(ctx context.Context) ([]domain.Question, error)
	ListAll(ctx context.Context) ([]domain.Question, error)
	Get(ctx context.Context, questionID primitive.ObjectID) (*domain.Question, error)
	Create(ctx context.Context, question *domain.Question) (*domain.Question, error)
	Update(ctx context.Context, question *domain.Question) (*domain.Question, error)
	SetEnabled(ctx context.Context, questionID primitive.ObjectID, enabled bool) error
}

// --- Service Implementation ---

type questionService struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionService creates a new instance of questionService.
func NewQuestionService(questionRepo repository.QuestionRepository) QuestionService {
	return &questionService{questionRepo: questionRepo}
}

func (s *questionService) ListEnabled(ctx context.Context) ([]domain.Question, error) {
	return s.questionRepo.ListEnabled(ctx)
}

func (s *questionService) ListAll(ctx context.Context) ([]domain.Question, error) {
	return s.questionRepo.ListAll(ctx)
}

func (s *questionService) Get(ctx context.Context, questionID primitive.ObjectID) (*domain.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *questionService) Create(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	questionID, err := s.questionRepo.Create(ctx, question)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewValidationError("question key already in use", "key")
		}
		return nil, err
	}
	question.ID = questionID
	return question, nil
}

func (s *questionService) Update(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if question.ID == primitive.NilObjectID {
		return nil, NewValidationError("question ID is required", "id")
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	existing, err := s.questionRepo.GetByID(ctx, question.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The key identifies answers across responses; it never changes after
	// creation.
	if question.Key != existing.Key {
		return nil, NewValidationError("question key cannot be changed", "key")
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.questionRepo.GetByID(ctx, question.ID)
}

func (s *questionService) SetEnabled(ctx context.Context, questionID primitive.ObjectID, enabled bool) error {
	err := s.questionRepo.SetEnabled(ctx, questionID, enabled)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func validateQuestion(question *domain.Question) error {
	var fields []string
	if question.Key == "" {
		fields = append(fields, "key")
	}
	if question.Label == "" {
		fields = append(fields, "label")
	}
	switch question.InputType {
	case domain.InputText, domain.InputNumber, domain.InputYesNo:
	case domain.InputSingleSelect, domain.InputMultiSelect:
		if len(question.Options) == 0 {
			fields = append(fields, "options")
		}
	case domain.InputRange:
		if question.Range == nil || question.Range.Min >= question.Range.Max {
			fields = append(fields, "range")
		}
	default:
		fields = append(fields, "inputType")
	}
	if len(fields) > 0 {
		return NewValidationError("invalid question definition", fields...)
	}
	return nil
}
