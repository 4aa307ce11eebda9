package service

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/events"
	"coachplan/fitness-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateSummary is a template plus status derived from its recent sessions.
type TemplateSummary struct {
	Template                domain.WorkoutTemplate `json:"template"`
	Status                  domain.TemplateStatus  `json:"status"`
	LastCompletedAt         *time.Time             `json:"lastCompletedAt,omitempty"`
	InProgressSessionID     *primitive.ObjectID    `json:"inProgressSessionId,omitempty"`
	LatestFinishedSessionID *primitive.ObjectID    `json:"latestFinishedSessionId,omitempty"`
}

// CalendarDay groups finished sessions for one date.
type CalendarDay struct {
	Date     string                  `json:"date"` // YYYY-MM-DD
	Count    int                     `json:"count"`
	Sessions []domain.WorkoutSession `json:"sessions"`
}

// recentSessionWindow bounds how many sessions are scanned when deriving a
// template's status.
const recentSessionWindow = 10

// --- Service Interface ---
type WorkoutService interface {
	// Template management
	CreateTemplate(ctx context.Context, userID primitive.ObjectID, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]TemplateSummary, error)
	UpdateTemplate(ctx context.Context, userID primitive.ObjectID, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, userID, templateID primitive.ObjectID) error

	// Session lifecycle
	StartSession(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	SetExerciseCompletion(ctx context.Context, userID, sessionID, exerciseID primitive.ObjectID, completed bool) (*domain.WorkoutSession, error)
	FinishSession(ctx context.Context, userID, sessionID primitive.ObjectID, dayNote string) (*domain.WorkoutSession, error)
	ResetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)

	// Calendar views
	CalendarMonth(ctx context.Context, userID primitive.ObjectID, year, month int) ([]CalendarDay, error)
	CalendarDaySessions(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WorkoutSession, error)
}

// --- Service Implementation ---

type workoutService struct {
	templateRepo repository.TemplateRepository
	sessionRepo  repository.SessionRepository
	audit        *events.Logger
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	templateRepo repository.TemplateRepository,
	sessionRepo repository.SessionRepository,
	audit *events.Logger,
) WorkoutService {
	return &workoutService{
		templateRepo: templateRepo,
		sessionRepo:  sessionRepo,
		audit:        audit,
	}
}

// === Template Management ===

func (s *workoutService) CreateTemplate(ctx context.Context, userID primitive.ObjectID, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if template.Name == "" {
		return nil, NewValidationError("template name is required", "name")
	}
	template.UserID = userID
	normalizeExerciseOrder(template.Exercises)

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = templateID
	return template, nil
}

func (s *workoutService) GetTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	return s.ownedTemplate(ctx, userID, templateID)
}

func (s *workoutService) ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]TemplateSummary, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	templates, err := s.templateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]TemplateSummary, 0, len(templates))
	for _, template := range templates {
		summary := TemplateSummary{Template: template, Status: domain.TemplateNotStarted}

		recent, err := s.sessionRepo.GetRecentByTemplate(ctx, template.ID, userID, recentSessionWindow)
		if err != nil {
			return nil, err
		}
		for i := range recent {
			session := &recent[i]
			switch session.Status {
			case domain.SessionInProgress:
				if summary.InProgressSessionID == nil {
					id := session.ID
					summary.InProgressSessionID = &id
				}
			case domain.SessionFinished:
				if summary.LatestFinishedSessionID == nil {
					id := session.ID
					summary.LatestFinishedSessionID = &id
					summary.LastCompletedAt = session.FinishedAt
				}
			}
		}
		if summary.InProgressSessionID != nil {
			summary.Status = domain.TemplateInProgress
		} else if summary.LatestFinishedSessionID != nil {
			summary.Status = domain.TemplateDone
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *workoutService) UpdateTemplate(ctx context.Context, userID primitive.ObjectID, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	existing, err := s.ownedTemplate(ctx, userID, template.ID)
	if err != nil {
		return nil, err
	}
	if template.Name == "" {
		template.Name = existing.Name
	}
	template.UserID = userID
	normalizeExerciseOrder(template.Exercises)

	// Sessions already started keep their snapshots; only the template
	// itself changes.
	if err := s.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, template.ID)
}

func (s *workoutService) DeleteTemplate(ctx context.Context, userID, templateID primitive.ObjectID) error {
	err := s.templateRepo.Delete(ctx, templateID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// === Session Lifecycle ===

// StartSession deep-copies the template's current exercises into the new
// session. From here on the session is self-contained: template edits never
// reach it.
func (s *workoutService) StartSession(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutSession, error) {
	template, err := s.ownedTemplate(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessionRepo.GetInProgressByTemplate(ctx, templateID, userID); err == nil {
		return nil, ErrSessionInProgress
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	session := &domain.WorkoutSession{
		UserID:            userID,
		WorkoutTemplateID: templateID,
		Status:            domain.SessionInProgress,
		StartedAt:         time.Now().UTC(),
		CompletionPercent: 0,
		Exercises:         domain.SnapshotExercises(template),
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID
	return session, nil
}

func (s *workoutService) GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.ownedSession(ctx, userID, sessionID)
}

func (s *workoutService) SetExerciseCompletion(ctx context.Context, userID, sessionID, exerciseID primitive.ObjectID, completed bool) (*domain.WorkoutSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionFinished {
		return nil, ErrSessionFinished
	}
	if err := applyExerciseCompletion(session, exerciseID, completed); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	eventType := events.TypeItemChecked
	if !completed {
		eventType = events.TypeItemUnchecked
	}
	s.audit.Record(eventType, userID.Hex(), sessionID.Hex(), map[string]any{
		"itemId": events.MaskID(exerciseID.Hex()),
	})
	return session, nil
}

// FinishSession closes the session. CompletionPercent keeps whatever was
// actually checked off; finishing at 2-of-3 stays 67, not 100.
func (s *workoutService) FinishSession(ctx context.Context, userID, sessionID primitive.ObjectID, dayNote string) (*domain.WorkoutSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionFinished {
		return nil, ErrSessionFinished
	}

	now := time.Now().UTC()
	session.Status = domain.SessionFinished
	session.FinishedAt = &now
	if dayNote != "" {
		session.DayNote = dayNote
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ResetSession clears every completion flag and the percentage. Status is
// left as-is: a finished session stays finished until explicitly restarted.
func (s *workoutService) ResetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range session.Exercises {
		session.Exercises[i].IsCompleted = false
		session.Exercises[i].CompletedAt = nil
	}
	session.CompletionPercent = 0
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// === Calendar Views ===

func (s *workoutService) CalendarMonth(ctx context.Context, userID primitive.ObjectID, year, month int) ([]CalendarDay, error) {
	if month < 1 || month > 12 {
		return nil, NewValidationError("month must be between 1 and 12", "month")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	sessions, err := s.sessionRepo.GetFinishedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*CalendarDay)
	var order []string
	for _, session := range sessions {
		if session.FinishedAt == nil {
			continue
		}
		day := session.FinishedAt.UTC().Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &CalendarDay{Date: day}
			byDay[day] = entry
			order = append(order, day)
		}
		entry.Count++
		entry.Sessions = append(entry.Sessions, session)
	}

	days := make([]CalendarDay, 0, len(order))
	for _, day := range order {
		days = append(days, *byDay[day])
	}
	return days, nil
}

func (s *workoutService) CalendarDaySessions(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WorkoutSession, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return s.sessionRepo.GetFinishedBetween(ctx, userID, from, to)
}

// === Helpers ===

func (s *workoutService) ownedTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	if userID == primitive.NilObjectID || templateID == primitive.NilObjectID {
		return nil, errors.New("user ID and template ID are required")
	}
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !domain.CanAccess(userID, domain.RoleUser, template.UserID) {
		return nil, ErrNotFound
	}
	return template, nil
}

func (s *workoutService) ownedSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	if userID == primitive.NilObjectID || sessionID == primitive.NilObjectID {
		return nil, errors.New("user ID and session ID are required")
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !domain.CanAccess(userID, domain.RoleUser, session.UserID) {
		return nil, ErrNotFound
	}
	return session, nil
}

// applyExerciseCompletion mutates one snapshot entry's completion state and
// recomputes the session percentage. Shared with the share-link check-off
// path so both surfaces stay consistent.
func applyExerciseCompletion(session *domain.WorkoutSession, exerciseID primitive.ObjectID, completed bool) error {
	found := false
	for i := range session.Exercises {
		if session.Exercises[i].ID == exerciseID {
			session.Exercises[i].IsCompleted = completed
			if completed {
				now := time.Now().UTC()
				session.Exercises[i].CompletedAt = &now
			} else {
				session.Exercises[i].CompletedAt = nil
			}
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	session.CompletionPercent = domain.CalculateCompletionPercent(session.Exercises)
	return nil
}

func normalizeExerciseOrder(exercises []domain.TemplateExercise) {
	for i := range exercises {
		exercises[i].SortOrder = i + 1
		if exercises[i].PrescriptionType == "" {
			exercises[i].PrescriptionType = domain.PrescriptionReps
		}
	}
}
