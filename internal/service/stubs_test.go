package service

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/events"
	"coachplan/fitness-app/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository stubs shared by the service tests.

func testAudit() *events.Logger {
	return events.NewLogger(nil)
}

// --- Question Repository Stub ---

type stubQuestionRepo struct {
	questions []domain.Question
}

func (s *stubQuestionRepo) Create(ctx context.Context, question *domain.Question) (primitive.ObjectID, error) {
	question.ID = primitive.NewObjectID()
	s.questions = append(s.questions, *question)
	return question.ID, nil
}

func (s *stubQuestionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Question, error) {
	for i := range s.questions {
		if s.questions[i].ID == id {
			q := s.questions[i]
			return &q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubQuestionRepo) GetByKey(ctx context.Context, key string) (*domain.Question, error) {
	for i := range s.questions {
		if s.questions[i].Key == key {
			q := s.questions[i]
			return &q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubQuestionRepo) ListEnabled(ctx context.Context) ([]domain.Question, error) {
	var enabled []domain.Question
	for _, q := range s.questions {
		if q.IsEnabled {
			enabled = append(enabled, q)
		}
	}
	return enabled, nil
}

func (s *stubQuestionRepo) ListAll(ctx context.Context) ([]domain.Question, error) {
	return s.questions, nil
}

func (s *stubQuestionRepo) Update(ctx context.Context, question *domain.Question) error {
	for i := range s.questions {
		if s.questions[i].ID == question.ID {
			s.questions[i] = *question
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubQuestionRepo) SetEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) error {
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions[i].IsEnabled = enabled
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Response Repository Stub ---

type stubResponseRepo struct {
	responses []domain.Response
}

func (s *stubResponseRepo) Create(ctx context.Context, response *domain.Response) (primitive.ObjectID, error) {
	response.ID = primitive.NewObjectID()
	response.CreatedAt = time.Now().UTC()
	s.responses = append(s.responses, *response)
	return response.ID, nil
}

func (s *stubResponseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Response, error) {
	for i := range s.responses {
		if s.responses[i].ID == id {
			r := s.responses[i]
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubResponseRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Response, error) {
	var out []domain.Response
	for _, r := range s.responses {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- Plan Repository Stub ---

type stubPlanRepo struct {
	plans []domain.Plan
}

func (s *stubPlanRepo) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	s.plans = append(s.plans, *plan)
	return plan.ID, nil
}

func (s *stubPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	for i := range s.plans {
		if s.plans[i].ID == id {
			p := s.plans[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubPlanRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, p := range s.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Template Repository Stub ---

type stubTemplateRepo struct {
	templates []domain.WorkoutTemplate
}

func (s *stubTemplateRepo) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	template.ID = primitive.NewObjectID()
	for i := range template.Exercises {
		if template.Exercises[i].ID == primitive.NilObjectID {
			template.Exercises[i].ID = primitive.NewObjectID()
		}
	}
	s.templates = append(s.templates, *template)
	return template.ID, nil
}

func (s *stubTemplateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	for i := range s.templates {
		if s.templates[i].ID == id {
			t := s.templates[i]
			t.Exercises = append([]domain.TemplateExercise(nil), s.templates[i].Exercises...)
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubTemplateRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, t := range s.templates {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTemplateRepo) Update(ctx context.Context, template *domain.WorkoutTemplate) error {
	for i := range s.templates {
		if s.templates[i].ID == template.ID {
			for j := range template.Exercises {
				if template.Exercises[j].ID == primitive.NilObjectID {
					template.Exercises[j].ID = primitive.NewObjectID()
				}
			}
			s.templates[i] = *template
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubTemplateRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	for i := range s.templates {
		if s.templates[i].ID == id && s.templates[i].UserID == userID {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Session Repository Stub ---

type stubSessionRepo struct {
	sessions []domain.WorkoutSession
}

func (s *stubSessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	s.sessions = append(s.sessions, cloneSession(session))
	return session.ID, nil
}

func (s *stubSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			out := cloneSession(&s.sessions[i])
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubSessionRepo) GetInProgressByTemplate(ctx context.Context, templateID, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	for i := range s.sessions {
		sess := &s.sessions[i]
		if sess.WorkoutTemplateID == templateID && sess.UserID == userID && sess.Status == domain.SessionInProgress {
			out := cloneSession(sess)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubSessionRepo) GetRecentByTemplate(ctx context.Context, templateID, userID primitive.ObjectID, limit int) ([]domain.WorkoutSession, error) {
	var out []domain.WorkoutSession
	for i := len(s.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		sess := &s.sessions[i]
		if sess.WorkoutTemplateID == templateID && sess.UserID == userID {
			out = append(out, cloneSession(sess))
		}
	}
	return out, nil
}

func (s *stubSessionRepo) GetFinishedBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutSession, error) {
	var out []domain.WorkoutSession
	for i := range s.sessions {
		sess := &s.sessions[i]
		if sess.UserID != userID || sess.Status != domain.SessionFinished || sess.FinishedAt == nil {
			continue
		}
		if sess.FinishedAt.Before(from) || sess.FinishedAt.After(to) {
			continue
		}
		out = append(out, cloneSession(sess))
	}
	return out, nil
}

func (s *stubSessionRepo) Update(ctx context.Context, session *domain.WorkoutSession) error {
	for i := range s.sessions {
		if s.sessions[i].ID == session.ID {
			s.sessions[i] = cloneSession(session)
			return nil
		}
	}
	return repository.ErrNotFound
}

func cloneSession(session *domain.WorkoutSession) domain.WorkoutSession {
	out := *session
	out.Exercises = append([]domain.SessionExercise(nil), session.Exercises...)
	return out
}

// --- Share Token Repository Stub ---

type stubShareTokenRepo struct {
	tokens []domain.ShareToken
}

func (s *stubShareTokenRepo) Create(ctx context.Context, token *domain.ShareToken) (primitive.ObjectID, error) {
	token.ID = primitive.NewObjectID()
	s.tokens = append(s.tokens, *token)
	return token.ID, nil
}

func (s *stubShareTokenRepo) GetByToken(ctx context.Context, raw string) (*domain.ShareToken, error) {
	for i := range s.tokens {
		if s.tokens[i].Token == raw {
			t := s.tokens[i]
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubShareTokenRepo) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	var kept []domain.ShareToken
	var removed int64
	for _, t := range s.tokens {
		if t.WorkoutSessionID == sessionID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tokens = kept
	return removed, nil
}

func (s *stubShareTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var kept []domain.ShareToken
	var removed int64
	for _, t := range s.tokens {
		if t.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tokens = kept
	return removed, nil
}

// --- User Repository Stub ---

type stubUserRepo struct {
	users []domain.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	s.users = append(s.users, *user)
	return user.ID, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}
