package service

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/events"
	"coachplan/fitness-app/internal/repository"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolution reason codes returned on the public check-off surface.
const (
	ReasonInvalid = "invalid"
	ReasonExpired = "expired"
)

// TokenResolution is the outcome of looking up a share token. When Valid is
// false, Reason says why and Session is nil.
type TokenResolution struct {
	Valid   bool
	Reason  string
	Token   *domain.ShareToken
	Session *domain.WorkoutSession
}

// --- Service Interface ---
type ShareService interface {
	// Issue creates a fresh share token for the session, revoking any
	// tokens previously issued for it.
	Issue(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.ShareToken, string, error)
	// Revoke deletes all tokens for the session without issuing a new one.
	Revoke(ctx context.Context, userID, sessionID primitive.ObjectID) error
	// Resolve looks up a token and returns the shared session when valid.
	Resolve(ctx context.Context, token string) (*TokenResolution, error)
	// CheckOffByToken toggles one exercise on the shared session.
	CheckOffByToken(ctx context.Context, token string, exerciseID primitive.ObjectID, completed bool) (*domain.WorkoutSession, error)
	// CleanupExpired removes tokens past their expiry.
	CleanupExpired(ctx context.Context) (int64, error)
}

// --- Service Implementation ---

type shareService struct {
	tokenRepo   repository.ShareTokenRepository
	sessionRepo repository.SessionRepository
	ttl         time.Duration
	audit       *events.Logger
}

// NewShareService creates a new instance of shareService.
func NewShareService(
	tokenRepo repository.ShareTokenRepository,
	sessionRepo repository.SessionRepository,
	ttl time.Duration,
	audit *events.Logger,
) ShareService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &shareService{
		tokenRepo:   tokenRepo,
		sessionRepo: sessionRepo,
		ttl:         ttl,
		audit:       audit,
	}
}

func (s *shareService) Issue(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.ShareToken, string, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, "", err
	}

	// One live token per session: issuing a new link kills the old ones.
	revoked, err := s.tokenRepo.DeleteBySession(ctx, session.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to revoke previous tokens: %w", err)
	}
	if revoked > 0 {
		s.audit.Record(events.TypeTokensRevoked, userID.Hex(), sessionID.Hex(), map[string]any{
			"count": revoked,
		})
	}

	raw, err := generateToken()
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	token := &domain.ShareToken{
		Token:            raw,
		WorkoutSessionID: session.ID,
		UserID:           userID,
		ExpiresAt:        now.Add(s.ttl),
		CreatedAt:        now,
	}
	tokenID, err := s.tokenRepo.Create(ctx, token)
	if err != nil {
		return nil, "", err
	}
	token.ID = tokenID

	s.audit.Record(events.TypeLinkCreated, userID.Hex(), sessionID.Hex(), map[string]any{
		"token":     events.MaskID(raw),
		"expiresAt": token.ExpiresAt.Format(time.RFC3339),
	})
	return token, raw, nil
}

func (s *shareService) Revoke(ctx context.Context, userID, sessionID primitive.ObjectID) error {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	revoked, err := s.tokenRepo.DeleteBySession(ctx, session.ID)
	if err != nil {
		return err
	}
	if revoked > 0 {
		s.audit.Record(events.TypeTokensRevoked, userID.Hex(), sessionID.Hex(), map[string]any{
			"count": revoked,
		})
	}
	return nil
}

// Resolve never distinguishes "no such token" from "bad token shape" to the
// caller; both come back as invalid.
func (s *shareService) Resolve(ctx context.Context, token string) (*TokenResolution, error) {
	if len(token) != domain.ShareTokenLength {
		s.audit.Record(events.TypeTokenInvalid, "", events.MaskID(token), nil)
		return &TokenResolution{Valid: false, Reason: ReasonInvalid}, nil
	}

	stored, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.audit.Record(events.TypeTokenInvalid, "", events.MaskID(token), nil)
			return &TokenResolution{Valid: false, Reason: ReasonInvalid}, nil
		}
		return nil, err
	}
	if stored.Expired(time.Now().UTC()) {
		s.audit.Record(events.TypeTokenExpired, stored.UserID.Hex(), stored.WorkoutSessionID.Hex(), nil)
		return &TokenResolution{Valid: false, Reason: ReasonExpired}, nil
	}

	session, err := s.sessionRepo.GetByID(ctx, stored.WorkoutSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Session gone but token survived; treat as a dead link.
			return &TokenResolution{Valid: false, Reason: ReasonInvalid}, nil
		}
		return nil, err
	}

	s.audit.Record(events.TypeTokenValidated, stored.UserID.Hex(), stored.WorkoutSessionID.Hex(), nil)
	return &TokenResolution{Valid: true, Token: stored, Session: session}, nil
}

func (s *shareService) CheckOffByToken(ctx context.Context, token string, exerciseID primitive.ObjectID, completed bool) (*domain.WorkoutSession, error) {
	resolution, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !resolution.Valid {
		return nil, ErrNotFound
	}
	session := resolution.Session
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
	s.audit.Record(eventType, resolution.Token.UserID.Hex(), session.ID.Hex(), map[string]any{
		"itemId":   events.MaskID(exerciseID.Hex()),
		"viaToken": true,
	})
	return session, nil
}

func (s *shareService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx, time.Now().UTC())
}

func (s *shareService) ownedSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
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

// generateToken returns 32 random bytes hex-encoded (64 chars).
func generateToken() (string, error) {
	buf := make([]byte, domain.ShareTokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
