// Package auth implements account registration and token-based sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/obilearn/obi/internal/domain"
	"github.com/obilearn/obi/internal/progression"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
)

// Repository defines the interface for auth data access
type Repository interface {
	CreateLearner(ctx context.Context, learner *domain.Learner) error
	GetLearnerByEmail(ctx context.Context, email string) (*domain.Learner, error)
	GetLearnerByID(ctx context.Context, id domain.LearnerID) (*domain.Learner, error)

	CreateSession(ctx context.Context, session *domain.AuthSession) error
	GetSessionByToken(ctx context.Context, token string) (*domain.AuthSession, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteLearnerSessions(ctx context.Context, learnerID domain.LearnerID) error
	DeleteExpiredSessions(ctx context.Context) error
}

// Service handles authentication operations
type Service struct {
	repo          Repository
	sessionMaxAge time.Duration
	bcryptCost    int
}

// NewService creates a new auth service
func NewService(repo Repository, sessionMaxAge time.Duration) *Service {
	return &Service{
		repo:          repo,
		sessionMaxAge: sessionMaxAge,
		bcryptCost:    bcrypt.DefaultCost,
	}
}

// RegisterRequest contains registration data
type RegisterRequest struct {
	Email    string
	Name     string
	Password string
}

// Register creates a new learner account with full energy and no brain power
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.Learner, error) {
	existing, err := s.repo.GetLearnerByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrLearnerNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	learner := &domain.Learner{
		ID:           domain.GenerateLearnerID(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashedPassword),
		BrainPower:   0,
		Energy:       progression.EnergyMax,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateLearner(ctx, learner); err != nil {
		return nil, err
	}

	return learner, nil
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse contains login result
type LoginResponse struct {
	Learner *domain.Learner
	Session *domain.AuthSession
	Token   string
}

// Login authenticates a learner and creates a session
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	learner, err := s.repo.GetLearnerByEmail(ctx, req.Email)
	if err != nil || learner == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(learner.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := generateToken(32)
	if err != nil {
		return nil, err
	}

	session := &domain.AuthSession{
		ID:        uuid.NewString(),
		LearnerID: learner.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessionMaxAge),
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &LoginResponse{
		Learner: learner,
		Session: session,
		Token:   token,
	}, nil
}

// Logout invalidates a session
func (s *Service) Logout(ctx context.Context, token string) error {
	session, err := s.repo.GetSessionByToken(ctx, token)
	if err != nil {
		return domain.ErrAuthSessionNotFound
	}

	return s.repo.DeleteSession(ctx, session.ID)
}

// ValidateSession resolves a session token to its learner
func (s *Service) ValidateSession(ctx context.Context, token string) (*domain.Learner, *domain.AuthSession, error) {
	session, err := s.repo.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, nil, domain.ErrAuthSessionNotFound
	}

	if session.Expired(time.Now()) {
		_ = s.repo.DeleteSession(ctx, session.ID)
		return nil, nil, domain.ErrAuthSessionExpired
	}

	learner, err := s.repo.GetLearnerByID(ctx, session.LearnerID)
	if err != nil {
		return nil, nil, err
	}

	return learner, session, nil
}

// LogoutAll invalidates all sessions for a learner
func (s *Service) LogoutAll(ctx context.Context, learnerID domain.LearnerID) error {
	return s.repo.DeleteLearnerSessions(ctx, learnerID)
}

// CleanupExpiredSessions removes all expired sessions
func (s *Service) CleanupExpiredSessions(ctx context.Context) error {
	return s.repo.DeleteExpiredSessions(ctx)
}

// generateToken creates a cryptographically secure random token
func generateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
