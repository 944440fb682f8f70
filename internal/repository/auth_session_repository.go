package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obilearn/obi/internal/domain"
)

// AuthSessionRepository persists login sessions
type AuthSessionRepository struct {
	pool *pgxpool.Pool
}

// NewAuthSessionRepository creates a new AuthSessionRepository
func NewAuthSessionRepository(pool *pgxpool.Pool) *AuthSessionRepository {
	return &AuthSessionRepository{pool: pool}
}

// CreateSession inserts a new session
func (r *AuthSessionRepository) CreateSession(ctx context.Context, session *domain.AuthSession) error {
	query := `
		INSERT INTO auth_sessions (id, learner_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID, session.LearnerID.UUID(), session.Token, session.ExpiresAt, session.CreatedAt,
	)
	return err
}

// GetSessionByToken retrieves a session by token
func (r *AuthSessionRepository) GetSessionByToken(ctx context.Context, token string) (*domain.AuthSession, error) {
	query := `
		SELECT id, learner_id, token, expires_at, created_at
		FROM auth_sessions WHERE token = $1
	`
	var (
		session   domain.AuthSession
		learnerID uuid.UUID
	)
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&session.ID, &learnerID, &session.Token, &session.ExpiresAt, &session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAuthSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	session.LearnerID = domain.NewLearnerID(learnerID)
	return &session, nil
}

// DeleteSession removes a session
func (r *AuthSessionRepository) DeleteSession(ctx context.Context, id string) error {
	query := `DELETE FROM auth_sessions WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// DeleteLearnerSessions removes all sessions for a learner
func (r *AuthSessionRepository) DeleteLearnerSessions(ctx context.Context, learnerID domain.LearnerID) error {
	query := `DELETE FROM auth_sessions WHERE learner_id = $1`
	_, err := r.pool.Exec(ctx, query, learnerID.UUID())
	return err
}

// DeleteExpiredSessions removes all expired sessions
func (r *AuthSessionRepository) DeleteExpiredSessions(ctx context.Context) error {
	query := `DELETE FROM auth_sessions WHERE expires_at < NOW()`
	_, err := r.pool.Exec(ctx, query)
	return err
}
