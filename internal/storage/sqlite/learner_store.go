package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/obilearn/obi/internal/domain"
)

// LearnerStore implements learner and session persistence backed by SQLite.
type LearnerStore struct {
	db *DB
}

// NewLearnerStore creates a new SQLite-backed learner store.
func NewLearnerStore(db *DB) *LearnerStore {
	return &LearnerStore{db: db}
}

const learnerColumns = `id, email, name, password_hash, brain_power, energy, created_at, updated_at`

func (s *LearnerStore) scanLearner(row *sql.Row) (*domain.Learner, error) {
	var (
		learner domain.Learner
		id      string
	)
	err := row.Scan(
		&id, &learner.Email, &learner.Name, &learner.PasswordHash,
		&learner.BrainPower, &learner.Energy, &learner.CreatedAt, &learner.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLearnerNotFound
	}
	if err != nil {
		return nil, err
	}
	if learner.ID, err = domain.NewLearnerIDFromString(id); err != nil {
		return nil, err
	}
	return &learner, nil
}

// GetLearner retrieves a learner by id.
func (s *LearnerStore) GetLearner(ctx context.Context, id domain.LearnerID) (*domain.Learner, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+learnerColumns+` FROM learners WHERE id = ?`, id.String())
	return s.scanLearner(row)
}

// GetLearnerByID is an alias satisfying the auth repository interface.
func (s *LearnerStore) GetLearnerByID(ctx context.Context, id domain.LearnerID) (*domain.Learner, error) {
	return s.GetLearner(ctx, id)
}

// GetLearnerByEmail retrieves a learner by email.
func (s *LearnerStore) GetLearnerByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+learnerColumns+` FROM learners WHERE email = ?`, email)
	return s.scanLearner(row)
}

// CreateLearner inserts a new learner.
func (s *LearnerStore) CreateLearner(ctx context.Context, learner *domain.Learner) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learners (id, email, name, password_hash, brain_power, energy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		learner.ID.String(), learner.Email, learner.Name, learner.PasswordHash,
		learner.BrainPower, learner.Energy, learner.CreatedAt, learner.UpdatedAt,
	)
	return err
}

// UpdateLearnerTotals sets the learner's brain power and energy.
func (s *LearnerStore) UpdateLearnerTotals(ctx context.Context, id domain.LearnerID, brainPower, energy int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE learners SET brain_power = ?, energy = ?, updated_at = datetime('now')
		WHERE id = ?`,
		brainPower, energy, id.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLearnerNotFound
	}
	return nil
}

// CreateSession inserts a new session.
func (s *LearnerStore) CreateSession(ctx context.Context, session *domain.AuthSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (id, learner_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.LearnerID.String(), session.Token, session.ExpiresAt, session.CreatedAt,
	)
	return err
}

// GetSessionByToken retrieves a session by token.
func (s *LearnerStore) GetSessionByToken(ctx context.Context, token string) (*domain.AuthSession, error) {
	var (
		session   domain.AuthSession
		learnerID string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, learner_id, token, expires_at, created_at
		FROM auth_sessions WHERE token = ?`, token,
	).Scan(&session.ID, &learnerID, &session.Token, &session.ExpiresAt, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAuthSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.LearnerID, err = domain.NewLearnerIDFromString(learnerID); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session.
func (s *LearnerStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = ?`, id)
	return err
}

// DeleteLearnerSessions removes all sessions for a learner.
func (s *LearnerStore) DeleteLearnerSessions(ctx context.Context, learnerID domain.LearnerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE learner_id = ?`, learnerID.String())
	return err
}

// DeleteExpiredSessions removes all expired sessions.
func (s *LearnerStore) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at < datetime('now')`)
	return err
}
