package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obilearn/obi/internal/domain"
)

// LearnerRepository reads and updates learner rows
type LearnerRepository struct {
	pool *pgxpool.Pool
}

// NewLearnerRepository creates a new LearnerRepository
func NewLearnerRepository(pool *pgxpool.Pool) *LearnerRepository {
	return &LearnerRepository{pool: pool}
}

const learnerColumns = `id, email, name, password_hash, brain_power, energy, created_at, updated_at`

func scanLearner(row pgx.Row) (*domain.Learner, error) {
	var (
		learner domain.Learner
		id      uuid.UUID
	)
	err := row.Scan(
		&id, &learner.Email, &learner.Name, &learner.PasswordHash,
		&learner.BrainPower, &learner.Energy, &learner.CreatedAt, &learner.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLearnerNotFound
	}
	if err != nil {
		return nil, err
	}
	learner.ID = domain.NewLearnerID(id)
	return &learner, nil
}

// GetLearner retrieves a learner by id
func (r *LearnerRepository) GetLearner(ctx context.Context, id domain.LearnerID) (*domain.Learner, error) {
	query := `SELECT ` + learnerColumns + ` FROM learners WHERE id = $1`
	return scanLearner(r.pool.QueryRow(ctx, query, id.UUID()))
}

// GetLearnerByEmail retrieves a learner by email
func (r *LearnerRepository) GetLearnerByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	query := `SELECT ` + learnerColumns + ` FROM learners WHERE email = $1`
	return scanLearner(r.pool.QueryRow(ctx, query, email))
}

// GetLearnerByID is an alias satisfying the auth repository interface
func (r *LearnerRepository) GetLearnerByID(ctx context.Context, id domain.LearnerID) (*domain.Learner, error) {
	return r.GetLearner(ctx, id)
}

// CreateLearner inserts a new learner
func (r *LearnerRepository) CreateLearner(ctx context.Context, learner *domain.Learner) error {
	query := `
		INSERT INTO learners (id, email, name, password_hash, brain_power, energy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		learner.ID.UUID(), learner.Email, learner.Name, learner.PasswordHash,
		learner.BrainPower, learner.Energy, learner.CreatedAt, learner.UpdatedAt,
	)
	return err
}

// UpdateLearnerTotals sets the learner's brain power and energy
func (r *LearnerRepository) UpdateLearnerTotals(ctx context.Context, id domain.LearnerID, brainPower, energy int) error {
	query := `
		UPDATE learners SET brain_power = $2, energy = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id.UUID(), brainPower, energy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLearnerNotFound
	}
	return nil
}
