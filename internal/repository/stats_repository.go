package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obilearn/obi/internal/domain"
)

// StatsRepository accumulates per-day learner counters
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// AddDailyStat folds one submission's counters into the learner's row for
// that day. Counters accumulate; energy is overwritten with the latest level.
func (r *StatsRepository) AddDailyStat(ctx context.Context, stat *domain.DailyStat) error {
	query := `
		INSERT INTO daily_stats (learner_id, day, brain_power, correct, incorrect, energy)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (learner_id, day) DO UPDATE SET
			brain_power = daily_stats.brain_power + EXCLUDED.brain_power,
			correct = daily_stats.correct + EXCLUDED.correct,
			incorrect = daily_stats.incorrect + EXCLUDED.incorrect,
			energy = EXCLUDED.energy
	`
	_, err := r.pool.Exec(ctx, query,
		stat.LearnerID.UUID(), stat.Day, stat.BrainPower, stat.Correct, stat.Incorrect, stat.Energy,
	)
	return err
}

// ListDailyStats returns the learner's daily rows in [from, to] ascending by
// day.
func (r *StatsRepository) ListDailyStats(ctx context.Context, learnerID domain.LearnerID, from, to time.Time) ([]domain.DailyStat, error) {
	query := `
		SELECT day, brain_power, correct, incorrect, energy
		FROM daily_stats
		WHERE learner_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day
	`
	rows, err := r.pool.Query(ctx, query, learnerID.UUID(), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailyStat
	for rows.Next() {
		stat := domain.DailyStat{LearnerID: learnerID}
		if err := rows.Scan(&stat.Day, &stat.BrainPower, &stat.Correct, &stat.Incorrect, &stat.Energy); err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}
