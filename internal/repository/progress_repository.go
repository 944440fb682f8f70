package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obilearn/obi/internal/domain"
)

// ProgressRepository persists per-activity progress and per-step records
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// GetActivityProgress retrieves one learner's progress on one activity
func (r *ProgressRepository) GetActivityProgress(ctx context.Context, learnerID domain.LearnerID, activityID domain.ActivityID) (*domain.ActivityProgress, error) {
	query := `
		SELECT completed, correct_count, total_count, started_at, completed_at
		FROM activity_progress
		WHERE learner_id = $1 AND activity_id = $2
	`
	progress := &domain.ActivityProgress{
		LearnerID:  learnerID,
		ActivityID: activityID,
	}
	err := r.pool.QueryRow(ctx, query, learnerID.UUID(), activityID.UUID()).Scan(
		&progress.Completed, &progress.CorrectCount, &progress.TotalCount,
		&progress.StartedAt, &progress.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// UpsertActivityProgress inserts or updates a progress row. Completed never
// reverts to false once set.
func (r *ProgressRepository) UpsertActivityProgress(ctx context.Context, progress *domain.ActivityProgress) error {
	query := `
		INSERT INTO activity_progress (learner_id, activity_id, completed, correct_count, total_count, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (learner_id, activity_id) DO UPDATE SET
			completed = activity_progress.completed OR EXCLUDED.completed,
			correct_count = EXCLUDED.correct_count,
			total_count = EXCLUDED.total_count,
			completed_at = EXCLUDED.completed_at
	`
	_, err := r.pool.Exec(ctx, query,
		progress.LearnerID.UUID(), progress.ActivityID.UUID(), progress.Completed,
		progress.CorrectCount, progress.TotalCount, progress.StartedAt, progress.CompletedAt,
	)
	return err
}

// SaveStepRecords upserts graded step records in one batch; a replay of the
// same step overwrites the previous attempt.
func (r *ProgressRepository) SaveStepRecords(ctx context.Context, records []domain.StepRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO step_records (learner_id, activity_id, step_id, is_correct, answered_at, day_of_week, hour_of_day, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (learner_id, step_id) DO UPDATE SET
			is_correct = EXCLUDED.is_correct,
			answered_at = EXCLUDED.answered_at,
			day_of_week = EXCLUDED.day_of_week,
			hour_of_day = EXCLUDED.hour_of_day,
			duration_seconds = EXCLUDED.duration_seconds
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query,
			rec.LearnerID.UUID(), rec.ActivityID.UUID(), rec.StepID.UUID(),
			rec.IsCorrect, rec.Timing.AnsweredAt, rec.Timing.DayOfWeek,
			rec.Timing.HourOfDay, rec.Timing.DurationSeconds,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
