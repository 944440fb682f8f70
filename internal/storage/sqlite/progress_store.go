package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/obilearn/obi/internal/domain"
)

// ProgressStore implements progress and stats persistence backed by SQLite.
type ProgressStore struct {
	db *DB
}

// NewProgressStore creates a new SQLite-backed progress store.
func NewProgressStore(db *DB) *ProgressStore {
	return &ProgressStore{db: db}
}

// GetActivityProgress retrieves one learner's progress on one activity.
func (s *ProgressStore) GetActivityProgress(ctx context.Context, learnerID domain.LearnerID, activityID domain.ActivityID) (*domain.ActivityProgress, error) {
	progress := &domain.ActivityProgress{
		LearnerID:  learnerID,
		ActivityID: activityID,
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT completed, correct_count, total_count, started_at, completed_at
		FROM activity_progress
		WHERE learner_id = ? AND activity_id = ?`,
		learnerID.String(), activityID.String(),
	).Scan(
		&progress.Completed, &progress.CorrectCount, &progress.TotalCount,
		&progress.StartedAt, &progress.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// UpsertActivityProgress inserts or updates a progress row. Completed never
// reverts to false once set.
func (s *ProgressStore) UpsertActivityProgress(ctx context.Context, progress *domain.ActivityProgress) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_progress (learner_id, activity_id, completed, correct_count, total_count, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(learner_id, activity_id) DO UPDATE SET
			completed = activity_progress.completed OR excluded.completed,
			correct_count = excluded.correct_count,
			total_count = excluded.total_count,
			completed_at = excluded.completed_at`,
		progress.LearnerID.String(), progress.ActivityID.String(), progress.Completed,
		progress.CorrectCount, progress.TotalCount, progress.StartedAt, progress.CompletedAt,
	)
	return err
}

// SaveStepRecords upserts graded step records; a replay of the same step
// overwrites the previous attempt.
func (s *ProgressStore) SaveStepRecords(ctx context.Context, records []domain.StepRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO step_records (learner_id, activity_id, step_id, is_correct, answered_at, day_of_week, hour_of_day, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(learner_id, step_id) DO UPDATE SET
			is_correct = excluded.is_correct,
			answered_at = excluded.answered_at,
			day_of_week = excluded.day_of_week,
			hour_of_day = excluded.hour_of_day,
			duration_seconds = excluded.duration_seconds`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.LearnerID.String(), rec.ActivityID.String(), rec.StepID.String(),
			rec.IsCorrect, rec.Timing.AnsweredAt, rec.Timing.DayOfWeek,
			rec.Timing.HourOfDay, rec.Timing.DurationSeconds,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddDailyStat folds one submission's counters into the learner's row for
// that day. Counters accumulate; energy is overwritten with the latest level.
func (s *ProgressStore) AddDailyStat(ctx context.Context, stat *domain.DailyStat) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_stats (learner_id, day, brain_power, correct, incorrect, energy)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(learner_id, day) DO UPDATE SET
			brain_power = daily_stats.brain_power + excluded.brain_power,
			correct = daily_stats.correct + excluded.correct,
			incorrect = daily_stats.incorrect + excluded.incorrect,
			energy = excluded.energy`,
		stat.LearnerID.String(), stat.Day, stat.BrainPower, stat.Correct, stat.Incorrect, stat.Energy,
	)
	return err
}

// ListDailyStats returns the learner's daily rows in [from, to] ascending by
// day.
func (s *ProgressStore) ListDailyStats(ctx context.Context, learnerID domain.LearnerID, from, to time.Time) ([]domain.DailyStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, brain_power, correct, incorrect, energy
		FROM daily_stats
		WHERE learner_id = ? AND day >= ? AND day <= ?
		ORDER BY day`,
		learnerID.String(), from, to,
	)
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
