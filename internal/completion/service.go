// Package completion handles activity submissions: it re-validates every
// client answer against stored step content, derives the score and awards on
// the server, and persists progress. Nothing the client claims about
// correctness or dimension totals is ever trusted.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/obilearn/obi/internal/domain"
	"github.com/obilearn/obi/internal/grading"
	"github.com/obilearn/obi/internal/progression"
	"github.com/obilearn/obi/internal/queue"
)

// Step durations above this are treated as an abandoned tab, not a slow
// learner, and clamped before persisting.
const maxStepDuration = 2 * time.Hour

// ActivityRepository loads the stored activity and its steps
type ActivityRepository interface {
	GetActivity(ctx context.Context, id domain.ActivityID) (*domain.Activity, error)
	ListSteps(ctx context.Context, activityID domain.ActivityID) ([]domain.Step, error)
}

// LearnerRepository reads and updates learner totals
type LearnerRepository interface {
	GetLearner(ctx context.Context, id domain.LearnerID) (*domain.Learner, error)
	UpdateLearnerTotals(ctx context.Context, id domain.LearnerID, brainPower, energy int) error
}

// ProgressRepository persists per-activity progress and per-step records
type ProgressRepository interface {
	GetActivityProgress(ctx context.Context, learnerID domain.LearnerID, activityID domain.ActivityID) (*domain.ActivityProgress, error)
	UpsertActivityProgress(ctx context.Context, progress *domain.ActivityProgress) error
	SaveStepRecords(ctx context.Context, records []domain.StepRecord) error
}

// StatsRepository accumulates per-day counters for the progress chart
type StatsRepository interface {
	AddDailyStat(ctx context.Context, stat *domain.DailyStat) error
}

// Publisher emits completion events for asynchronous consumers
type Publisher interface {
	PublishActivityCompleted(ctx context.Context, evt *queue.ActivityCompleted) error
}

// Submission is one client-reported activity run. Answers and timings are
// keyed by step ID; only the raw answers feed grading.
type Submission struct {
	ActivityID  string                           `json:"activityId"`
	Answers     map[string]domain.SelectedAnswer `json:"answers"`
	StepTimings map[string]domain.StepTiming     `json:"stepTimings,omitempty"`
	StartedAt   time.Time                        `json:"startedAt"`
}

// Result is the server-derived outcome returned to the client
type Result struct {
	Score              *domain.Score
	Challenge          bool
	ChallengeSucceeded bool
	Dimensions         []domain.DimensionEntry
	BrainPowerAwarded  int
	EnergyDelta        int
	TotalBrainPower    int
	Energy             int
	Belt               progression.Belt
}

// Service re-validates submissions and persists their outcome
type Service struct {
	activities ActivityRepository
	learners   LearnerRepository
	progress   ProgressRepository
	stats      StatsRepository
	publisher  Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a completion service. The publisher may be nil; daily
// stats are then recorded synchronously instead of via the event stream.
func NewService(
	activities ActivityRepository,
	learners LearnerRepository,
	progress ProgressRepository,
	stats StatsRepository,
	publisher Publisher,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		activities: activities,
		learners:   learners,
		progress:   progress,
		stats:      stats,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit grades a submission and persists progress, learner totals, step
// records and daily counters. Anonymous submissions are rejected before any
// validation so callers can route to a login prompt; the client keeps its
// local state and resubmits after authenticating.
func (s *Service) Submit(ctx context.Context, learnerID domain.LearnerID, sub *Submission) (*Result, error) {
	if learnerID.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}

	activityID, err := domain.NewActivityIDFromString(sub.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("%w: activity id %q", domain.ErrInvalidInput, sub.ActivityID)
	}

	activity, err := s.activities.GetActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}

	steps, err := s.activities.ListSteps(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("load steps: %w", err)
	}

	answers := make(map[domain.StepID]domain.SelectedAnswer, len(sub.Answers))
	for raw, answer := range sub.Answers {
		stepID, err := domain.NewStepIDFromString(raw)
		if err != nil {
			// An unparseable key cannot match any stored step; skip it the
			// same way an unknown step ID is skipped.
			continue
		}
		answers[stepID] = answer
	}

	validations := grading.ValidateAnswers(steps, answers)
	score := grading.ComputeScore(validations)

	challenge := activity.Kind == domain.ActivityChallenge || domain.IsChallenge(steps)
	var (
		succeeded  bool
		dimensions []domain.DimensionEntry
	)
	if challenge {
		inv := grading.BuildDimensions(steps, validations)
		succeeded = grading.ChallengeSucceeded(inv)
		dimensions = inv.Entries()
	}

	result := &Result{
		Score:              score,
		Challenge:          challenge,
		ChallengeSucceeded: succeeded,
		Dimensions:         dimensions,
		BrainPowerAwarded:  progression.BrainPowerAward(score, challenge, succeeded),
	}
	correct, incorrect := 0, 0
	if score != nil {
		correct = score.CorrectCount
		incorrect = score.TotalCount - score.CorrectCount
	}
	result.EnergyDelta = progression.EnergyDelta(correct, incorrect)

	learner, err := s.learners.GetLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load learner: %w", err)
	}

	newBP := learner.BrainPower + result.BrainPowerAwarded
	newEnergy := progression.ClampEnergy(learner.Energy + result.EnergyDelta)
	if err := s.learners.UpdateLearnerTotals(ctx, learnerID, newBP, newEnergy); err != nil {
		return nil, fmt.Errorf("update learner totals: %w", err)
	}

	now := s.now().UTC()
	if err := s.persistProgress(ctx, learnerID, activityID, score, validations, sub, now); err != nil {
		return nil, err
	}

	evt := &queue.ActivityCompleted{
		LearnerID:          learnerID.String(),
		ActivityID:         activityID.String(),
		BrainPower:         result.BrainPowerAwarded,
		Correct:            correct,
		Incorrect:          incorrect,
		Energy:             newEnergy,
		Challenge:          challenge,
		ChallengeSucceeded: succeeded,
		CompletedAt:        now,
	}
	s.recordStats(ctx, evt)

	result.TotalBrainPower = newBP
	result.Energy = newEnergy
	result.Belt = progression.BeltForBrainPower(newBP)
	return result, nil
}

// persistProgress upserts the activity progress row and the per-step records
func (s *Service) persistProgress(
	ctx context.Context,
	learnerID domain.LearnerID,
	activityID domain.ActivityID,
	score *domain.Score,
	validations []grading.StepValidation,
	sub *Submission,
	now time.Time,
) error {
	progress, err := s.progress.GetActivityProgress(ctx, learnerID, activityID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load progress: %w", err)
	}
	if progress == nil {
		progress = &domain.ActivityProgress{
			LearnerID:  learnerID,
			ActivityID: activityID,
			StartedAt:  sub.StartedAt,
		}
	}
	if progress.StartedAt.IsZero() {
		progress.StartedAt = now
	}
	progress.Completed = true
	if score != nil {
		progress.CorrectCount = score.CorrectCount
		progress.TotalCount = score.TotalCount
	}
	completedAt := now
	progress.CompletedAt = &completedAt

	if err := s.progress.UpsertActivityProgress(ctx, progress); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	records := make([]domain.StepRecord, 0, len(validations))
	for _, v := range validations {
		timing := sub.StepTimings[v.StepID.String()]
		if timing.AnsweredAt.IsZero() {
			timing.AnsweredAt = now
			timing.DayOfWeek = int(now.Weekday())
			timing.HourOfDay = now.Hour()
		}
		if max := int(maxStepDuration.Seconds()); timing.DurationSeconds > max {
			timing.DurationSeconds = max
		}
		if timing.DurationSeconds < 0 {
			timing.DurationSeconds = 0
		}
		records = append(records, domain.StepRecord{
			LearnerID:  learnerID,
			ActivityID: activityID,
			StepID:     v.StepID,
			IsCorrect:  v.IsCorrect,
			Timing:     timing,
		})
	}
	if len(records) > 0 {
		if err := s.progress.SaveStepRecords(ctx, records); err != nil {
			return fmt.Errorf("save step records: %w", err)
		}
	}
	return nil
}

// recordStats hands the day's counters to the event stream, falling back to a
// synchronous write when no broker is configured or publishing fails. The
// daily_stats upsert is additive and keyed on (learner, day), so the fallback
// cannot double-count a single submission.
func (s *Service) recordStats(ctx context.Context, evt *queue.ActivityCompleted) {
	if s.publisher != nil {
		err := s.publisher.PublishActivityCompleted(ctx, evt)
		if err == nil {
			return
		}
		s.logger.Warn("publish completion event failed, recording stats directly",
			"learner_id", evt.LearnerID,
			"activity_id", evt.ActivityID,
			"error", err,
		)
	}
	if err := IngestEvent(ctx, s.stats, evt); err != nil {
		s.logger.Error("record daily stats failed",
			"learner_id", evt.LearnerID,
			"activity_id", evt.ActivityID,
			"error", err,
		)
	}
}
