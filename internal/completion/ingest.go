package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/obilearn/obi/internal/domain"
	"github.com/obilearn/obi/internal/queue"
)

// IngestEvent folds one completion event into the learner's daily counters.
// The underlying upsert adds counters and overwrites energy, so replayed
// deliveries of distinct submissions accumulate while the energy column
// always holds the latest level.
func IngestEvent(ctx context.Context, stats StatsRepository, evt *queue.ActivityCompleted) error {
	learnerID, err := domain.NewLearnerIDFromString(evt.LearnerID)
	if err != nil {
		return fmt.Errorf("%w: learner id %q", domain.ErrInvalidInput, evt.LearnerID)
	}

	day := evt.CompletedAt.UTC().Truncate(24 * time.Hour)
	return stats.AddDailyStat(ctx, &domain.DailyStat{
		LearnerID:  learnerID,
		Day:        day,
		BrainPower: evt.BrainPower,
		Correct:    evt.Correct,
		Incorrect:  evt.Incorrect,
		Energy:     evt.Energy,
	})
}

// EventHandler adapts the ingester to the queue consumer's handler signature
func EventHandler(stats StatsRepository) queue.EventHandler {
	return func(ctx context.Context, evt *queue.ActivityCompleted) error {
		return IngestEvent(ctx, stats, evt)
	}
}
