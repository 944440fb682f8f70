package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// Producer publishes completion events with retry and circuit breaking, so a
// flapping broker slows publishing down instead of failing every submission.
type Producer struct {
	conn    *Connection
	breaker circuitbreaker.CircuitBreaker[struct{}]
	retrier retry.Retry[struct{}]
	logger  *slog.Logger
}

// NewProducer creates a producer on top of an established connection
func NewProducer(conn *Connection, logger *slog.Logger) *Producer {
	p := &Producer{
		conn:   conn,
		logger: logger,
	}

	p.breaker = circuitbreaker.New[struct{}](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			if p.logger != nil {
				p.logger.Warn("completion publisher circuit breaker state change",
					"from", from.String(),
					"to", to.String())
			}
		},
	})

	p.retrier = retry.New[struct{}](retry.Config{
		MaxAttempts:   3,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
	})

	return p
}

// PublishActivityCompleted publishes a completion event to the completion queue
func (p *Producer) PublishActivityCompleted(ctx context.Context, evt *ActivityCompleted) error {
	_, err := p.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return p.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, p.conn.PublishJSON(ctx, CompletionQueueName, evt)
		})
	})
	return err
}
