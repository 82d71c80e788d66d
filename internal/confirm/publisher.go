package confirm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/model"
)

const (
	// StreamKey is the Redis stream for confirmation requests.
	StreamKey = "stream:email_confirm"

	// DeadLetterStreamKey holds entries the worker could not decode.
	DeadLetterStreamKey = "stream:email_confirm:dlq"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout bounds a single asynchronous publish.
	PublishTimeout = 500 * time.Millisecond
)

// Publisher enqueues confirmation requests.
type Publisher struct {
	redis   redis.Cmdable
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewPublisher creates a new confirmation publisher.
func NewPublisher(client redis.Cmdable, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "confirm.publisher"),
		metrics: recorder,
		now:     time.Now,
	}
}

// Publish adds a request to the stream synchronously and returns the
// stream entry ID.
func (p *Publisher) Publish(ctx context.Context, req Request) (string, error) {
	id, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: req.values(),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}
	return id, nil
}

// PublishAsync publishes in the background. Failures are logged and
// counted as dropped.
func (p *Publisher) PublishAsync(req Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, req)
		if err != nil {
			p.logger.Warn("failed to publish confirmation request",
				"request_id", req.ID,
				"user_id", req.UserID,
				"error", err,
			)
			p.metrics.IncConfirmationPublished("dropped")
			return
		}

		p.logger.Debug("confirmation request published",
			"request_id", req.ID,
			"stream_id", streamID,
		)
		p.metrics.IncConfirmationPublished("success")
	}()
}

// RequestConfirmation queues a confirmation email for a new account.
func (p *Publisher) RequestConfirmation(user *model.User) {
	p.PublishAsync(NewRequest(user, p.now()))
}
