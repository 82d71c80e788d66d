//go:build integration

package confirm_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ugmi/ugmi/internal/confirm"
	"github.com/ugmi/ugmi/internal/metrics"
	"github.com/ugmi/ugmi/internal/model"
	"github.com/ugmi/ugmi/internal/testutil"
)

type chanMailer struct {
	got  chan confirm.Request
}

func (m *chanMailer) SendConfirmation(ctx context.Context, req confirm.Request) error {
	m.got <- req
	return nil
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	opts, err := redis.ParseURL(testutil.RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	if err := testutil.FlushRedis(context.Background(), client); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return client
}

func TestPublishAndDeliver(t *testing.T) {
	client := newRedis(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewInMemory()

	mailer := &chanMailer{got: make(chan confirm.Request, 1)}
	worker := confirm.NewWorker(client, mailer, logger, confirm.NewConsumerID(), rec)
	worker.SetBlockTimeout(200 * time.Millisecond)

	runErr := make(chan error, 1)
	go func() { runErr <- worker.Run(context.Background()) }()

	publisher := confirm.NewPublisher(client, logger, rec)
	publisher.RequestConfirmation(&model.User{ID: 7, Name: "Bob Stone", Email: "bob@example.com"})

	select {
	case req := <-mailer.got:
		if req.UserID != 7 || req.Email != "bob@example.com" {
			t.Errorf("unexpected request: %+v", req)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("confirmation was not delivered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := worker.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-runErr; err != nil {
		t.Errorf("Run returned %v", err)
	}

	if got := rec.Snapshot().ConfirmationsPublished["success"]; got != 1 {
		t.Errorf("published = %d, want 1", got)
	}
}

func TestMalformedEntryIsDeadLettered(t *testing.T) {
	client := newRedis(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewInMemory()

	if err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: confirm.StreamKey,
		Values: map[string]interface{}{"garbage": "1"},
	}).Err(); err != nil {
		t.Fatalf("xadd: %v", err)
	}

	worker := confirm.NewWorker(client, &chanMailer{got: make(chan confirm.Request, 1)}, logger, "dlq-test", rec)
	worker.SetBlockTimeout(100 * time.Millisecond)
	go func() { _ = worker.Run(ctx) }()
	defer func() {
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = worker.Shutdown(sctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		n, err := client.XLen(ctx, confirm.DeadLetterStreamKey).Result()
		if err == nil && n == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("malformed entry was not dead-lettered")
}
