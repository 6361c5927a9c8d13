package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-onboarding/internal/messaging/kafka"
	"go-onboarding/internal/messaging/kafka/producer"
	"go-onboarding/internal/shared/testutil"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	WriteMessagesFn func(ctx context.Context, msgs ...kafkago.Message) error
	written         []kafkago.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if f.WriteMessagesFn != nil {
		if err := f.WriteMessagesFn(ctx, msgs...); err != nil {
			return err
		}
	}
	f.written = append(f.written, msgs...)
	return nil
}

func seed(t *testing.T, repo kafka.OutboxRepository, aggregateIDs ...string) {
	t.Helper()
	for _, id := range aggregateIDs {
		require.NoError(t, repo.Create(context.Background(), &kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     "req-" + id,
			AggregateType: "onboarding_plan",
			AggregateID:   id,
			EventType:     "plan_assigned",
			Topic:         "onboarding.plan.assigned.v1",
			Payload:       []byte(`{"plan_id":` + id + `}`),
			Status:        kafka.OutboxStatusPending,
		}))
	}
}

func headers(msg kafkago.Message) map[string]string {
	out := map[string]string{}
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestProcessPending_PublishesAndMarksSent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &kafka.OutboxEvent{})
	repo := kafka.NewOutboxRepository(db)
	seed(t, repo, "1", "2")

	writer := &fakeWriter{}
	sent, err := producer.ProcessPending(ctx, repo, writer, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, writer.written, 2)
	assert.Equal(t, "onboarding.plan.assigned.v1", writer.written[0].Topic)
	assert.Equal(t, "plan_assigned", headers(writer.written[0])["event_type"])
	assert.Equal(t, "req-"+string(writer.written[0].Key), headers(writer.written[0])["request_id"])

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessPending_FailureSchedulesRetry(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &kafka.OutboxEvent{})
	repo := kafka.NewOutboxRepository(db)
	seed(t, repo, "1", "2")

	writer := &fakeWriter{
		WriteMessagesFn: func(ctx context.Context, msgs ...kafkago.Message) error {
			if string(msgs[0].Key) == "1" {
				return errors.New("leader not available")
			}
			return nil
		},
	}
	sent, err := producer.ProcessPending(ctx, repo, writer, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	var failed kafka.OutboxEvent
	require.NoError(t, db.First(&failed, "aggregate_id = ?", "1").Error)
	assert.Equal(t, kafka.OutboxStatusFailed, failed.Status)
	assert.Equal(t, 1, failed.RetryCount)
	assert.NotNil(t, failed.NextRetryAt)

	// still inside the back-off window
	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
