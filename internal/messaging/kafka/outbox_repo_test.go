package kafka

import (
	"context"
	"testing"
	"time"

	"go-onboarding/internal/shared/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent() *OutboxEvent {
	return &OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "onboarding_plan",
		AggregateID:   "1",
		EventType:     "plan_assigned",
		Topic:         "onboarding.plan.assigned.v1",
		Payload:       []byte(`{"plan_id":1}`),
		Status:        OutboxStatusPending,
	}
}

func TestRetryBackoff(t *testing.T) {
	assert.Equal(t, 15*time.Second, RetryBackoff(0))
	assert.Equal(t, 15*time.Second, RetryBackoff(1))
	assert.Equal(t, 45*time.Second, RetryBackoff(3))
	assert.Equal(t, 150*time.Second, RetryBackoff(10))
	assert.Equal(t, 150*time.Second, RetryBackoff(42))
}

func TestValidateOutboxEvent(t *testing.T) {
	ok := newEvent()
	assert.NoError(t, ValidateOutboxEvent(*ok))

	missingID := newEvent()
	missingID.ID = ""
	assert.Error(t, ValidateOutboxEvent(*missingID))

	noPayload := newEvent()
	noPayload.Payload = nil
	assert.Error(t, ValidateOutboxEvent(*noPayload))

	badStatus := newEvent()
	badStatus.Status = "queued"
	assert.Error(t, ValidateOutboxEvent(*badStatus))
}

func TestOutboxRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &OutboxEvent{})

	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	repo := &outboxRepository{db: db, now: func() time.Time { return now }}

	first := newEvent()
	second := newEvent()
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, repo.MarkSent(ctx, first.ID))
	require.NoError(t, repo.MarkFailed(ctx, pending[1], "broker down"))

	pending, err = repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "failed event waits for its back-off")

	now = now.Add(16 * time.Second)
	pending, err = repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.Equal(t, OutboxStatusFailed, pending[0].Status)
	assert.Equal(t, 1, pending[0].RetryCount)
	require.NotNil(t, pending[0].ErrorMessage)
	assert.Equal(t, "broker down", *pending[0].ErrorMessage)

	var sent OutboxEvent
	require.NoError(t, db.First(&sent, "id = ?", first.ID).Error)
	assert.Equal(t, OutboxStatusSent, sent.Status)
	assert.NotNil(t, sent.ProcessedAt)

	t.Run("invalid event is rejected", func(t *testing.T) {
		bad := newEvent()
		bad.Topic = ""
		assert.Error(t, repo.Create(ctx, bad))
	})
}
