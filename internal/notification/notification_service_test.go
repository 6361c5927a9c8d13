package notification_test

import (
	"context"
	"errors"
	"testing"

	"go-onboarding/internal/access"
	"go-onboarding/internal/notification"
	notificationerrors "go-onboarding/internal/notification/errors"
	"go-onboarding/internal/shared/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) notification.Service {
	t.Helper()
	db := testutil.NewDB(t, &notification.Notification{})
	return notification.NewService(notification.NewRepository(db))
}

func TestNotificationService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, notification.CreateInput{UserID: 3, Kind: notification.KindPlanAssigned, Message: "first"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, notification.CreateInput{
		UserID:  3,
		Kind:    notification.KindPlanAssigned,
		Message: "  second  ",
		Meta:    map[string]any{"plan_id": 9},
	})
	require.NoError(t, err)
	assert.Equal(t, "second", second.Message)
	assert.False(t, second.Read)

	_, err = svc.Create(ctx, notification.CreateInput{UserID: 4, Kind: notification.KindReportPlanAssigned, Message: "other"})
	require.NoError(t, err)

	list, err := svc.ListForUser(ctx, access.NewPrincipal(3, "user"), false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, float64(9), list[0].Meta["plan_id"])
	assert.Equal(t, "first", list[1].Message)

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Create(ctx, notification.CreateInput{UserID: 3, Message: " "})
		assert.True(t, errors.Is(err, notificationerrors.ErrMessageRequired))

		_, err = svc.Create(ctx, notification.CreateInput{Message: "x"})
		assert.True(t, errors.Is(err, notificationerrors.ErrRecipientRequired))
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.ListForUser(ctx, access.ResolvePrincipal("user", ""), false)
		assert.True(t, errors.Is(err, notificationerrors.ErrRecipientRequired))
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	owner := access.NewPrincipal(3, "user")

	n, err := svc.Create(ctx, notification.CreateInput{UserID: 3, Kind: notification.KindPlanAssigned, Message: "hello"})
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, access.NewPrincipal(4, "user"), n.ID)
	assert.True(t, errors.Is(err, notificationerrors.ErrNotificationNotFound))

	read, err := svc.MarkRead(ctx, owner, n.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)

	again, err := svc.MarkRead(ctx, owner, n.ID)
	require.NoError(t, err)
	assert.True(t, again.ReadAt.Equal(*read.ReadAt))

	unread, err := svc.ListForUser(ctx, owner, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
