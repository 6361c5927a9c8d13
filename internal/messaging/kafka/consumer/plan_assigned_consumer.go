package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-onboarding/internal/events"
	"go-onboarding/internal/notification"
	"go-onboarding/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Notifier interface {
	Create(ctx context.Context, in notification.CreateInput) (notification.NotificationResponse, error)
}

const maxNotifyAttempts = 5

var (
	retryBaseDelay = time.Second
	retryMaxDelay  = 30 * time.Second
)

func ConsumePlanAssigned(
	ctx context.Context,
	reader MessageReader,
	notifier Notifier,
	logger *zap.Logger,
) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.consumer.plan_assigned")
	log.Info("plan assigned consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("plan assigned consumer stopped")
				return
			}
			log.Error("fetch plan assigned message failed", zap.Error(err))
			continue
		}

		var event events.PlanAssignedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode plan_assigned event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		// Retried in place: a later commit moves the group offset past this
		// message. Each notification retries on its own.
		for _, in := range PlanAssignedNotifications(event) {
			if err := createWithRetry(ctx, notifier, in, log); err != nil {
				if ctx.Err() != nil {
					log.Info("plan assigned consumer stopped")
					return
				}
				log.Error("notify plan assigned failed, skipping",
					zap.Uint("plan_id", event.PlanID),
					zap.Uint("user_id", in.UserID),
					zap.String("kind", in.Kind),
					zap.Error(err),
				)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit plan assigned message failed", zap.Error(err))
			continue
		}

		log.Info("plan assigned notifications created",
			zap.Uint("plan_id", event.PlanID),
			zap.Uint("employee_id", event.EmployeeID),
		)
	}
}

// HandlePlanAssigned notifies the employee and, when the event carries
// one, the manager captured at assignment time. It stops at the first error.
func HandlePlanAssigned(ctx context.Context, notifier Notifier, event events.PlanAssignedEvent) error {
	for _, in := range PlanAssignedNotifications(event) {
		if _, err := notifier.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

// PlanAssignedNotifications lists the notifications one event produces.
func PlanAssignedNotifications(event events.PlanAssignedEvent) []notification.CreateInput {
	meta := map[string]any{
		"plan_id":     event.PlanID,
		"template_id": event.TemplateID,
		"employee_id": event.EmployeeID,
		"start_date":  event.StartDate,
	}

	out := []notification.CreateInput{{
		UserID:  event.EmployeeID,
		Kind:    notification.KindPlanAssigned,
		Message: fmt.Sprintf("You have been assigned %q starting %s", event.PlanName, event.StartDate),
		Meta:    meta,
	}}

	if event.ManagerID == nil || *event.ManagerID == event.EmployeeID {
		return out
	}

	return append(out, notification.CreateInput{
		UserID:  *event.ManagerID,
		Kind:    notification.KindReportPlanAssigned,
		Message: fmt.Sprintf("A direct report has been assigned %q starting %s", event.PlanName, event.StartDate),
		Meta:    meta,
	})
}

// createWithRetry retries transient failures with doubling backoff up to
// maxNotifyAttempts. Client errors (4xx AppErrors) are not retried.
func createWithRetry(ctx context.Context, notifier Notifier, in notification.CreateInput, log *zap.Logger) error {
	delay := retryBaseDelay
	var err error
	for attempt := 1; attempt <= maxNotifyAttempts; attempt++ {
		if _, err = notifier.Create(ctx, in); err == nil {
			return nil
		}
		if permanent(err) || attempt == maxNotifyAttempts {
			return err
		}

		log.Warn("notify failed, retrying",
			zap.Uint("user_id", in.UserID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, retryMaxDelay)
	}
	return err
}

func permanent(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError
}
