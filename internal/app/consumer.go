package app

import (
	"context"
	"errors"

	"go-onboarding/internal/config"
	"go-onboarding/internal/events"
	"go-onboarding/internal/messaging/kafka/consumer"
	"go-onboarding/internal/notification"
	"go-onboarding/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const planAssignedGroupID = "go-onboarding-notifications"

// RunConsumer turns plan_assigned events into notifications until ctx is
// cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := gormDB.AutoMigrate(&notification.Notification{}); err != nil {
			return err
		}
	}

	notificationService := notification.NewService(notification.NewRepository(gormDB), logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.PlanAssignedTopic,
		GroupID:        planAssignedGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumePlanAssigned(ctx, reader, notificationService, logger)

	logger.Info("consumer shut down")
	return nil
}
