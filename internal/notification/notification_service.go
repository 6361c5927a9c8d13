package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-onboarding/internal/access"
	notificationerrors "go-onboarding/internal/notification/errors"
	"go-onboarding/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (NotificationResponse, error)
	ListForUser(ctx context.Context, p access.Principal, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, p access.Principal, id uint) (NotificationResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, in CreateInput) (NotificationResponse, error) {
	if in.UserID == 0 {
		return NotificationResponse{}, notificationerrors.ErrRecipientRequired
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return NotificationResponse{}, notificationerrors.ErrMessageRequired
	}

	n := Notification{UserID: in.UserID, Kind: in.Kind, Message: msg}
	if len(in.Meta) > 0 {
		raw, err := json.Marshal(in.Meta)
		if err != nil {
			return NotificationResponse{}, err
		}
		n.Meta = datatypes.JSON(raw)
	}

	if err := s.repo.Create(ctx, &n); err != nil {
		s.logger.Error("create notification failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Uint("user_id", in.UserID),
			zap.Error(err),
		)
		return NotificationResponse{}, err
	}
	return MapNotification(n), nil
}

func (s *service) ListForUser(ctx context.Context, p access.Principal, unreadOnly bool) ([]NotificationResponse, error) {
	if !p.HasUser() {
		return nil, notificationerrors.ErrRecipientRequired
	}

	ns, err := s.repo.FindByUser(ctx, *p.UserID, unreadOnly)
	if err != nil {
		return nil, err
	}
	return MapNotifications(ns), nil
}

func (s *service) MarkRead(ctx context.Context, p access.Principal, id uint) (NotificationResponse, error) {
	if !p.HasUser() {
		return NotificationResponse{}, notificationerrors.ErrRecipientRequired
	}

	n, err := s.repo.MarkRead(ctx, *p.UserID, id, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, err
	}
	return MapNotification(*n), nil
}
