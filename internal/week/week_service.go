package week

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-onboarding/internal/access"
	"go-onboarding/internal/domain"
	"go-onboarding/internal/shared/contextutil"
	"go-onboarding/internal/user"
	weekerrors "go-onboarding/internal/week/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, p access.Principal) ([]WeekResponse, error)
	Get(ctx context.Context, p access.Principal, id uint) (WeekResponse, error)
	Create(ctx context.Context, p access.Principal, req CreateWeekRequest) (WeekResponse, error)
	Delete(ctx context.Context, p access.Principal, id uint) error
}

type service struct {
	repo     Repository
	userRepo user.Repository
	logger   *zap.Logger
}

func NewService(repo Repository, userRepo user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("week.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("week.service")
	}
	return &service{repo: repo, userRepo: userRepo, logger: l}
}

func (s *service) List(ctx context.Context, p access.Principal) ([]WeekResponse, error) {
	s.logger.Debug("list weeks requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("role", string(p.Role)),
		zap.String("user_id", p.IDString()),
	)

	weeks, err := s.repo.FindAll(ctx, access.WeekScope(p))
	if err != nil {
		s.logger.Error("list weeks failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return MapWeeks(weeks), nil
}

func (s *service) Get(ctx context.Context, p access.Principal, id uint) (WeekResponse, error) {
	w, err := s.repo.FindByIDWithTasks(ctx, id)
	if err != nil {
		return WeekResponse{}, mapRepositoryError(err)
	}

	if err := access.EnsureWeekAccess(p, *w); err != nil {
		s.logger.Warn("week access denied",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Uint("week_id", id),
			zap.String("role", string(p.Role)),
			zap.String("user_id", p.IDString()),
		)
		return WeekResponse{}, err
	}

	return MapWeek(*w), nil
}

// Create adds an ad-hoc week outside any plan. The owner's current manager
// is copied onto the week.
func (s *service) Create(ctx context.Context, p access.Principal, req CreateWeekRequest) (WeekResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	start, err := time.Parse(DateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return WeekResponse{}, weekerrors.ErrInvalidStartDate
	}

	end := domain.AddDays(start, 6)
	if raw := strings.TrimSpace(req.EndDate); raw != "" {
		end, err = time.Parse(DateLayout, raw)
		if err != nil || end.Before(start) {
			return WeekResponse{}, weekerrors.ErrInvalidEndDate
		}
	}

	owner, err := s.userRepo.FindByID(ctx, req.OwnerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WeekResponse{}, weekerrors.ErrOwnerNotFound
		}
		return WeekResponse{}, err
	}

	w := &domain.Week{
		Title:         strings.TrimSpace(req.Title),
		StartDate:     &start,
		EndDate:       &end,
		OwnerUserID:   &owner.ID,
		ManagerUserID: owner.ManagerID,
	}

	if err := s.repo.Create(ctx, w); err != nil {
		s.logger.Error("create week persist failed", zap.String("request_id", rid), zap.Error(err))
		return WeekResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create week success",
		zap.String("request_id", rid),
		zap.Uint("week_id", w.ID),
		zap.Uint("owner_user_id", owner.ID),
		zap.String("created_by", p.IDString()),
	)
	return MapWeek(*w), nil
}

func (s *service) Delete(ctx context.Context, p access.Principal, id uint) error {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := access.EnsureWeekAccess(p, *w); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete week failed", zap.Uint("week_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete week success",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Uint("week_id", id),
	)
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weekerrors.ErrWeekNotFound
	}
	return err
}
