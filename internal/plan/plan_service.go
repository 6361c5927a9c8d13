package plan

import (
	"context"
	"errors"

	"go-onboarding/internal/access"
	"go-onboarding/internal/domain"
	planerrors "go-onboarding/internal/plan/errors"
	"go-onboarding/internal/shared/contextutil"
	"go-onboarding/internal/user"
	usererrors "go-onboarding/internal/user/errors"
	"go-onboarding/internal/week"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	MyPlan(ctx context.Context, p access.Principal) (MyPlanResponse, error)
	List(ctx context.Context) ([]PlanResponse, error)
	Get(ctx context.Context, p access.Principal, id uint) (PlanResponse, error)
	Delete(ctx context.Context, id uint) error
	Overview(ctx context.Context) (OverviewResponse, error)
}

type service struct {
	repo     Repository
	weekRepo week.Repository
	userRepo user.Repository
	logger   *zap.Logger
}

func NewService(repo Repository, weekRepo week.Repository, userRepo user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("plan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("plan.service")
	}
	return &service{repo: repo, weekRepo: weekRepo, userRepo: userRepo, logger: l}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return planerrors.ErrPlanNotFound
	}
	return err
}

// MyPlan returns the current user's plan with every week in it. Being
// assigned the plan is what grants visibility here.
func (s *service) MyPlan(ctx context.Context, p access.Principal) (MyPlanResponse, error) {
	if !p.HasUser() {
		return MyPlanResponse{}, planerrors.ErrCurrentUserRequired
	}

	u, err := s.userRepo.FindByID(ctx, *p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MyPlanResponse{}, usererrors.ErrUserNotFound
		}
		return MyPlanResponse{}, err
	}

	resp := MyPlanResponse{User: user.MapUser(*u)}
	if u.OnboardingPlanID == nil {
		return resp, nil
	}

	pl, err := s.repo.FindByID(ctx, *u.OnboardingPlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("assigned plan is missing",
				zap.String("request_id", contextutil.GetRequestID(ctx)),
				zap.Uint("user_id", u.ID),
				zap.Uint("plan_id", *u.OnboardingPlanID),
			)
			return resp, nil
		}
		return MyPlanResponse{}, err
	}

	weeks, err := s.weekRepo.FindByPlan(ctx, pl.ID, allWeeks)
	if err != nil {
		return MyPlanResponse{}, err
	}
	if weeks == nil {
		weeks = []domain.Week{}
	}

	mapped := MapPlan(*pl, weeks)
	resp.Plan = &mapped
	return resp, nil
}

func allWeeks(db *gorm.DB) *gorm.DB { return db }

func (s *service) List(ctx context.Context) ([]PlanResponse, error) {
	plans, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]PlanResponse, 0, len(plans))
	for _, pl := range plans {
		resp = append(resp, MapPlan(pl, nil))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, p access.Principal, id uint) (PlanResponse, error) {
	pl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PlanResponse{}, mapRepositoryError(err)
	}

	weeks, err := s.weekRepo.FindByPlan(ctx, id, access.WeekScope(p))
	if err != nil {
		return PlanResponse{}, err
	}
	if weeks == nil {
		weeks = []domain.Week{}
	}

	return MapPlan(*pl, weeks), nil
}

// Delete removes the plan with its weeks and tasks. Users assigned to it
// are left without a plan.
func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("delete plan success",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Uint("plan_id", id),
	)
	return nil
}

func (s *service) Overview(ctx context.Context) (OverviewResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return OverviewResponse{}, err
	}

	plans, err := s.List(ctx)
	if err != nil {
		return OverviewResponse{}, err
	}

	return OverviewResponse{Users: user.MapUsers(users), Plans: plans}, nil
}
