package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-onboarding/internal/access"
	"go-onboarding/internal/domain"
	"go-onboarding/internal/shared/contextutil"
	taskerrors "go-onboarding/internal/task/errors"
	"go-onboarding/internal/week"
	weekerrors "go-onboarding/internal/week/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, p access.Principal, weekID uint, req CreateTaskRequest) (week.TaskResponse, error)
	Get(ctx context.Context, p access.Principal, id uint) (week.TaskResponse, error)
	UpdateNotes(ctx context.Context, p access.Principal, id uint, notes string) (week.TaskResponse, error)
	UpdateDueDate(ctx context.Context, p access.Principal, id uint, raw string) (DueDateResponse, error)
	UpdateStatus(ctx context.Context, p access.Principal, id uint, label string) (week.TaskResponse, error)
	Delete(ctx context.Context, p access.Principal, id uint) error
}

type Options struct {
	// SkipWeekends rolls weekend due dates forward to Monday.
	SkipWeekends bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo     Repository
	weekRepo week.Repository
	opts     Options
	logger   *zap.Logger
}

func NewService(repo Repository, weekRepo week.Repository, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{repo: repo, weekRepo: weekRepo, opts: opts, logger: l}
}

func (s *service) Create(ctx context.Context, p access.Principal, weekID uint, req CreateTaskRequest) (week.TaskResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	w, err := s.weekRepo.FindByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return week.TaskResponse{}, weekerrors.ErrWeekNotFound
		}
		return week.TaskResponse{}, err
	}
	if err := access.EnsureWeekAccess(p, *w); err != nil {
		return week.TaskResponse{}, err
	}

	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return week.TaskResponse{}, taskerrors.ErrGoalRequired
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = goal
	}

	next := 0
	last, err := s.repo.MaxSortOrder(ctx, weekID)
	if err != nil {
		s.logger.Error("create task read sort order failed", zap.String("request_id", rid), zap.Error(err))
		return week.TaskResponse{}, err
	}
	if last != nil {
		next = *last + 1
	}

	t := &domain.Task{
		WeekID:    weekID,
		Title:     title,
		Goal:      goal,
		Topic:     strings.TrimSpace(req.Topic),
		Status:    domain.StatusNotStarted,
		SortOrder: &next,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create task persist failed", zap.String("request_id", rid), zap.Error(err))
		return week.TaskResponse{}, err
	}

	s.logger.Info("create task success",
		zap.String("request_id", rid),
		zap.Uint("week_id", weekID),
		zap.Uint("task_id", t.ID),
		zap.Int("sort_order", next),
	)
	return week.MapTask(*t), nil
}

func (s *service) Get(ctx context.Context, p access.Principal, id uint) (week.TaskResponse, error) {
	t, err := s.authorizedTask(ctx, p, id)
	if err != nil {
		return week.TaskResponse{}, err
	}
	return week.MapTask(*t), nil
}

func (s *service) UpdateNotes(ctx context.Context, p access.Principal, id uint, notes string) (week.TaskResponse, error) {
	t, err := s.authorizedTask(ctx, p, id)
	if err != nil {
		return week.TaskResponse{}, err
	}

	t.Notes = strings.TrimSpace(notes)
	if err := s.repo.UpdateColumns(ctx, id, map[string]any{"notes": t.Notes}); err != nil {
		s.logger.Error("update task notes failed", zap.Uint("task_id", id), zap.Error(err))
		return week.TaskResponse{}, err
	}

	return week.MapTask(*t), nil
}

func (s *service) UpdateDueDate(ctx context.Context, p access.Principal, id uint, raw string) (DueDateResponse, error) {
	t, err := s.authorizedTask(ctx, p, id)
	if err != nil {
		return DueDateResponse{}, err
	}

	due, err := ParseDueDate(raw, s.opts.Now())
	if err != nil {
		s.logger.Debug("update task due date rejected",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Uint("task_id", id),
			zap.String("input", raw),
		)
		return DueDateResponse{}, err
	}

	adjusted := false
	if due != nil && s.opts.SkipWeekends {
		var rolled time.Time
		rolled, adjusted = RollForwardWeekend(*due)
		due = &rolled
	}

	if err := s.repo.UpdateColumns(ctx, id, map[string]any{"due_date": due}); err != nil {
		s.logger.Error("update task due date failed", zap.Uint("task_id", id), zap.Error(err))
		return DueDateResponse{}, err
	}

	t.DueDate = due
	return DueDateResponse{Task: week.MapTask(*t), Adjusted: adjusted}, nil
}

func (s *service) UpdateStatus(ctx context.Context, p access.Principal, id uint, label string) (week.TaskResponse, error) {
	t, err := s.authorizedTask(ctx, p, id)
	if err != nil {
		return week.TaskResponse{}, err
	}

	status, err := ParseStatus(label)
	if err != nil {
		return week.TaskResponse{}, err
	}

	if err := s.repo.UpdateColumns(ctx, id, map[string]any{"status": status}); err != nil {
		s.logger.Error("update task status failed", zap.Uint("task_id", id), zap.Error(err))
		return week.TaskResponse{}, err
	}

	s.logger.Info("update task status success",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Uint("task_id", id),
		zap.String("from", string(t.Status)),
		zap.String("to", string(status)),
	)

	t.Status = status
	return week.MapTask(*t), nil
}

func (s *service) Delete(ctx context.Context, p access.Principal, id uint) error {
	if _, err := s.authorizedTask(ctx, p, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return taskerrors.ErrTaskNotFound
		}
		return err
	}

	s.logger.Info("delete task success", zap.String("request_id", contextutil.GetRequestID(ctx)), zap.Uint("task_id", id))
	return nil
}

// authorizedTask loads a task and checks the caller may access its week.
func (s *service) authorizedTask(ctx context.Context, p access.Principal, id uint) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskerrors.ErrTaskNotFound
		}
		return nil, err
	}

	w, err := s.weekRepo.FindByID(ctx, t.WeekID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskerrors.ErrTaskNotFound
		}
		return nil, err
	}

	if err := access.EnsureWeekAccess(p, *w); err != nil {
		s.logger.Warn("task access denied",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Uint("task_id", id),
			zap.String("role", string(p.Role)),
			zap.String("user_id", p.IDString()),
		)
		return nil, err
	}

	return t, nil
}
