package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-onboarding/internal/access"
	assignmenterrors "go-onboarding/internal/assignment/errors"
	"go-onboarding/internal/bootstrap"
	"go-onboarding/internal/domain"
	"go-onboarding/internal/events"
	"go-onboarding/internal/messaging/kafka"
	"go-onboarding/internal/plan"
	"go-onboarding/internal/shared/contextutil"
	"go-onboarding/internal/template"
	templateerrors "go-onboarding/internal/template/errors"
	"go-onboarding/internal/user"
	usererrors "go-onboarding/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Assign(ctx context.Context, p access.Principal, req AssignRequest) (AssignResponse, error)
}

type service struct {
	db           *gorm.DB
	templateRepo template.Repository
	userRepo     user.Repository
	planRepo     plan.Repository
	outbox       kafka.OutboxRepository
	audit        bootstrap.AuditLogger
	now          func() time.Time
	logger       *zap.Logger
}

// NewService wires the assignment flow. outboxRepo may be nil, in which
// case no plan_assigned event is recorded.
func NewService(
	db *gorm.DB,
	templateRepo template.Repository,
	userRepo user.Repository,
	planRepo plan.Repository,
	outboxRepo kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	if audit == nil {
		audit = bootstrap.NopAuditLogger{}
	}
	return &service{
		db:           db,
		templateRepo: templateRepo,
		userRepo:     userRepo,
		planRepo:     planRepo,
		outbox:       outboxRepo,
		audit:        audit,
		now:          time.Now,
		logger:       l,
	}
}

func (s *service) Assign(ctx context.Context, p access.Principal, req AssignRequest) (AssignResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	s.logger.Info("assign template requested",
		zap.String("request_id", rid),
		zap.Uint("template_id", req.TemplateID),
		zap.Uint("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
	)

	tpl, err := s.templateRepo.FindByIDWithSections(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignResponse{}, templateerrors.ErrTemplateNotFound
		}
		return AssignResponse{}, err
	}
	if tpl.Status != template.StatusPublished {
		s.logger.Warn("assign template not published",
			zap.String("request_id", rid),
			zap.Uint("template_id", tpl.ID),
			zap.String("status", string(tpl.Status)),
		)
		return AssignResponse{}, assignmenterrors.ErrTemplateNotPublished.WithDetails(map[string]any{
			"status": tpl.Status,
		})
	}

	employee, err := s.userRepo.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignResponse{}, usererrors.ErrUserNotFound
		}
		return AssignResponse{}, err
	}

	start, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
	if err != nil {
		return AssignResponse{}, assignmenterrors.ErrInvalidStartDate
	}

	newPlan, _ := Materialize(*tpl, *employee, start)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.planRepo.WithTx(tx).Create(ctx, &newPlan); err != nil {
			s.logger.Error("assign persist plan failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}

		if err := s.userRepo.WithTx(tx).SetOnboardingPlan(ctx, employee.ID, newPlan.ID); err != nil {
			s.logger.Error("assign set employee plan failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}

		if s.outbox == nil {
			return nil
		}
		return s.recordAssigned(ctx, tx, p, newPlan, *employee, start)
	})
	if err != nil {
		return AssignResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "PLAN_ASSIGNED",
		Message: "Onboarding template assigned",
		Meta: map[string]any{
			"plan_id":     newPlan.ID,
			"template_id": tpl.ID,
			"employee_id": employee.ID,
			"start_date":  start.Format("2006-01-02"),
			"by_user_id":  p.IDString(),
		},
	})

	s.logger.Info("assign template success",
		zap.String("request_id", rid),
		zap.Uint("plan_id", newPlan.ID),
		zap.Int("weeks", len(newPlan.Weeks)),
	)

	return AssignResponse{
		Plan:       plan.MapPlan(newPlan, newPlan.Weeks),
		EmployeeID: employee.ID,
		HasWeeks:   len(newPlan.Weeks) > 0,
	}, nil
}

func (s *service) recordAssigned(
	ctx context.Context,
	tx *gorm.DB,
	p access.Principal,
	newPlan domain.OnboardingPlan,
	employee user.User,
	start time.Time,
) error {
	event := events.PlanAssignedEvent{
		EventType:  events.PlanAssignedEventType,
		PlanID:     newPlan.ID,
		PlanName:   newPlan.Name,
		EmployeeID: employee.ID,
		ManagerID:  employee.ManagerID,
		StartDate:  start.Format("2006-01-02"),
		WeekCount:  len(newPlan.Weeks),
		AssignedBy: p.IDString(),
		OccurredAt: s.now().UTC(),
	}
	if newPlan.TemplateID != nil {
		event.TemplateID = *newPlan.TemplateID
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, &kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "onboarding_plan",
		AggregateID:   strconv.FormatUint(uint64(newPlan.ID), 10),
		EventType:     event.EventType,
		Topic:         events.PlanAssignedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("assign outbox persist failed",
			zap.Uint("plan_id", newPlan.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
