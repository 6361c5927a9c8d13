package assignment_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-onboarding/internal/access"
	"go-onboarding/internal/assignment"
	assignmenterrors "go-onboarding/internal/assignment/errors"
	"go-onboarding/internal/domain"
	"go-onboarding/internal/events"
	"go-onboarding/internal/messaging/kafka"
	"go-onboarding/internal/plan"
	"go-onboarding/internal/shared/testutil"
	"go-onboarding/internal/template"
	templateerrors "go-onboarding/internal/template/errors"
	"go-onboarding/internal/user"
	usererrors "go-onboarding/internal/user/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      assignment.Service
	manager  user.User
	employee user.User
	tpl      template.Template
}

var admin = access.NewPrincipal(1, "admin")

func newFixture(t *testing.T, outbox kafka.OutboxRepository) *fixture {
	t.Helper()
	db := testutil.NewDB(t,
		&domain.OnboardingPlan{}, &domain.Week{}, &domain.Task{}, &user.User{},
		&template.Template{}, &template.Section{}, &template.TemplateTask{},
		&kafka.OutboxEvent{},
	)

	f := &fixture{db: db}
	f.manager = user.User{Email: "morgan@example.com", FullName: "Morgan", Role: "manager"}
	require.NoError(t, db.Create(&f.manager).Error)
	f.employee = user.User{Email: "sam@example.com", FullName: "Sam", ManagerID: &f.manager.ID}
	require.NoError(t, db.Create(&f.employee).Error)

	f.tpl = exampleTemplate()
	f.tpl.ID = 0
	for i := range f.tpl.Sections {
		f.tpl.Sections[i].ID = 0
		for j := range f.tpl.Sections[i].Tasks {
			f.tpl.Sections[i].Tasks[j].ID = 0
		}
	}
	require.NoError(t, db.Create(&f.tpl).Error)

	if outbox == nil {
		outbox = kafka.NewOutboxRepository(db)
	}
	f.svc = assignment.NewService(db,
		template.NewRepository(db),
		user.NewRepository(db),
		plan.NewRepository(db),
		outbox,
		nil,
	)
	return f
}

func (f *fixture) request(start string) assignment.AssignRequest {
	return assignment.AssignRequest{TemplateID: f.tpl.ID, EmployeeID: f.employee.ID, StartDate: start}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestAssign_PersistsPlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	resp, err := f.svc.Assign(ctx, admin, f.request("2025-01-06"))
	require.NoError(t, err)
	assert.True(t, resp.HasWeeks)
	assert.Equal(t, f.employee.ID, resp.EmployeeID)
	require.Len(t, resp.Plan.Weeks, 2)
	assert.Equal(t, "2025-01-06", *resp.Plan.Weeks[0].StartDate)
	assert.Equal(t, "2025-01-19", *resp.Plan.Weeks[1].EndDate)
	assert.Equal(t, "2025-01-14", *resp.Plan.Weeks[1].Tasks[0].DueDate)

	var weeks []domain.Week
	require.NoError(t, f.db.Preload("Tasks").
		Where("onboarding_plan_id = ?", resp.Plan.ID).
		Order("start_date ASC").
		Find(&weeks).Error)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-01-13", weeks[1].StartDate.Format("2006-01-02"))
	assert.Equal(t, f.employee.ID, *weeks[1].OwnerUserID)
	assert.Equal(t, f.manager.ID, *weeks[1].ManagerUserID)
	require.Len(t, weeks[0].Tasks, 1)
	assert.Equal(t, "2025-01-09", weeks[0].Tasks[0].DueDate.Format("2006-01-02"))

	var employee user.User
	require.NoError(t, f.db.First(&employee, f.employee.ID).Error)
	require.NotNil(t, employee.OnboardingPlanID)
	assert.Equal(t, resp.Plan.ID, *employee.OnboardingPlanID)

	var outbox []kafka.OutboxEvent
	require.NoError(t, f.db.Find(&outbox).Error)
	require.Len(t, outbox, 1)
	assert.Equal(t, events.PlanAssignedTopic, outbox[0].Topic)
	assert.Equal(t, kafka.OutboxStatusPending, outbox[0].Status)

	var event events.PlanAssignedEvent
	require.NoError(t, json.Unmarshal(outbox[0].Payload, &event))
	assert.Equal(t, resp.Plan.ID, event.PlanID)
	assert.Equal(t, f.employee.ID, event.EmployeeID)
	assert.Equal(t, f.manager.ID, *event.ManagerID)
	assert.Equal(t, 2, event.WeekCount)
}

func TestAssign_TwiceCreatesIndependentPlans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first, err := f.svc.Assign(ctx, admin, f.request("2025-01-06"))
	require.NoError(t, err)
	second, err := f.svc.Assign(ctx, admin, f.request("2025-01-06"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Plan.ID, second.Plan.ID)

	seenWeeks := map[uint]bool{}
	seenTasks := map[uint]bool{}
	for _, resp := range []assignment.AssignResponse{first, second} {
		for _, w := range resp.Plan.Weeks {
			assert.False(t, seenWeeks[w.ID], "week %d shared", w.ID)
			seenWeeks[w.ID] = true
			for _, task := range w.Tasks {
				assert.False(t, seenTasks[task.ID], "task %d shared", task.ID)
				seenTasks[task.ID] = true
			}
		}
	}
	assert.Len(t, seenWeeks, 4)
	assert.Len(t, seenTasks, 4)
	assert.Equal(t, int64(2), count(t, f.db, &domain.OnboardingPlan{}))
}

func TestAssign_Preconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	draft := template.Template{Name: "Draft", Status: template.StatusDraft,
		Sections: []template.Section{{Title: "Week 1"}}}
	require.NoError(t, f.db.Create(&draft).Error)

	_, err := f.svc.Assign(ctx, admin, assignment.AssignRequest{TemplateID: draft.ID, EmployeeID: f.employee.ID, StartDate: "2025-01-06"})
	assert.True(t, errors.Is(err, assignmenterrors.ErrTemplateNotPublished))

	_, err = f.svc.Assign(ctx, admin, assignment.AssignRequest{TemplateID: 999, EmployeeID: f.employee.ID, StartDate: "2025-01-06"})
	assert.True(t, errors.Is(err, templateerrors.ErrTemplateNotFound))

	_, err = f.svc.Assign(ctx, admin, assignment.AssignRequest{TemplateID: f.tpl.ID, EmployeeID: 999, StartDate: "2025-01-06"})
	assert.True(t, errors.Is(err, usererrors.ErrUserNotFound))

	_, err = f.svc.Assign(ctx, admin, f.request("06/01/2025"))
	assert.True(t, errors.Is(err, assignmenterrors.ErrInvalidStartDate))

	assert.Equal(t, int64(0), count(t, f.db, &domain.OnboardingPlan{}))
	assert.Equal(t, int64(0), count(t, f.db, &domain.Week{}))
	assert.Equal(t, int64(0), count(t, f.db, &kafka.OutboxEvent{}))
}

type failingOutbox struct{}

func (f failingOutbox) WithTx(*gorm.DB) kafka.OutboxRepository { return f }
func (failingOutbox) Create(context.Context, *kafka.OutboxEvent) error {
	return errors.New("outbox unavailable")
}
func (failingOutbox) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) { return nil, nil }
func (failingOutbox) MarkSent(context.Context, string) error                        { return nil }
func (failingOutbox) MarkFailed(context.Context, kafka.OutboxEvent, string) error   { return nil }

func TestAssign_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingOutbox{})

	_, err := f.svc.Assign(ctx, admin, f.request("2025-01-06"))
	require.Error(t, err)

	assert.Equal(t, int64(0), count(t, f.db, &domain.OnboardingPlan{}))
	assert.Equal(t, int64(0), count(t, f.db, &domain.Week{}))
	assert.Equal(t, int64(0), count(t, f.db, &domain.Task{}))

	var employee user.User
	require.NoError(t, f.db.First(&employee, f.employee.ID).Error)
	assert.Nil(t, employee.OnboardingPlanID)
}

func TestAssign_WithoutOutbox(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t,
		&domain.OnboardingPlan{}, &domain.Week{}, &domain.Task{}, &user.User{},
		&template.Template{}, &template.Section{}, &template.TemplateTask{},
	)
	employee := user.User{Email: "sam@example.com", FullName: "Sam"}
	require.NoError(t, db.Create(&employee).Error)
	empty := template.Template{Name: "Empty", Status: template.StatusPublished}
	require.NoError(t, db.Create(&empty).Error)

	svc := assignment.NewService(db, template.NewRepository(db), user.NewRepository(db), plan.NewRepository(db), nil, nil)

	resp, err := svc.Assign(ctx, admin, assignment.AssignRequest{TemplateID: empty.ID, EmployeeID: employee.ID, StartDate: "2025-01-06"})
	require.NoError(t, err)
	assert.False(t, resp.HasWeeks)
	assert.Empty(t, resp.Plan.Weeks)
	assert.Equal(t, "Empty", resp.Plan.Name)
}
