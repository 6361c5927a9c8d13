package template_test

import (
	"context"
	"errors"
	"testing"

	"go-onboarding/internal/access"
	"go-onboarding/internal/bootstrap"
	"go-onboarding/internal/shared/testutil"
	"go-onboarding/internal/template"
	templateerrors "go-onboarding/internal/template/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	r.entries = append(r.entries, entry)
}

func intPtr(v int) *int { return &v }

func newService(t *testing.T) (template.Service, *gorm.DB, *recordingAudit) {
	t.Helper()
	db := testutil.NewDB(t, &template.Template{}, &template.Section{}, &template.TemplateTask{})
	audit := &recordingAudit{}
	return template.NewService(template.NewRepository(db), audit), db, audit
}

func TestTemplateService_Authoring(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	builder := access.NewPrincipal(4, "builder")

	tpl, err := svc.Create(ctx, builder, template.CreateTemplateRequest{
		Name:       "  Engineering onboarding ",
		TargetRole: "engineer",
		Tags:       []string{"eng", "remote"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Engineering onboarding", tpl.Name)
	assert.Equal(t, "draft", tpl.Status)
	assert.Equal(t, []string{"eng", "remote"}, tpl.Tags)
	require.NotNil(t, tpl.CreatedByID)
	assert.Equal(t, uint(4), *tpl.CreatedByID)

	first, err := svc.AddSection(ctx, tpl.ID, template.SectionRequest{Title: "Week 1", OffsetDays: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 1, *first.OrderIndex)

	second, err := svc.AddSection(ctx, tpl.ID, template.SectionRequest{Title: "Week 2", OffsetDays: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 2, *second.OrderIndex)

	// explicit index ahead of the others
	intro, err := svc.AddSection(ctx, tpl.ID, template.SectionRequest{Title: "Before day one", OrderIndex: intPtr(1), OffsetDays: intPtr(-3)})
	require.NoError(t, err)

	task, err := svc.AddTask(ctx, tpl.ID, first.ID, template.TaskRequest{Title: "Laptop", DueType: "days_from_start", OffsetDays: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "New Hire", task.ResponsibleParty)
	assert.Equal(t, 1, *task.OrderIndex)

	_, err = svc.AddTask(ctx, tpl.ID, first.ID, template.TaskRequest{Title: "1:1", ResponsibleParty: "Manager", DueType: "day_within_section", SectionDay: intPtr(2)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 3)
	// equal order_index falls back to id
	assert.Equal(t, []uint{first.ID, intro.ID, second.ID}, []uint{got.Sections[0].ID, got.Sections[1].ID, got.Sections[2].ID})
	require.Len(t, got.Sections[0].Tasks, 2)
	assert.Equal(t, "Laptop", got.Sections[0].Tasks[0].Title)
	assert.Equal(t, "1:1", got.Sections[0].Tasks[1].Title)

	t.Run("task validation", func(t *testing.T) {
		_, err := svc.AddTask(ctx, tpl.ID, first.ID, template.TaskRequest{Title: "x", ResponsibleParty: "HR"})
		assert.True(t, errors.Is(err, templateerrors.ErrInvalidResponsibleParty))

		_, err = svc.AddTask(ctx, tpl.ID, first.ID, template.TaskRequest{Title: "x", DueType: "weekly"})
		assert.True(t, errors.Is(err, templateerrors.ErrInvalidDueType))

		_, err = svc.AddTask(ctx, tpl.ID, first.ID, template.TaskRequest{Title: "x", DueType: "day_within_section", SectionDay: intPtr(0)})
		assert.True(t, errors.Is(err, templateerrors.ErrInvalidSectionDay))
	})

	t.Run("section of another template", func(t *testing.T) {
		other, err := svc.Create(ctx, builder, template.CreateTemplateRequest{Name: "Other"})
		require.NoError(t, err)

		_, err = svc.AddTask(ctx, other.ID, first.ID, template.TaskRequest{Title: "x"})
		assert.True(t, errors.Is(err, templateerrors.ErrSectionNotFound))
	})

	t.Run("update and delete task", func(t *testing.T) {
		updated, err := svc.UpdateTask(ctx, tpl.ID, first.ID, task.ID, template.TaskRequest{Title: "Laptop and badge", OffsetDays: intPtr(2), IsRequired: true})
		require.NoError(t, err)
		assert.Equal(t, "Laptop and badge", updated.Title)
		assert.True(t, updated.IsRequired)
		assert.Equal(t, 1, *updated.OrderIndex)

		require.NoError(t, svc.DeleteTask(ctx, tpl.ID, first.ID, task.ID))
		err = svc.DeleteTask(ctx, tpl.ID, first.ID, task.ID)
		assert.True(t, errors.Is(err, templateerrors.ErrTemplateTaskNotFound))
	})
}

func TestTemplateService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, db, audit := newService(t)
	admin := access.NewPrincipal(1, "admin")

	tpl, err := svc.Create(ctx, admin, template.CreateTemplateRequest{Name: "Sales"})
	require.NoError(t, err)
	sec, err := svc.AddSection(ctx, tpl.ID, template.SectionRequest{Title: "Week 1"})
	require.NoError(t, err)

	_, err = svc.Retire(ctx, admin, tpl.ID)
	assert.True(t, errors.Is(err, templateerrors.ErrInvalidStatusTransition))

	published, err := svc.Publish(ctx, admin, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "published", published.Status)
	assert.NotNil(t, published.PublishedAt)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "TEMPLATE_PUBLISHED", audit.entries[0].Action)

	t.Run("published is read-only", func(t *testing.T) {
		name := "Renamed"
		_, err := svc.Update(ctx, tpl.ID, template.UpdateTemplateRequest{Name: &name})
		assert.True(t, errors.Is(err, templateerrors.ErrTemplateNotEditable))

		_, err = svc.AddSection(ctx, tpl.ID, template.SectionRequest{Title: "Week 2"})
		assert.True(t, errors.Is(err, templateerrors.ErrTemplateNotEditable))

		_, err = svc.AddTask(ctx, tpl.ID, sec.ID, template.TaskRequest{Title: "x"})
		assert.True(t, errors.Is(err, templateerrors.ErrTemplateNotEditable))

		err = svc.Delete(ctx, tpl.ID)
		assert.True(t, errors.Is(err, templateerrors.ErrTemplateNotEditable))
	})

	retired, err := svc.Retire(ctx, admin, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "retired", retired.Status)
	assert.NotNil(t, retired.RetiredAt)

	_, err = svc.Publish(ctx, admin, tpl.ID)
	assert.True(t, errors.Is(err, templateerrors.ErrInvalidStatusTransition))

	list, err := svc.List(ctx, "retired")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Sections)

	_, err = svc.List(ctx, "archived")
	assert.True(t, errors.Is(err, templateerrors.ErrInvalidTemplateStatus))

	require.NoError(t, svc.Delete(ctx, tpl.ID))

	var sections int64
	db.Model(&template.Section{}).Count(&sections)
	assert.Equal(t, int64(0), sections)

	_, err = svc.Get(ctx, tpl.ID)
	assert.True(t, errors.Is(err, templateerrors.ErrTemplateNotFound))
}
