package assignment_test

import (
	"testing"
	"time"

	"go-onboarding/internal/assignment"
	"go-onboarding/internal/domain"
	"go-onboarding/internal/template"
	"go-onboarding/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func ymd(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func exampleTemplate() template.Template {
	return template.Template{
		ID:          7,
		Name:        "Engineering",
		Description: "First two weeks",
		Status:      template.StatusPublished,
		Sections: []template.Section{
			{
				ID: 1, Title: "Week 1", OrderIndex: intPtr(1), OffsetDays: intPtr(0),
				Tasks: []template.TemplateTask{
					{ID: 10, Title: "Task1", Description: "laptop", DueType: template.DueDaysFromStart, OffsetDays: intPtr(3), OrderIndex: intPtr(1)},
				},
			},
			{
				ID: 2, Title: "Week 2", OrderIndex: intPtr(2), OffsetDays: intPtr(7),
				Tasks: []template.TemplateTask{
					{ID: 20, Title: "Task2", DueType: template.DueDayWithinSection, SectionDay: intPtr(2), OrderIndex: intPtr(1)},
				},
			},
		},
	}
}

func TestMaterialize_Example(t *testing.T) {
	employee := user.User{ID: 3, ManagerID: uintPtr(2)}

	p, weeks := assignment.Materialize(exampleTemplate(), employee, day("2025-01-06"))

	assert.Equal(t, "Engineering", p.Name)
	assert.Equal(t, "First two weeks", p.Description)
	require.NotNil(t, p.TemplateID)
	assert.Equal(t, uint(7), *p.TemplateID)
	assert.Len(t, p.Weeks, 2)

	require.Len(t, weeks, 2)
	assert.Equal(t, "Week 1", weeks[0].Title)
	assert.Equal(t, "2025-01-06", ymd(weeks[0].StartDate))
	assert.Equal(t, "2025-01-12", ymd(weeks[0].EndDate))
	require.Len(t, weeks[0].Tasks, 1)
	assert.Equal(t, "2025-01-09", ymd(weeks[0].Tasks[0].DueDate))

	assert.Equal(t, "2025-01-13", ymd(weeks[1].StartDate))
	assert.Equal(t, "2025-01-19", ymd(weeks[1].EndDate))
	require.Len(t, weeks[1].Tasks, 1)
	assert.Equal(t, "2025-01-14", ymd(weeks[1].Tasks[0].DueDate))

	task := weeks[0].Tasks[0]
	assert.Equal(t, "Task1", task.Title)
	assert.Equal(t, "Task1", task.Goal)
	assert.Equal(t, "laptop", task.Topic)
	assert.Equal(t, "", task.Notes)
	assert.Equal(t, domain.StatusNotStarted, task.Status)
	assert.Equal(t, 1, *task.SortOrder)

	for _, w := range weeks {
		assert.Equal(t, uint(3), *w.OwnerUserID)
		assert.Equal(t, uint(2), *w.ManagerUserID)
	}
}

func TestMaterialize_Ordering(t *testing.T) {
	tpl := template.Template{
		Name: "Ordering",
		Sections: []template.Section{
			{ID: 9, Title: "C", OrderIndex: intPtr(2)},
			{ID: 5, Title: "B", OrderIndex: intPtr(1)},
			{ID: 4, Title: "A", OrderIndex: intPtr(1), Tasks: []template.TemplateTask{
				{ID: 33, Title: "third", OrderIndex: intPtr(2)},
				{ID: 32, Title: "second"},
				{ID: 31, Title: "first"},
			}},
			{ID: 8, Title: "unset"},
		},
	}

	_, weeks := assignment.Materialize(tpl, user.User{ID: 1}, day("2025-03-03"))

	titles := make([]string, len(weeks))
	for i, w := range weeks {
		titles[i] = w.Title
	}
	assert.Equal(t, []string{"unset", "A", "B", "C"}, titles)

	tasks := weeks[1].Tasks
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "third", tasks[2].Title)
	for i, task := range tasks {
		assert.Equal(t, i+1, *task.SortOrder)
	}

	// nil offsets start at the plan start, no manager means no snapshot
	for _, w := range weeks {
		assert.Equal(t, "2025-03-03", ymd(w.StartDate))
		assert.Nil(t, w.ManagerUserID)
	}
}

func TestMaterialize_DueDates(t *testing.T) {
	tpl := template.Template{
		Sections: []template.Section{{
			ID: 1, Title: "S", OffsetDays: intPtr(14),
			Tasks: []template.TemplateTask{
				{ID: 1, Title: "from start", DueType: template.DueDaysFromStart, OffsetDays: intPtr(-2)},
				{ID: 2, Title: "day 1", DueType: template.DueDayWithinSection, SectionDay: intPtr(1)},
				{ID: 3, Title: "no offset", DueType: template.DueDaysFromStart},
				{ID: 4, Title: "no day", DueType: template.DueDayWithinSection, OffsetDays: intPtr(3)},
			},
		}},
	}

	_, weeks := assignment.Materialize(tpl, user.User{ID: 1}, time.Date(2025, 1, 6, 17, 45, 0, 0, time.UTC))

	require.Len(t, weeks, 1)
	tasks := weeks[0].Tasks
	assert.Equal(t, "2025-01-04", ymd(tasks[0].DueDate))
	assert.Equal(t, "2025-01-20", ymd(tasks[1].DueDate))
	assert.Nil(t, tasks[2].DueDate)
	assert.Nil(t, tasks[3].DueDate)
	assert.Equal(t, 0, weeks[0].StartDate.Hour())
}

func TestMaterialize_EmptyTemplate(t *testing.T) {
	p, weeks := assignment.Materialize(template.Template{Name: "Empty"}, user.User{ID: 1}, day("2025-01-06"))
	assert.Equal(t, "Empty", p.Name)
	assert.Empty(t, weeks)

	_, weeks = assignment.Materialize(template.Template{Sections: []template.Section{{ID: 1, Title: "No tasks"}}}, user.User{ID: 1}, day("2025-01-06"))
	require.Len(t, weeks, 1)
	assert.Empty(t, weeks[0].Tasks)
}
