package assignment

import (
	"time"

	"go-onboarding/internal/domain"
	"go-onboarding/internal/template"
	"go-onboarding/internal/user"
)

// weekSpan is the number of days after week_start that a week ends.
const weekSpan = 6

// Materialize expands a template into an unsaved plan for one employee.
// Sections become weeks and template tasks become tasks, both taken in
// (order_index, id) order. The returned plan's Weeks field holds the same
// weeks as the returned slice, so creating the plan creates everything.
// The caller is responsible for checking the template is published.
func Materialize(tpl template.Template, employee user.User, start time.Time) (domain.OnboardingPlan, []domain.Week) {
	start = domain.DateOnly(start)
	templateID := tpl.ID
	ownerID := employee.ID

	p := domain.OnboardingPlan{
		Name:        tpl.Name,
		Description: tpl.Description,
		TemplateID:  &templateID,
	}

	sections := template.SortedSections(tpl.Sections)
	weeks := make([]domain.Week, 0, len(sections))

	for _, sec := range sections {
		weekStart := domain.AddDays(start, intOrZero(sec.OffsetDays))
		weekEnd := domain.AddDays(weekStart, weekSpan)

		w := domain.Week{
			Title:         sec.Title,
			StartDate:     &weekStart,
			EndDate:       &weekEnd,
			OwnerUserID:   &ownerID,
			ManagerUserID: copyUint(employee.ManagerID),
		}

		for i, tt := range template.SortedTasks(sec.Tasks) {
			sortOrder := i + 1
			w.Tasks = append(w.Tasks, domain.Task{
				Title:            tt.Title,
				Goal:             tt.Title,
				Topic:            tt.Description,
				DueDate:          dueDate(tt, start, weekStart),
				Status:           domain.StatusNotStarted,
				Notes:            "",
				SortOrder:        &sortOrder,
				ResponsibleParty: string(tt.ResponsibleParty),
				Category:         tt.Category,
				IsRequired:       tt.IsRequired,
				EstimatedMinutes: copyInt(tt.DefaultEstimatedMinutes),
			})
		}

		weeks = append(weeks, w)
	}

	p.Weeks = weeks
	return p, weeks
}

func dueDate(tt template.TemplateTask, planStart, weekStart time.Time) *time.Time {
	var d time.Time
	switch {
	case tt.DueType == template.DueDaysFromStart && tt.OffsetDays != nil:
		d = domain.AddDays(planStart, *tt.OffsetDays)
	case tt.DueType == template.DueDayWithinSection && tt.SectionDay != nil:
		d = domain.AddDays(weekStart, *tt.SectionDay-1)
	default:
		return nil
	}
	return &d
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func copyUint(v *uint) *uint {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
