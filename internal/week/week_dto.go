package week

import (
	"time"

	"go-onboarding/internal/domain"
)

const DateLayout = "2006-01-02"

type CreateWeekRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	OwnerUserID uint   `json:"owner_user_id" binding:"required"`
}

type TaskResponse struct {
	ID               uint    `json:"id"`
	WeekID           uint    `json:"week_id"`
	Title            string  `json:"title"`
	Goal             string  `json:"goal"`
	Topic            string  `json:"topic"`
	Label            string  `json:"label"`
	DueDate          *string `json:"due_date"`
	Status           string  `json:"status"`
	Notes            string  `json:"notes"`
	SortOrder        *int    `json:"sort_order"`
	ResponsibleParty string  `json:"responsible_party,omitempty"`
	Category         string  `json:"category,omitempty"`
	IsRequired       bool    `json:"is_required"`
	EstimatedMinutes *int    `json:"estimated_minutes,omitempty"`
}

type Progress struct {
	Total    int `json:"total"`
	Complete int `json:"complete"`
}

type WeekResponse struct {
	ID               uint           `json:"id"`
	Title            string         `json:"title"`
	StartDate        *string        `json:"start_date"`
	EndDate          *string        `json:"end_date"`
	OwnerUserID      *uint          `json:"owner_user_id"`
	ManagerUserID    *uint          `json:"manager_user_id"`
	OnboardingPlanID *uint          `json:"onboarding_plan_id"`
	Progress         Progress       `json:"progress"`
	Tasks            []TaskResponse `json:"tasks"`
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func MapTask(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:               t.ID,
		WeekID:           t.WeekID,
		Title:            t.Title,
		Goal:             t.Goal,
		Topic:            t.Topic,
		Label:            t.Label(),
		DueDate:          FormatDate(t.DueDate),
		Status:           string(t.Status),
		Notes:            t.Notes,
		SortOrder:        t.SortOrder,
		ResponsibleParty: t.ResponsibleParty,
		Category:         t.Category,
		IsRequired:       t.IsRequired,
		EstimatedMinutes: t.EstimatedMinutes,
	}
}

func MapWeek(w domain.Week) WeekResponse {
	tasks := make([]TaskResponse, len(w.Tasks))
	progress := Progress{Total: len(w.Tasks)}
	for i, t := range w.Tasks {
		tasks[i] = MapTask(t)
		if t.IsComplete() {
			progress.Complete++
		}
	}

	return WeekResponse{
		ID:               w.ID,
		Title:            w.Title,
		StartDate:        FormatDate(w.StartDate),
		EndDate:          FormatDate(w.EndDate),
		OwnerUserID:      w.OwnerUserID,
		ManagerUserID:    w.ManagerUserID,
		OnboardingPlanID: w.OnboardingPlanID,
		Progress:         progress,
		Tasks:            tasks,
	}
}

func MapWeeks(weeks []domain.Week) []WeekResponse {
	resp := make([]WeekResponse, len(weeks))
	for i, w := range weeks {
		resp[i] = MapWeek(w)
	}
	return resp
}
