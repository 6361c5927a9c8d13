package plan

import (
	"time"

	"go-onboarding/internal/domain"
	"go-onboarding/internal/user"
	"go-onboarding/internal/week"
)

type PlanResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	TemplateID  *uint               `json:"template_id"`
	WeekCount   int                 `json:"week_count"`
	Progress    week.Progress       `json:"progress"`
	CreatedAt   time.Time           `json:"created_at"`
	Weeks       []week.WeekResponse `json:"weeks"`
}

type MyPlanResponse struct {
	User user.UserResponse `json:"user"`
	// Plan is null when no plan is assigned yet.
	Plan *PlanResponse `json:"plan"`
}

type OverviewResponse struct {
	Users []user.UserResponse `json:"users"`
	Plans []PlanResponse      `json:"plans"`
}

// MapPlan maps a plan with the given weeks. Pass nil weeks for a summary.
func MapPlan(p domain.OnboardingPlan, weeks []domain.Week) PlanResponse {
	resp := PlanResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TemplateID:  p.TemplateID,
		WeekCount:   len(p.Weeks),
		CreatedAt:   p.CreatedAt,
	}
	if weeks != nil {
		resp.Weeks = week.MapWeeks(weeks)
		resp.WeekCount = len(weeks)
		for _, w := range resp.Weeks {
			resp.Progress.Total += w.Progress.Total
			resp.Progress.Complete += w.Progress.Complete
		}
	}
	return resp
}
