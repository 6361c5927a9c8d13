package assignment

import (
	"go-onboarding/internal/plan"
)

// AssignRequest binds from JSON or a form post.
type AssignRequest struct {
	TemplateID uint   `json:"template_id" form:"template_id" binding:"required"`
	EmployeeID uint   `json:"employee_id" form:"employee_id" binding:"required"`
	StartDate  string `json:"start_date" form:"start_date" binding:"required"`
}

// AssignResponse carries the new plan; Plan.Weeks is in section order.
type AssignResponse struct {
	Plan       plan.PlanResponse `json:"plan"`
	EmployeeID uint              `json:"employee_id"`
	// HasWeeks is false for a template without sections; clients fall
	// back to a generic landing page.
	HasWeeks bool `json:"has_weeks"`
}
