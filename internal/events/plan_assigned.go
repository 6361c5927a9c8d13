package events

import "time"

const (
	PlanAssignedTopic     = "onboarding.plan.assigned.v1"
	PlanAssignedEventType = "plan_assigned"
)

type PlanAssignedEvent struct {
	EventType  string    `json:"event_type"`
	PlanID     uint      `json:"plan_id"`
	PlanName   string    `json:"plan_name"`
	TemplateID uint      `json:"template_id"`
	EmployeeID uint      `json:"employee_id"`
	ManagerID  *uint     `json:"manager_id,omitempty"`
	StartDate  string    `json:"start_date"`
	WeekCount  int       `json:"week_count"`
	AssignedBy string    `json:"assigned_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
