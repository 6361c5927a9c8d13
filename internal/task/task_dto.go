package task

import "go-onboarding/internal/week"

// Requests bind from JSON or form posts.

type CreateTaskRequest struct {
	Goal  string `json:"goal" form:"goal"`
	Topic string `json:"topic" form:"topic"`
	Title string `json:"title" form:"title"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" form:"notes"`
}

type UpdateDueDateRequest struct {
	DueDate string `json:"due_date" form:"due_date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" form:"status"`
}

type DueDateResponse struct {
	Task week.TaskResponse `json:"task"`
	// Adjusted is true when a weekend date was moved to Monday.
	Adjusted bool `json:"adjusted"`
}
