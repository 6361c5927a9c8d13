// Package domain holds the onboarding plan entities shared by the week,
// task, plan and assignment packages.
package domain

import (
	"time"
)

// TaskDisplayOrder orders tasks by sort_order with NULLs first, then id.
// The CASE keeps NULLs first on every supported database.
const TaskDisplayOrder = "CASE WHEN sort_order IS NULL THEN 0 ELSE 1 END, sort_order ASC, id ASC"

type OnboardingPlan struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null;default:'Onboarding Plan'"`
	Description string `gorm:"type:text"`
	// TemplateID records which template the plan was materialized from.
	// It is provenance only: template edits never reach the plan.
	TemplateID *uint  `gorm:"index"`
	Weeks      []Week `gorm:"foreignKey:OnboardingPlanID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (OnboardingPlan) TableName() string {
	return "onboarding_plans"
}

type Week struct {
	ID        uint       `gorm:"primaryKey"`
	Title     string     `gorm:"size:255;not null;default:'Week'"`
	StartDate *time.Time `gorm:"type:date"`
	EndDate   *time.Time `gorm:"type:date"`

	OwnerUserID *uint `gorm:"index"`
	// ManagerUserID is the owner's manager at creation time. It is not
	// kept in sync with later manager changes.
	ManagerUserID    *uint `gorm:"index"`
	OnboardingPlanID *uint `gorm:"index"`

	Tasks     []Task `gorm:"foreignKey:WeekID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Week) TableName() string {
	return "weeks"
}

type Task struct {
	ID     uint   `gorm:"primaryKey"`
	WeekID uint   `gorm:"not null;index"`
	Title  string `gorm:"size:255"`
	Goal   string `gorm:"size:255"`
	Topic  string `gorm:"type:text"`

	DueDate   *time.Time `gorm:"type:date"`
	Status    TaskStatus `gorm:"size:32;not null;default:'Not Started'"`
	Notes     string     `gorm:"type:text;not null;default:''"`
	SortOrder *int

	ResponsibleParty string `gorm:"size:32"`
	Category         string `gorm:"size:100"`
	IsRequired       bool
	EstimatedMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// Label is what the task shows in lists: the goal, or the title for
// tasks that never had one.
func (t Task) Label() string {
	if t.Goal != "" {
		return t.Goal
	}
	return t.Title
}

func (t Task) IsComplete() bool {
	return t.Status == StatusComplete
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date n days after d.
func AddDays(d time.Time, n int) time.Time {
	return DateOnly(d).AddDate(0, 0, n)
}
