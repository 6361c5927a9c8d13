package notification

import (
	"time"

	"gorm.io/datatypes"
)

const (
	KindPlanAssigned       = "plan_assigned"
	KindReportPlanAssigned = "report_plan_assigned"
)

type Notification struct {
	ID      uint           `gorm:"primaryKey"`
	UserID  uint           `gorm:"not null;index"`
	Kind    string         `gorm:"size:64;not null"`
	Message string         `gorm:"type:text;not null"`
	Meta    datatypes.JSON `gorm:"type:json"`
	// ReadAt is nil until the recipient marks it read.
	ReadAt    *time.Time
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
