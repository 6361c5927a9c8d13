package app

import (
	"go-onboarding/internal/domain"
	"go-onboarding/internal/messaging/kafka"
	"go-onboarding/internal/notification"
	"go-onboarding/internal/rbac"
	"go-onboarding/internal/template"
	"go-onboarding/internal/user"

	"gorm.io/gorm"
)

// Models lists every table, parents before children.
func Models() []any {
	return []any{
		&domain.OnboardingPlan{},
		&user.User{},
		&domain.Week{},
		&domain.Task{},
		&template.Template{},
		&template.Section{},
		&template.TemplateTask{},
		&notification.Notification{},
		&kafka.OutboxEvent{},
		&rbac.RolePermission{},
	}
}

// Migrate creates or updates all tables in one pass so foreign keys
// between them are created together.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
