package user

import (
	"time"

	"go-onboarding/internal/domain"
)

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"size:255;not null;uniqueIndex"`
	FullName string `gorm:"size:255;not null"`
	Role     string `gorm:"size:32;not null;default:'user'"`

	OnboardingPlanID *uint                  `gorm:"index"`
	OnboardingPlan   *domain.OnboardingPlan `gorm:"foreignKey:OnboardingPlanID;constraint:OnDelete:SET NULL"`

	// ManagerID is a plain reference; reports are found by querying it.
	ManagerID *uint `gorm:"index"`
	Manager   *User `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`

	// PasswordHash is empty for users who cannot log in with a password.
	PasswordHash string `gorm:"size:255" json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
