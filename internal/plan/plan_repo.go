package plan

import (
	"context"

	"go-onboarding/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// Create inserts the plan together with its weeks and their tasks.
	Create(ctx context.Context, p *domain.OnboardingPlan) error
	FindAll(ctx context.Context) ([]domain.OnboardingPlan, error)
	FindByID(ctx context.Context, id uint) (*domain.OnboardingPlan, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, p *domain.OnboardingPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindAll loads week ids only, enough for week counts.
func (r *repository) FindAll(ctx context.Context) ([]domain.OnboardingPlan, error) {
	var plans []domain.OnboardingPlan
	err := r.db.WithContext(ctx).
		Preload("Weeks", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "onboarding_plan_id")
		}).
		Order("id ASC").
		Find(&plans).Error
	return plans, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*domain.OnboardingPlan, error) {
	var p domain.OnboardingPlan
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.OnboardingPlan{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OnboardingPlan{}).Count(&n).Error
	return n, err
}
