package week

import (
	"context"

	"go-onboarding/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// FindAll returns the weeks matching scope with their tasks, ordered by
	// start date then id.
	FindAll(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]domain.Week, error)
	FindByID(ctx context.Context, id uint) (*domain.Week, error)
	FindByIDWithTasks(ctx context.Context, id uint) (*domain.Week, error)
	FindByPlan(ctx context.Context, planID uint, scope func(*gorm.DB) *gorm.DB) ([]domain.Week, error)
	Create(ctx context.Context, w *domain.Week) error
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

func preloadTasks(db *gorm.DB) *gorm.DB {
	return db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order(domain.TaskDisplayOrder)
	})
}

func (r *repository) FindAll(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]domain.Week, error) {
	var weeks []domain.Week
	err := r.db.WithContext(ctx).
		Scopes(scope, preloadTasks).
		Order("CASE WHEN weeks.start_date IS NULL THEN 1 ELSE 0 END, weeks.start_date ASC, weeks.id ASC").
		Find(&weeks).Error
	return weeks, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*domain.Week, error) {
	var w domain.Week
	err := r.db.WithContext(ctx).First(&w, id).Error
	return &w, err
}

func (r *repository) FindByIDWithTasks(ctx context.Context, id uint) (*domain.Week, error) {
	var w domain.Week
	err := r.db.WithContext(ctx).
		Scopes(preloadTasks).
		First(&w, id).Error
	return &w, err
}

func (r *repository) FindByPlan(ctx context.Context, planID uint, scope func(*gorm.DB) *gorm.DB) ([]domain.Week, error) {
	var weeks []domain.Week
	err := r.db.WithContext(ctx).
		Scopes(scope, preloadTasks).
		Where("weeks.onboarding_plan_id = ?", planID).
		Order("CASE WHEN weeks.start_date IS NULL THEN 1 ELSE 0 END, weeks.start_date ASC, weeks.id ASC").
		Find(&weeks).Error
	return weeks, err
}

func (r *repository) Create(ctx context.Context, w *domain.Week) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Week{}, id)
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
	err := r.db.WithContext(ctx).Model(&domain.Week{}).Count(&n).Error
	return n, err
}
