package task

import (
	"context"
	"database/sql"

	"go-onboarding/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, id uint) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	// MaxSortOrder is the largest non-null sort order in the week, or nil.
	MaxSortOrder(ctx context.Context, weekID uint) (*int, error)
	UpdateColumns(ctx context.Context, id uint, values map[string]any) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *repository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) MaxSortOrder(ctx context.Context, weekID uint) (*int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("MAX(sort_order)").
		Where("week_id = ?", weekID).
		Scan(&max).Error
	if err != nil || !max.Valid {
		return nil, err
	}
	v := int(max.Int64)
	return &v, nil
}

func (r *repository) UpdateColumns(ctx context.Context, id uint, values map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(values).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Task{}, id)
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
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Count(&n).Error
	return n, err
}
