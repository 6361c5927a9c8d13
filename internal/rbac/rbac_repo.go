package rbac

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListRolePermissions(ctx context.Context) ([]RolePermission, error)
	// EnsureDefaults inserts any of perms that are missing and leaves the
	// rest untouched.
	EnsureDefaults(ctx context.Context, perms []RolePermission) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRolePermissions(ctx context.Context) ([]RolePermission, error) {
	var result []RolePermission
	err := r.db.WithContext(ctx).
		Order("role, resource, action").
		Find(&result).Error
	return result, err
}

func (r *repository) EnsureDefaults(ctx context.Context, perms []RolePermission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range perms {
			row := RolePermission{Role: p.Role, Resource: p.Resource, Action: p.Action}
			if err := tx.
				Where("role = ? AND resource = ? AND action = ?", p.Role, p.Resource, p.Action).
				FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
