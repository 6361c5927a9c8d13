package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// FindByUser returns newest first; unreadOnly skips read ones.
	FindByUser(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error)
	// MarkRead scopes the update to the recipient so another user's id
	// reads as not found.
	MarkRead(ctx context.Context, userID, id uint, at time.Time) (*Notification, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByUser(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var ns []Notification
	err := q.Order("created_at DESC, id DESC").Find(&ns).Error
	return ns, err
}

func (r *repository) MarkRead(ctx context.Context, userID, id uint, at time.Time) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
			return err
		}
		if n.ReadAt != nil {
			return nil
		}
		n.ReadAt = &at
		return tx.Model(&n).Update("read_at", at).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}
