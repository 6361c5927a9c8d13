package template

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindAll(ctx context.Context, status Status) ([]Template, error)
	FindByID(ctx context.Context, id uint) (*Template, error)
	FindByIDWithSections(ctx context.Context, id uint) (*Template, error)
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	// TransitionStatus moves the template from one status to another and
	// stamps column with at. It reports false when the template was not in
	// the from status.
	TransitionStatus(ctx context.Context, id uint, from, to Status, column string, at time.Time) (bool, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)

	FindSection(ctx context.Context, id uint) (*Section, error)
	NextSectionOrder(ctx context.Context, templateID uint) (int, error)
	CreateSection(ctx context.Context, s *Section) error
	UpdateSection(ctx context.Context, s *Section) error
	DeleteSection(ctx context.Context, id uint) error

	FindTask(ctx context.Context, id uint) (*TemplateTask, error)
	NextTaskOrder(ctx context.Context, sectionID uint) (int, error)
	CreateTask(ctx context.Context, t *TemplateTask) error
	UpdateTask(ctx context.Context, t *TemplateTask) error
	DeleteTask(ctx context.Context, id uint) error
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

func byIndex(db *gorm.DB) *gorm.DB {
	return db.Order(OrderByIndex)
}

func (r *repository) FindAll(ctx context.Context, status Status) ([]Template, error) {
	var templates []Template
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("name ASC, id ASC").Find(&templates).Error
	return templates, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Template, error) {
	var t Template
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *repository) FindByIDWithSections(ctx context.Context, id uint) (*Template, error) {
	var t Template
	err := r.db.WithContext(ctx).
		Preload("Sections", byIndex).
		Preload("Sections.Tasks", byIndex).
		First(&t, id).Error
	return &t, err
}

func (r *repository) Create(ctx context.Context, t *Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Update(ctx context.Context, t *Template) error {
	return r.db.WithContext(ctx).
		Model(t).
		Select("Name", "Description", "TargetRole", "Department", "Location", "Tags").
		Updates(t).Error
}

func (r *repository) TransitionStatus(ctx context.Context, id uint, from, to Status, column string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Template{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, column: at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Template{}, id)
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
	err := r.db.WithContext(ctx).Model(&Template{}).Count(&n).Error
	return n, err
}

func (r *repository) FindSection(ctx context.Context, id uint) (*Section, error) {
	var s Section
	err := r.db.WithContext(ctx).Preload("Tasks", byIndex).First(&s, id).Error
	return &s, err
}

func (r *repository) nextOrder(ctx context.Context, model any, column string, id uint) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(model).
		Where(column+" = ?", id).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *repository) NextSectionOrder(ctx context.Context, templateID uint) (int, error) {
	return r.nextOrder(ctx, &Section{}, "template_id", templateID)
}

func (r *repository) CreateSection(ctx context.Context, s *Section) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) UpdateSection(ctx context.Context, s *Section) error {
	return r.db.WithContext(ctx).
		Model(s).
		Select("Title", "Description", "OrderIndex", "OffsetDays").
		Updates(s).Error
}

func (r *repository) DeleteSection(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Section{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindTask(ctx context.Context, id uint) (*TemplateTask, error) {
	var t TemplateTask
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *repository) NextTaskOrder(ctx context.Context, sectionID uint) (int, error) {
	return r.nextOrder(ctx, &TemplateTask{}, "section_id", sectionID)
}

func (r *repository) CreateTask(ctx context.Context, t *TemplateTask) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) UpdateTask(ctx context.Context, t *TemplateTask) error {
	return r.db.WithContext(ctx).
		Model(t).
		Select("Title", "Description", "ResponsibleParty", "DueType", "OffsetDays",
			"SectionDay", "Category", "IsRequired", "DefaultEstimatedMinutes", "OrderIndex").
		Updates(t).Error
}

func (r *repository) DeleteTask(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&TemplateTask{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
