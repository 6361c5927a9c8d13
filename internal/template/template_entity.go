package template

import (
	"sort"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusRetired   Status = "retired"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusPublished, StatusRetired:
		return Status(s), true
	}
	return "", false
}

type ResponsibleParty string

const (
	PartyNewHire ResponsibleParty = "New Hire"
	PartyManager ResponsibleParty = "Manager"
	PartyOther   ResponsibleParty = "Other"
)

type DueType string

const (
	DueDaysFromStart    DueType = "days_from_start"
	DueDayWithinSection DueType = "day_within_section"
)

// OrderByIndex is the display order for sections and template tasks.
// A missing order_index sorts as 0.
const OrderByIndex = "COALESCE(order_index, 0) ASC, id ASC"

type Template struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Status      Status `gorm:"size:16;not null;default:'draft';index"`

	TargetRole string `gorm:"size:100"`
	Department string `gorm:"size:100"`
	Location   string `gorm:"size:100"`
	Tags       datatypes.JSON

	CreatedByID *uint     `gorm:"index"`
	Sections    []Section `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`

	PublishedAt *time.Time
	RetiredAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Template) TableName() string {
	return "onboarding_templates"
}

func (t Template) Editable() bool {
	return t.Status == StatusDraft
}

type Section struct {
	ID          uint   `gorm:"primaryKey"`
	TemplateID  uint   `gorm:"not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	// OrderIndex is 1-based.
	OrderIndex *int
	// OffsetDays is the number of days after the plan start the section begins.
	OffsetDays *int

	Tasks     []TemplateTask `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Section) TableName() string {
	return "template_sections"
}

type TemplateTask struct {
	ID               uint             `gorm:"primaryKey"`
	SectionID        uint             `gorm:"not null;index"`
	Title            string           `gorm:"size:255;not null"`
	Description      string           `gorm:"type:text"`
	ResponsibleParty ResponsibleParty `gorm:"size:32;not null;default:'New Hire'"`
	DueType          DueType          `gorm:"size:32;not null;default:'days_from_start'"`
	// OffsetDays applies to days_from_start, SectionDay (1-based) to
	// day_within_section.
	OffsetDays              *int
	SectionDay              *int
	Category                string `gorm:"size:100"`
	IsRequired              bool   `gorm:"not null;default:false"`
	DefaultEstimatedMinutes *int
	OrderIndex              *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TemplateTask) TableName() string {
	return "template_tasks"
}

func orderKey(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// SortedSections returns a copy ordered by (order_index, id).
func SortedSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := orderKey(out[i].OrderIndex), orderKey(out[j].OrderIndex)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortedTasks returns a copy ordered by (order_index, id).
func SortedTasks(tasks []TemplateTask) []TemplateTask {
	out := make([]TemplateTask, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := orderKey(out[i].OrderIndex), orderKey(out[j].OrderIndex)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}
