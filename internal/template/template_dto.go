package template

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type CreateTemplateRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	TargetRole  string   `json:"target_role" binding:"max=100"`
	Department  string   `json:"department" binding:"max=100"`
	Location    string   `json:"location" binding:"max=100"`
	Tags        []string `json:"tags"`
}

// UpdateTemplateRequest changes only the fields that are present.
type UpdateTemplateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=255"`
	Description *string   `json:"description"`
	TargetRole  *string   `json:"target_role" binding:"omitempty,max=100"`
	Department  *string   `json:"department" binding:"omitempty,max=100"`
	Location    *string   `json:"location" binding:"omitempty,max=100"`
	Tags        *[]string `json:"tags"`
}

type SectionRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	OrderIndex  *int   `json:"order_index" binding:"omitempty,min=1"`
	OffsetDays  *int   `json:"offset_days"`
}

type TaskRequest struct {
	Title                   string `json:"title" binding:"required,max=255"`
	Description             string `json:"description"`
	ResponsibleParty        string `json:"responsible_party"`
	DueType                 string `json:"due_type"`
	OffsetDays              *int   `json:"offset_days"`
	SectionDay              *int   `json:"section_day"`
	Category                string `json:"category" binding:"max=100"`
	IsRequired              bool   `json:"is_required"`
	DefaultEstimatedMinutes *int   `json:"default_estimated_minutes" binding:"omitempty,min=0"`
	OrderIndex              *int   `json:"order_index" binding:"omitempty,min=1"`
}

type TemplateTaskResponse struct {
	ID                      uint   `json:"id"`
	SectionID               uint   `json:"section_id"`
	Title                   string `json:"title"`
	Description             string `json:"description"`
	ResponsibleParty        string `json:"responsible_party"`
	DueType                 string `json:"due_type"`
	OffsetDays              *int   `json:"offset_days"`
	SectionDay              *int   `json:"section_day"`
	Category                string `json:"category"`
	IsRequired              bool   `json:"is_required"`
	DefaultEstimatedMinutes *int   `json:"default_estimated_minutes"`
	OrderIndex              *int   `json:"order_index"`
}

type SectionResponse struct {
	ID          uint                   `json:"id"`
	TemplateID  uint                   `json:"template_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	OrderIndex  *int                   `json:"order_index"`
	OffsetDays  *int                   `json:"offset_days"`
	Tasks       []TemplateTaskResponse `json:"tasks"`
}

type TemplateResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	TargetRole  string            `json:"target_role"`
	Department  string            `json:"department"`
	Location    string            `json:"location"`
	Tags        []string          `json:"tags"`
	CreatedByID *uint             `json:"created_by_id"`
	PublishedAt *time.Time        `json:"published_at"`
	RetiredAt   *time.Time        `json:"retired_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Sections    []SectionResponse `json:"sections,omitempty"`
}

func encodeTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return datatypes.JSON(b)
}

func decodeTags(raw datatypes.JSON) []string {
	tags := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &tags)
	}
	return tags
}

func MapTemplateTask(t TemplateTask) TemplateTaskResponse {
	return TemplateTaskResponse{
		ID:                      t.ID,
		SectionID:               t.SectionID,
		Title:                   t.Title,
		Description:             t.Description,
		ResponsibleParty:        string(t.ResponsibleParty),
		DueType:                 string(t.DueType),
		OffsetDays:              t.OffsetDays,
		SectionDay:              t.SectionDay,
		Category:                t.Category,
		IsRequired:              t.IsRequired,
		DefaultEstimatedMinutes: t.DefaultEstimatedMinutes,
		OrderIndex:              t.OrderIndex,
	}
}

func MapSection(s Section) SectionResponse {
	tasks := SortedTasks(s.Tasks)
	resp := SectionResponse{
		ID:          s.ID,
		TemplateID:  s.TemplateID,
		Title:       s.Title,
		Description: s.Description,
		OrderIndex:  s.OrderIndex,
		OffsetDays:  s.OffsetDays,
		Tasks:       make([]TemplateTaskResponse, 0, len(tasks)),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, MapTemplateTask(t))
	}
	return resp
}

// MapTemplate includes sections only when they were loaded.
func MapTemplate(t Template) TemplateResponse {
	resp := TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		TargetRole:  t.TargetRole,
		Department:  t.Department,
		Location:    t.Location,
		Tags:        decodeTags(t.Tags),
		CreatedByID: t.CreatedByID,
		PublishedAt: t.PublishedAt,
		RetiredAt:   t.RetiredAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, s := range SortedSections(t.Sections) {
		resp.Sections = append(resp.Sections, MapSection(s))
	}
	return resp
}
