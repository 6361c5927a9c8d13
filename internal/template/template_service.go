package template

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-onboarding/internal/access"
	"go-onboarding/internal/bootstrap"
	"go-onboarding/internal/shared/contextutil"
	templateerrors "go-onboarding/internal/template/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, status string) ([]TemplateResponse, error)
	Get(ctx context.Context, id uint) (TemplateResponse, error)
	Create(ctx context.Context, p access.Principal, req CreateTemplateRequest) (TemplateResponse, error)
	Update(ctx context.Context, id uint, req UpdateTemplateRequest) (TemplateResponse, error)
	Delete(ctx context.Context, id uint) error
	Publish(ctx context.Context, p access.Principal, id uint) (TemplateResponse, error)
	Retire(ctx context.Context, p access.Principal, id uint) (TemplateResponse, error)

	AddSection(ctx context.Context, templateID uint, req SectionRequest) (SectionResponse, error)
	UpdateSection(ctx context.Context, templateID, sectionID uint, req SectionRequest) (SectionResponse, error)
	DeleteSection(ctx context.Context, templateID, sectionID uint) error

	AddTask(ctx context.Context, templateID, sectionID uint, req TaskRequest) (TemplateTaskResponse, error)
	UpdateTask(ctx context.Context, templateID, sectionID, taskID uint, req TaskRequest) (TemplateTaskResponse, error)
	DeleteTask(ctx context.Context, templateID, sectionID, taskID uint) error
}

type service struct {
	repo   Repository
	audit  bootstrap.AuditLogger
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, audit bootstrap.AuditLogger, logger ...*zap.Logger) Service {
	l := zap.L().Named("template.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("template.service")
	}
	if audit == nil {
		audit = bootstrap.NopAuditLogger{}
	}
	return &service{repo: repo, audit: audit, now: time.Now, logger: l}
}

func mapRepositoryError(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func (s *service) List(ctx context.Context, status string) ([]TemplateResponse, error) {
	var filter Status
	if status != "" {
		st, ok := ParseStatus(strings.ToLower(strings.TrimSpace(status)))
		if !ok {
			return nil, templateerrors.ErrInvalidTemplateStatus
		}
		filter = st
	}

	templates, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, MapTemplate(t))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id uint) (TemplateResponse, error) {
	t, err := s.repo.FindByIDWithSections(ctx, id)
	if err != nil {
		return TemplateResponse{}, mapRepositoryError(err, templateerrors.ErrTemplateNotFound)
	}
	resp := MapTemplate(*t)
	if resp.Sections == nil {
		resp.Sections = []SectionResponse{}
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, p access.Principal, req CreateTemplateRequest) (TemplateResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return TemplateResponse{}, templateerrors.ErrNameRequired
	}

	t := &Template{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Status:      StatusDraft,
		TargetRole:  strings.TrimSpace(req.TargetRole),
		Department:  strings.TrimSpace(req.Department),
		Location:    strings.TrimSpace(req.Location),
		Tags:        encodeTags(req.Tags),
		CreatedByID: p.UserID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create template failed", zap.String("request_id", contextutil.GetRequestID(ctx)), zap.Error(err))
		return TemplateResponse{}, err
	}

	s.logger.Info("create template success",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Uint("template_id", t.ID),
	)
	return MapTemplate(*t), nil
}

// editableTemplate loads a template and rejects anything but a draft.
func (s *service) editableTemplate(ctx context.Context, id uint) (*Template, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, templateerrors.ErrTemplateNotFound)
	}
	if !t.Editable() {
		return nil, templateerrors.ErrTemplateNotEditable.WithDetails(map[string]any{"status": t.Status})
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateTemplateRequest) (TemplateResponse, error) {
	t, err := s.editableTemplate(ctx, id)
	if err != nil {
		return TemplateResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return TemplateResponse{}, templateerrors.ErrNameRequired
		}
		t.Name = name
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.TargetRole != nil {
		t.TargetRole = strings.TrimSpace(*req.TargetRole)
	}
	if req.Department != nil {
		t.Department = strings.TrimSpace(*req.Department)
	}
	if req.Location != nil {
		t.Location = strings.TrimSpace(*req.Location)
	}
	if req.Tags != nil {
		t.Tags = encodeTags(*req.Tags)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return TemplateResponse{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes drafts and retired templates. A published template must
// be retired first.
func (s *service) Delete(ctx context.Context, id uint) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err, templateerrors.ErrTemplateNotFound)
	}
	if t.Status == StatusPublished {
		return templateerrors.ErrTemplateNotEditable.WithDetails(map[string]any{"status": t.Status})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err, templateerrors.ErrTemplateNotFound)
	}

	s.logger.Info("delete template success",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Uint("template_id", id),
	)
	return nil
}

func (s *service) Publish(ctx context.Context, p access.Principal, id uint) (TemplateResponse, error) {
	return s.transition(ctx, p, id, StatusDraft, StatusPublished, "published_at")
}

func (s *service) Retire(ctx context.Context, p access.Principal, id uint) (TemplateResponse, error) {
	return s.transition(ctx, p, id, StatusPublished, StatusRetired, "retired_at")
}

// transition allows only draft -> published -> retired.
func (s *service) transition(ctx context.Context, p access.Principal, id uint, from, to Status, column string) (TemplateResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TemplateResponse{}, mapRepositoryError(err, templateerrors.ErrTemplateNotFound)
	}

	invalid := templateerrors.ErrInvalidStatusTransition.WithDetails(map[string]any{
		"from": t.Status,
		"to":   to,
	})
	if t.Status != from {
		return TemplateResponse{}, invalid
	}

	ok, err := s.repo.TransitionStatus(ctx, id, from, to, column, s.now().UTC())
	if err != nil {
		s.logger.Error("template status transition failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Uint("template_id", id),
			zap.Error(err),
		)
		return TemplateResponse{}, err
	}
	if !ok {
		// lost a race with another transition
		return TemplateResponse{}, invalid
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "TEMPLATE_" + strings.ToUpper(string(to)),
		Message: "Template status changed",
		Meta: map[string]any{
			"template_id": id,
			"from":        from,
			"to":          to,
			"by_user_id":  p.IDString(),
			"by_role":     p.Role,
		},
	})

	return s.Get(ctx, id)
}

func (s *service) AddSection(ctx context.Context, templateID uint, req SectionRequest) (SectionResponse, error) {
	if _, err := s.editableTemplate(ctx, templateID); err != nil {
		return SectionResponse{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return SectionResponse{}, templateerrors.ErrTitleRequired
	}

	order := req.OrderIndex
	if order == nil {
		next, err := s.repo.NextSectionOrder(ctx, templateID)
		if err != nil {
			return SectionResponse{}, err
		}
		order = &next
	}

	sec := &Section{
		TemplateID:  templateID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		OrderIndex:  order,
		OffsetDays:  req.OffsetDays,
	}
	if err := s.repo.CreateSection(ctx, sec); err != nil {
		return SectionResponse{}, err
	}
	return MapSection(*sec), nil
}

// sectionOf loads a section of an editable template.
func (s *service) sectionOf(ctx context.Context, templateID, sectionID uint) (*Section, error) {
	if _, err := s.editableTemplate(ctx, templateID); err != nil {
		return nil, err
	}
	sec, err := s.repo.FindSection(ctx, sectionID)
	if err != nil {
		return nil, mapRepositoryError(err, templateerrors.ErrSectionNotFound)
	}
	if sec.TemplateID != templateID {
		return nil, templateerrors.ErrSectionNotFound
	}
	return sec, nil
}

func (s *service) UpdateSection(ctx context.Context, templateID, sectionID uint, req SectionRequest) (SectionResponse, error) {
	sec, err := s.sectionOf(ctx, templateID, sectionID)
	if err != nil {
		return SectionResponse{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return SectionResponse{}, templateerrors.ErrTitleRequired
	}
	sec.Title = title
	sec.Description = strings.TrimSpace(req.Description)
	if req.OrderIndex != nil {
		sec.OrderIndex = req.OrderIndex
	}
	sec.OffsetDays = req.OffsetDays

	if err := s.repo.UpdateSection(ctx, sec); err != nil {
		return SectionResponse{}, err
	}
	return MapSection(*sec), nil
}

func (s *service) DeleteSection(ctx context.Context, templateID, sectionID uint) error {
	if _, err := s.sectionOf(ctx, templateID, sectionID); err != nil {
		return err
	}
	return mapRepositoryError(s.repo.DeleteSection(ctx, sectionID), templateerrors.ErrSectionNotFound)
}

// applyTaskRequest validates req and copies it onto t.
func applyTaskRequest(t *TemplateTask, req TaskRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return templateerrors.ErrTitleRequired
	}

	party := ResponsibleParty(strings.TrimSpace(req.ResponsibleParty))
	switch party {
	case "":
		party = PartyNewHire
	case PartyNewHire, PartyManager, PartyOther:
	default:
		return templateerrors.ErrInvalidResponsibleParty.WithDetails(map[string]any{
			"allowed": []ResponsibleParty{PartyNewHire, PartyManager, PartyOther},
		})
	}

	dueType := DueType(strings.TrimSpace(req.DueType))
	switch dueType {
	case "":
		dueType = DueDaysFromStart
	case DueDaysFromStart, DueDayWithinSection:
	default:
		return templateerrors.ErrInvalidDueType.WithDetails(map[string]any{
			"allowed": []DueType{DueDaysFromStart, DueDayWithinSection},
		})
	}

	if req.SectionDay != nil && *req.SectionDay < 1 {
		return templateerrors.ErrInvalidSectionDay
	}

	t.Title = title
	t.Description = strings.TrimSpace(req.Description)
	t.ResponsibleParty = party
	t.DueType = dueType
	t.OffsetDays = req.OffsetDays
	t.SectionDay = req.SectionDay
	t.Category = strings.TrimSpace(req.Category)
	t.IsRequired = req.IsRequired
	t.DefaultEstimatedMinutes = req.DefaultEstimatedMinutes
	if req.OrderIndex != nil {
		t.OrderIndex = req.OrderIndex
	}
	return nil
}

func (s *service) AddTask(ctx context.Context, templateID, sectionID uint, req TaskRequest) (TemplateTaskResponse, error) {
	if _, err := s.sectionOf(ctx, templateID, sectionID); err != nil {
		return TemplateTaskResponse{}, err
	}

	t := &TemplateTask{SectionID: sectionID}
	if err := applyTaskRequest(t, req); err != nil {
		return TemplateTaskResponse{}, err
	}
	if t.OrderIndex == nil {
		next, err := s.repo.NextTaskOrder(ctx, sectionID)
		if err != nil {
			return TemplateTaskResponse{}, err
		}
		t.OrderIndex = &next
	}

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return TemplateTaskResponse{}, err
	}
	return MapTemplateTask(*t), nil
}

func (s *service) taskOf(ctx context.Context, templateID, sectionID, taskID uint) (*TemplateTask, error) {
	if _, err := s.sectionOf(ctx, templateID, sectionID); err != nil {
		return nil, err
	}
	t, err := s.repo.FindTask(ctx, taskID)
	if err != nil {
		return nil, mapRepositoryError(err, templateerrors.ErrTemplateTaskNotFound)
	}
	if t.SectionID != sectionID {
		return nil, templateerrors.ErrTemplateTaskNotFound
	}
	return t, nil
}

func (s *service) UpdateTask(ctx context.Context, templateID, sectionID, taskID uint, req TaskRequest) (TemplateTaskResponse, error) {
	t, err := s.taskOf(ctx, templateID, sectionID, taskID)
	if err != nil {
		return TemplateTaskResponse{}, err
	}
	if err := applyTaskRequest(t, req); err != nil {
		return TemplateTaskResponse{}, err
	}
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return TemplateTaskResponse{}, err
	}
	return MapTemplateTask(*t), nil
}

func (s *service) DeleteTask(ctx context.Context, templateID, sectionID, taskID uint) error {
	if _, err := s.taskOf(ctx, templateID, sectionID, taskID); err != nil {
		return err
	}
	return mapRepositoryError(s.repo.DeleteTask(ctx, taskID), templateerrors.ErrTemplateTaskNotFound)
}
