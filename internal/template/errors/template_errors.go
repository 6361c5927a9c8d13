package templateerrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"Template not found",
		http.StatusNotFound,
	)

	ErrSectionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Template section not found",
		http.StatusNotFound,
	)

	ErrTemplateTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"Template task not found",
		http.StatusNotFound,
	)

	ErrInvalidTemplateID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid template ID",
		http.StatusBadRequest,
	)

	ErrInvalidSectionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid section ID",
		http.StatusBadRequest,
	)

	ErrInvalidTemplateTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid template task ID",
		http.StatusBadRequest,
	)

	ErrNameRequired  = apperror.RequiredField("Name")
	ErrTitleRequired = apperror.RequiredField("Title")

	ErrInvalidTemplateStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid template status",
		http.StatusBadRequest,
	)

	ErrInvalidResponsibleParty = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid responsible party",
		http.StatusBadRequest,
	)

	ErrInvalidDueType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid due type",
		http.StatusBadRequest,
	)

	ErrInvalidSectionDay = apperror.New(
		apperror.CodeInvalidInput,
		"Section day must be 1 or greater",
		http.StatusBadRequest,
	)

	ErrTemplateNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"Only draft templates can be edited",
		http.StatusConflict,
	)

	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidInput,
		"Template status transition is not allowed",
		http.StatusBadRequest,
	)
)
