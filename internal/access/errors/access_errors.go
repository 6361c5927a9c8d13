package accesserrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrWeekForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have access to this week",
		http.StatusForbidden,
	)
	ErrRoleRequired = apperror.New(
		apperror.CodeForbidden,
		"Your role does not allow this action",
		http.StatusForbidden,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be one of user, manager, builder, admin",
		http.StatusBadRequest,
	)
)
