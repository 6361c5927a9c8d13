package planerrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrPlanNotFound = apperror.New(
		apperror.CodeNotFound,
		"Onboarding plan not found",
		http.StatusNotFound,
	)

	ErrInvalidPlanID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid plan ID",
		http.StatusBadRequest,
	)

	ErrCurrentUserRequired = apperror.New(
		apperror.CodeUnauthorized,
		"A current user is required",
		http.StatusUnauthorized,
	)
)
