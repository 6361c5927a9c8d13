package assignmenterrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrTemplateNotPublished = apperror.New(
		apperror.CodePreconditionFailed,
		"Only published templates can be assigned",
		http.StatusBadRequest,
	)

	ErrInvalidStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid start_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
