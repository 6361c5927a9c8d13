package weekerrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrWeekNotFound = apperror.New(
		apperror.CodeNotFound,
		"Week not found",
		http.StatusNotFound,
	)

	ErrInvalidWeekID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid week ID",
		http.StatusBadRequest,
	)

	ErrInvalidStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrInvalidEndDate = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be YYYY-MM-DD and not before start_date",
		http.StatusBadRequest,
	)

	ErrOwnerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Owner user does not exist",
		http.StatusBadRequest,
	)
)
