package taskerrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"Task not found",
		http.StatusNotFound,
	)

	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid task ID",
		http.StatusBadRequest,
	)

	ErrGoalRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Goal is required",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid status",
		http.StatusBadRequest,
	)

	ErrInvalidDueDate = apperror.New(
		apperror.CodeInvalidInput,
		"Could not parse due date",
		http.StatusBadRequest,
	)
)
