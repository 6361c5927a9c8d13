package rbacerrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrUnknownRole = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown role",
		http.StatusBadRequest,
	)

	ErrPolicyNotLoaded = apperror.New(
		apperror.CodeServiceUnavailable,
		"Access policy is not loaded",
		http.StatusServiceUnavailable,
	)
)
