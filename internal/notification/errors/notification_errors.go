package notificationerrors

import (
	"net/http"

	"go-onboarding/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)

	ErrInvalidNotificationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid notification ID",
		http.StatusBadRequest,
	)

	ErrRecipientRequired = apperror.New(
		apperror.CodeUnauthorized,
		"Notifications require an identified user",
		http.StatusUnauthorized,
	)

	ErrMessageRequired = apperror.RequiredField("message")
)
