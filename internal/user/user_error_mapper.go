package user

import (
	"errors"
	"strings"

	usererrors "go-onboarding/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return usererrors.ErrUserAlreadyExists
	}

	// mysql and sqlite only surface the violation in the message.
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed: users.email") ||
		(strings.Contains(errMsg, "duplicate entry") && strings.Contains(errMsg, "email")) {
		return usererrors.ErrUserAlreadyExists
	}

	return err
}
