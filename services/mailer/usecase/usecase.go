package usecase

import (
	"errors"

	"novamailer/services/mailer/apperrors"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
