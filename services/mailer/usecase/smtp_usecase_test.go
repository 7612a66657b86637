package usecase

import (
	"testing"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSMTPFixture(t *testing.T) SMTPUsecase {
	t.Helper()
	db := setupTestDB(t)
	return NewSMTPUsecase(repository.NewSMTPRepository(db))
}

func TestSMTPUpsertCreate(t *testing.T) {
	u := newSMTPFixture(t)

	cfg, err := u.Upsert(1, &models.SMTPConfigRequest{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		Password:  "secret",
		FromEmail: "noreply@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.Host)
	assert.Equal(t, 587, cfg.Port)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, uint(1), cfg.UserID)
}

func TestSMTPUpsertCreateRequiresPassword(t *testing.T) {
	u := newSMTPFixture(t)

	_, err := u.Upsert(1, &models.SMTPConfigRequest{
		Host:      "smtp.example.com",
		Port:      587,
		FromEmail: "noreply@example.com",
	})
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSMTPUpsertBlankPasswordKeepsExisting(t *testing.T) {
	u := newSMTPFixture(t)

	_, err := u.Upsert(1, &models.SMTPConfigRequest{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		Password:  "original",
		FromEmail: "noreply@example.com",
	})
	require.NoError(t, err)

	// Update everything except the password.
	cfg, err := u.Upsert(1, &models.SMTPConfigRequest{
		Host:      "smtp.other.com",
		Port:      465,
		Username:  "mailer2",
		FromEmail: "other@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.other.com", cfg.Host)
	assert.Equal(t, 465, cfg.Port)
	assert.Equal(t, "original", cfg.Password)

	// And supplying a password replaces it.
	cfg, err = u.Upsert(1, &models.SMTPConfigRequest{
		Host:      "smtp.other.com",
		Port:      465,
		Username:  "mailer2",
		Password:  "rotated",
		FromEmail: "other@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "rotated", cfg.Password)
}

func TestSMTPGet(t *testing.T) {
	u := newSMTPFixture(t)

	_, err := u.Get(1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = u.Upsert(1, &models.SMTPConfigRequest{
		Host:      "smtp.example.com",
		Port:      587,
		Password:  "secret",
		FromEmail: "noreply@example.com",
	})
	require.NoError(t, err)

	cfg, err := u.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", cfg.Host)

	// Still scoped per user.
	_, err = u.Get(2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
