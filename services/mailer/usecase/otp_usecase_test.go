package usecase

import (
	"testing"
	"time"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOTPFixture(t *testing.T) (*otpUsecase, repository.OTPRepository) {
	t.Helper()

	db := setupTestDB(t)
	repo := repository.NewOTPRepository(db)
	u := &otpUsecase{otpRepo: repo, now: time.Now}
	return u, repo
}

func TestOTPGenerateAndVerify(t *testing.T) {
	u, _ := newOTPFixture(t)

	code, err := u.Generate(1, models.OTPPurposeRegistration)
	require.NoError(t, err)
	require.Len(t, code, 6)

	ok, err := u.Verify(1, models.OTPPurposeRegistration, code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPVerifyWrongCode(t *testing.T) {
	u, _ := newOTPFixture(t)

	code, err := u.Generate(1, models.OTPPurposeRegistration)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	ok, err := u.Verify(1, models.OTPPurposeRegistration, wrong)
	require.NoError(t, err)
	assert.False(t, ok)

	// The right code is still live after a failed attempt.
	ok, err = u.Verify(1, models.OTPPurposeRegistration, code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPSingleUse(t *testing.T) {
	u, _ := newOTPFixture(t)

	code, err := u.Generate(1, models.OTPPurposeLogin)
	require.NoError(t, err)

	ok, err := u.Verify(1, models.OTPPurposeLogin, code)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = u.Verify(1, models.OTPPurposeLogin, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPGenerateInvalidatesPrevious(t *testing.T) {
	u, _ := newOTPFixture(t)

	first, err := u.Generate(1, models.OTPPurposePasswordReset)
	require.NoError(t, err)

	second, err := u.Generate(1, models.OTPPurposePasswordReset)
	require.NoError(t, err)

	ok, err := u.Verify(1, models.OTPPurposePasswordReset, first)
	require.NoError(t, err)
	assert.False(t, ok, "superseded code must not verify")

	ok, err = u.Verify(1, models.OTPPurposePasswordReset, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPScopedToUserAndPurpose(t *testing.T) {
	u, _ := newOTPFixture(t)

	code, err := u.Generate(1, models.OTPPurposeRegistration)
	require.NoError(t, err)

	ok, err := u.Verify(2, models.OTPPurposeRegistration, code)
	require.NoError(t, err)
	assert.False(t, ok, "another user's code must not verify")

	ok, err = u.Verify(1, models.OTPPurposeLogin, code)
	require.NoError(t, err)
	assert.False(t, ok, "code issued for another purpose must not verify")

	ok, err = u.Verify(1, models.OTPPurposeRegistration, code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPExpiry(t *testing.T) {
	u, _ := newOTPFixture(t)

	// Whole-second base so the stored expiry survives the database's
	// timestamp precision.
	issued := time.Now().Truncate(time.Second)
	u.now = func() time.Time { return issued }

	code, err := u.Generate(1, models.OTPPurposeLogin)
	require.NoError(t, err)

	// Valid exactly at the expiry instant.
	u.now = func() time.Time { return issued.Add(10 * time.Minute) }
	ok, err := u.Verify(1, models.OTPPurposeLogin, code)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second code, checked one second past its expiry.
	u.now = func() time.Time { return issued }
	code, err = u.Generate(1, models.OTPPurposeLogin)
	require.NoError(t, err)

	u.now = func() time.Time { return issued.Add(10*time.Minute + time.Second) }
	ok, err = u.Verify(1, models.OTPPurposeLogin, code)
	require.NoError(t, err)
	assert.False(t, ok)
}
