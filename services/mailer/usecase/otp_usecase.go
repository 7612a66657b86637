package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"
)

// otpTTL is how long a generated code stays valid
const otpTTL = 10 * time.Minute

// OTPUsecase defines the one-time-code lifecycle: generate supersedes all
// prior unused codes for the same (owner, purpose); verify consumes a code
// at most once.
type OTPUsecase interface {
	Generate(userID uint, purpose models.OTPPurpose) (string, error)
	// Verify reports whether the submitted code is the live one for
	// (owner, purpose). A wrong, expired or consumed code is false, not an
	// error; errors mean storage failure.
	Verify(userID uint, purpose models.OTPPurpose, code string) (bool, error)
}

type otpUsecase struct {
	otpRepo repository.OTPRepository
	now     func() time.Time
}

// NewOTPUsecase creates a new OTP usecase
func NewOTPUsecase(otpRepo repository.OTPRepository) OTPUsecase {
	return &otpUsecase{
		otpRepo: otpRepo,
		now:     time.Now,
	}
}

// Generate invalidates every unused code for (user, purpose) and issues a
// fresh 6-digit code with a 10-minute expiry
func (u *otpUsecase) Generate(userID uint, purpose models.OTPPurpose) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := u.otpRepo.InvalidateUnused(userID, purpose); err != nil {
		return "", err
	}

	otp := &models.OTP{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: u.now().Add(otpTTL),
	}
	if err := u.otpRepo.Create(otp); err != nil {
		return "", err
	}

	return code, nil
}

// Verify consumes the most recent unused matching code if it has not
// expired. Expired or wrong codes are not consumed.
func (u *otpUsecase) Verify(userID uint, purpose models.OTPPurpose, code string) (bool, error) {
	otp, err := u.otpRepo.LatestUnused(userID, purpose, code)
	if err != nil {
		return false, err
	}
	if otp == nil {
		return false, nil
	}

	// Valid at the expiry instant, invalid after.
	if u.now().After(otp.ExpiresAt) {
		return false, nil
	}

	if err := u.otpRepo.MarkUsed(otp); err != nil {
		return false, err
	}
	return true, nil
}

// randomCode draws a uniformly random 6-digit code
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
