package repository

import (
	"errors"
	"fmt"

	"novamailer/services/mailer/models"
	"novamailer/shared/database"

	"gorm.io/gorm"
)

// OTPRepository defines the interface for one-time-code storage
type OTPRepository interface {
	Create(otp *models.OTP) error
	// InvalidateUnused flags every unused code for (user, purpose) as used,
	// regardless of expiry.
	InvalidateUnused(userID uint, purpose models.OTPPurpose) error
	// LatestUnused returns the most recently created unused code matching
	// (user, purpose, code), or nil when none matches. A wrong code is not
	// an error.
	LatestUnused(userID uint, purpose models.OTPPurpose, code string) (*models.OTP, error)
	MarkUsed(otp *models.OTP) error
}

type otpRepository struct {
	db *database.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *database.DB) OTPRepository {
	return &otpRepository{db: db}
}

// Create inserts a new one-time code
func (r *otpRepository) Create(otp *models.OTP) error {
	if err := r.db.Create(otp).Error; err != nil {
		return fmt.Errorf("failed to create OTP: %w", err)
	}
	return nil
}

// InvalidateUnused flags all unused codes for (user, purpose) as used
func (r *otpRepository) InvalidateUnused(userID uint, purpose models.OTPPurpose) error {
	err := r.db.Model(&models.OTP{}).
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Update("used", true).Error
	if err != nil {
		return fmt.Errorf("failed to invalidate OTPs: %w", err)
	}
	return nil
}

// LatestUnused returns the newest unused matching code, or nil
func (r *otpRepository) LatestUnused(userID uint, purpose models.OTPPurpose, code string) (*models.OTP, error) {
	var otp models.OTP
	err := r.db.Where("user_id = ? AND purpose = ? AND code = ? AND used = ?", userID, purpose, code, false).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up OTP: %w", err)
	}
	return &otp, nil
}

// MarkUsed consumes a code
func (r *otpRepository) MarkUsed(otp *models.OTP) error {
	err := r.db.Model(otp).Update("used", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}
	return nil
}
