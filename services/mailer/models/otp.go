package models

import (
	"time"

	"novamailer/shared/models"
)

// OTPPurpose identifies the flow a one-time code belongs to
type OTPPurpose string

const (
	OTPPurposeRegistration  OTPPurpose = "registration"
	OTPPurposeLogin         OTPPurpose = "login"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

// OTP represents a single-use numeric verification code bound to an owner
// and a purpose. Rows are never deleted; consumed or superseded codes are
// flagged used.
type OTP struct {
	models.BaseModel
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Code      string     `gorm:"not null;size:6" json:"-"`
	Purpose   OTPPurpose `gorm:"not null;size:20;index" json:"purpose"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
}

func (OTP) TableName() string {
	return "otps"
}
