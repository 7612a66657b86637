package models

import (
	"novamailer/shared/models"
)

// User represents an account that owns campaigns and SMTP configuration
type User struct {
	models.BaseModel
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	FullName         string `json:"full_name,omitempty"`
	HashedPassword   string `gorm:"not null" json:"-"`
	IsActive         bool   `gorm:"not null;default:true" json:"is_active"`
	EmailVerified    bool   `gorm:"not null;default:false" json:"email_verified"`
	TwoFactorEnabled bool   `gorm:"not null;default:false" json:"two_factor_enabled"`
}

// RegisterRequest represents registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password" binding:"required,min=6"`
}

// OTPVerifyRequest carries a one-time code submitted for verification
type OTPVerifyRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Code   string `json:"code" binding:"required,len=6"`
}

// ForgotPasswordRequest represents a password reset initiation payload
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents an OTP-gated password reset payload
type ResetPasswordRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// LoginResult is returned by the login flow. When the account has 2FA
// enabled no tokens are issued until the emailed code is verified.
type LoginResult struct {
	RequiresOTP bool               `json:"requires_otp"`
	UserID      uint               `json:"user_id,omitempty"`
	Tokens      *models.TokenPair  `json:"tokens,omitempty"`
}

func (User) TableName() string {
	return "users"
}
