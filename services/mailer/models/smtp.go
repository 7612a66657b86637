package models

import (
	"novamailer/shared/models"
)

// SMTPConfig holds a user's outbound mail server settings. One row per
// owner; writes go through upsert semantics.
type SMTPConfig struct {
	models.BaseModel
	Host      string `gorm:"not null;size:255" json:"host"`
	Port      int    `gorm:"not null" json:"port"`
	Username  string `gorm:"size:255" json:"username"`
	Password  string `gorm:"size:255" json:"-"`
	FromEmail string `gorm:"not null;size:320" json:"from_email"`
	UserID    uint   `gorm:"not null;uniqueIndex" json:"user_id"`
}

// SMTPConfigRequest represents the upsert payload. Password is optional on
// update; leaving it blank keeps the stored credential.
type SMTPConfigRequest struct {
	Host      string `json:"host" binding:"required"`
	Port      int    `json:"port" binding:"required,min=1,max=65535"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	FromEmail string `json:"from_email" binding:"required,email"`
}

func (SMTPConfig) TableName() string {
	return "smtp_configs"
}
