package models

import (
	"novamailer/shared/models"
)

// Template is a reusable subject/body pair users can copy into campaigns
type Template struct {
	models.BaseModel
	Name    string `gorm:"not null;size:255" json:"name"`
	Subject string `gorm:"not null;size:500" json:"subject"`
	Body    string `gorm:"type:text;not null" json:"body"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
}

// TemplateCreateRequest represents template creation payload
type TemplateCreateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Subject string `json:"subject" binding:"required,min=1,max=500"`
	Body    string `json:"body" binding:"required"`
}

func (Template) TableName() string {
	return "templates"
}
