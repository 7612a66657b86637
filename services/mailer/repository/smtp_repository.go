package repository

import (
	"errors"
	"fmt"

	"novamailer/services/mailer/models"
	"novamailer/shared/database"

	"gorm.io/gorm"
)

// SMTPRepository defines the interface for SMTP configuration storage
type SMTPRepository interface {
	// GetForUser returns the owner's config, or nil when none exists.
	GetForUser(userID uint) (*models.SMTPConfig, error)
	// First returns any configured SMTP config, used for system mail such
	// as OTP delivery before the user has their own config.
	First() (*models.SMTPConfig, error)
	Save(cfg *models.SMTPConfig) error
}

type smtpRepository struct {
	db *database.DB
}

// NewSMTPRepository creates a new SMTP config repository
func NewSMTPRepository(db *database.DB) SMTPRepository {
	return &smtpRepository{db: db}
}

// GetForUser returns the owner's config, or nil when absent
func (r *smtpRepository) GetForUser(userID uint) (*models.SMTPConfig, error) {
	var cfg models.SMTPConfig
	err := r.db.Where("user_id = ?", userID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get SMTP config: %w", err)
	}
	return &cfg, nil
}

// First returns any configured SMTP config, or nil when none exists
func (r *smtpRepository) First() (*models.SMTPConfig, error) {
	var cfg models.SMTPConfig
	err := r.db.Order("id ASC").First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get SMTP config: %w", err)
	}
	return &cfg, nil
}

// Save creates or updates a config
func (r *smtpRepository) Save(cfg *models.SMTPConfig) error {
	if err := r.db.Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to save SMTP config: %w", err)
	}
	return nil
}
