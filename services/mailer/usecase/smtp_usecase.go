package usecase

import (
	"fmt"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"
)

// SMTPUsecase defines owner-scoped SMTP configuration management
type SMTPUsecase interface {
	// Upsert creates the owner's config (password required) or updates it
	// (blank password keeps the stored credential).
	Upsert(userID uint, req *models.SMTPConfigRequest) (*models.SMTPConfig, error)
	Get(userID uint) (*models.SMTPConfig, error)
}

type smtpUsecase struct {
	smtpRepo repository.SMTPRepository
}

// NewSMTPUsecase creates a new SMTP config usecase
func NewSMTPUsecase(smtpRepo repository.SMTPRepository) SMTPUsecase {
	return &smtpUsecase{smtpRepo: smtpRepo}
}

// Upsert applies create-or-update semantics for the single per-owner config
func (u *smtpUsecase) Upsert(userID uint, req *models.SMTPConfigRequest) (*models.SMTPConfig, error) {
	cfg, err := u.smtpRepo.GetForUser(userID)
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		if req.Password == "" {
			return nil, apperrors.NewValidation("password is required for new SMTP configuration")
		}
		cfg = &models.SMTPConfig{UserID: userID}
	}

	cfg.Host = req.Host
	cfg.Port = req.Port
	cfg.Username = req.Username
	cfg.FromEmail = req.FromEmail
	if req.Password != "" {
		cfg.Password = req.Password
	}

	if err := u.smtpRepo.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the owner's config
func (u *smtpUsecase) Get(userID uint) (*models.SMTPConfig, error) {
	cfg, err := u.smtpRepo.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("SMTP config: %w", apperrors.ErrNotFound)
	}
	return cfg, nil
}
