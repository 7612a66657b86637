package repository

import (
	"fmt"

	"novamailer/services/mailer/models"
	"novamailer/shared/database"
)

// TemplateRepository defines the interface for saved template storage
type TemplateRepository interface {
	Create(template *models.Template) error
	GetAllForUser(userID uint, limit, offset int) ([]*models.Template, error)
}

type templateRepository struct {
	db *database.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *database.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(template *models.Template) error {
	if err := r.db.Create(template).Error; err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) GetAllForUser(userID uint, limit, offset int) ([]*models.Template, error) {
	var templates []*models.Template
	err := r.db.Where("user_id = ?", userID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	return templates, nil
}
