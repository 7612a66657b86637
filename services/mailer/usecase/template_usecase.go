package usecase

import (
	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"
)

// TemplateUsecase defines reusable template management
type TemplateUsecase interface {
	Create(userID uint, req *models.TemplateCreateRequest) (*models.Template, error)
	List(userID uint, limit, offset int) ([]*models.Template, error)
}

type templateUsecase struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateUsecase creates a new template usecase
func NewTemplateUsecase(templateRepo repository.TemplateRepository) TemplateUsecase {
	return &templateUsecase{templateRepo: templateRepo}
}

func (u *templateUsecase) Create(userID uint, req *models.TemplateCreateRequest) (*models.Template, error) {
	template := &models.Template{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
		UserID:  userID,
	}
	if err := u.templateRepo.Create(template); err != nil {
		return nil, err
	}
	return template, nil
}

func (u *templateUsecase) List(userID uint, limit, offset int) ([]*models.Template, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return u.templateRepo.GetAllForUser(userID, limit, offset)
}
