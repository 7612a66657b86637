package handlers

import (
	"net/http"
	"strconv"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/usecase"

	"github.com/gin-gonic/gin"
)

// TemplateHandler handles HTTP requests for saved templates
type TemplateHandler struct {
	templateUsecase usecase.TemplateUsecase
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateUsecase usecase.TemplateUsecase) *TemplateHandler {
	return &TemplateHandler{templateUsecase: templateUsecase}
}

// Create saves a reusable template
func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.TemplateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	template, err := h.templateUsecase.Create(userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// List returns the caller's saved templates
func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	templates, err := h.templateUsecase.List(userID, limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}
