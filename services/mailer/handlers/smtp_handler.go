package handlers

import (
	"net/http"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/usecase"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// SMTPHandler handles HTTP requests for SMTP configuration
type SMTPHandler struct {
	smtpUsecase usecase.SMTPUsecase
}

// NewSMTPHandler creates a new SMTP handler
func NewSMTPHandler(smtpUsecase usecase.SMTPUsecase) *SMTPHandler {
	return &SMTPHandler{smtpUsecase: smtpUsecase}
}

// Upsert creates or updates the caller's SMTP configuration
func (h *SMTPHandler) Upsert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SMTPConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cfg, err := h.smtpUsecase.Upsert(userID, &req)
	if err != nil {
		respondError(c, err, "Failed to save SMTP configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "SMTP configuration saved",
		"config":     cfg,
		"request_id": requestid.Get(c),
	})
}

// Get returns the caller's SMTP configuration
func (h *SMTPHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cfg, err := h.smtpUsecase.Get(userID)
	if err != nil {
		respondError(c, err, "Failed to get SMTP configuration")
		return
	}

	c.JSON(http.StatusOK, cfg)
}
