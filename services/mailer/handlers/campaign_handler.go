package handlers

import (
	"io"
	"net/http"
	"strconv"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/usecase"
	"novamailer/shared/logger"
	"novamailer/shared/middleware"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles HTTP requests for campaigns
type CampaignHandler struct {
	campaignUsecase usecase.CampaignUsecase
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignUsecase usecase.CampaignUsecase) *CampaignHandler {
	return &CampaignHandler{campaignUsecase: campaignUsecase}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid " + name,
			"request_id": requestid.Get(c),
		})
		return 0, false
	}
	return uint(id), true
}

// Create handles campaign creation
func (h *CampaignHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CampaignCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	campaign, err := h.campaignUsecase.Create(userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// List returns the owner's campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	campaigns, err := h.campaignUsecase.List(userID, limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list campaigns")
		return
	}

	c.JSON(http.StatusOK, campaigns)
}

// Get returns one campaign
func (h *CampaignHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignUsecase.Get(userID, campaignID)
	if err != nil {
		respondError(c, err, "Failed to get campaign")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// Details returns the campaign with stats and recipients
func (h *CampaignHandler) Details(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.campaignUsecase.Details(userID, campaignID)
	if err != nil {
		respondError(c, err, "Failed to get campaign details")
		return
	}

	c.JSON(http.StatusOK, details)
}

// UploadCSV imports recipients from a CSV file
func (h *CampaignHandler) UploadCSV(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	opened, err := file.Open()
	if err != nil {
		respondError(c, err, "Failed to read uploaded file")
		return
	}
	defer opened.Close()

	count, err := h.campaignUsecase.ImportRecipients(userID, campaignID, opened)
	if err != nil {
		respondError(c, err, "Failed to import recipients")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Successfully added " + strconv.Itoa(count) + " recipients",
		"count":      count,
		"request_id": requestid.Get(c),
	})
}

// UploadAttachment stores one attachment on the campaign
func (h *CampaignHandler) UploadAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	opened, err := file.Open()
	if err != nil {
		respondError(c, err, "Failed to read uploaded file")
		return
	}
	defer opened.Close()

	data, err := io.ReadAll(opened)
	if err != nil {
		respondError(c, err, "Failed to read uploaded file")
		return
	}

	attachment, err := h.campaignUsecase.AddAttachment(userID, campaignID, file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, err, "Failed to upload attachment")
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// ListAttachments lists a campaign's attachments
func (h *CampaignHandler) ListAttachments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.campaignUsecase.ListAttachments(userID, campaignID)
	if err != nil {
		respondError(c, err, "Failed to list attachments")
		return
	}

	c.JSON(http.StatusOK, attachments)
}

// DeleteAttachment removes one attachment
func (h *CampaignHandler) DeleteAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "attachment_id")
	if !ok {
		return
	}

	if err := h.campaignUsecase.DeleteAttachment(userID, campaignID, attachmentID); err != nil {
		respondError(c, err, "Failed to delete attachment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Attachment deleted",
		"request_id": requestid.Get(c),
	})
}

// Preview renders the campaign against sample data
func (h *CampaignHandler) Preview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var sample models.RecipientData
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&sample); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	preview, err := h.campaignUsecase.Preview(userID, campaignID, sample)
	if err != nil {
		respondError(c, err, "Failed to render preview")
		return
	}

	c.JSON(http.StatusOK, preview)
}

// TestSend sends a single rendered message to the given address
func (h *CampaignHandler) TestSend(c *gin.Context) {
	requestID := requestid.Get(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	toEmail := c.Query("test_email")
	if toEmail == "" {
		badRequest(c, "test_email query parameter is required")
		return
	}

	var sample models.RecipientData
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&sample); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	if err := h.campaignUsecase.TestSend(userID, campaignID, toEmail, sample); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id":  requestID,
			"campaign_id": campaignID,
			"error":       err.Error(),
		}).Error("Test send failed")
		respondError(c, err, "Failed to send test email")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Test email sent to " + toEmail,
		"request_id": requestID,
	})
}

// Send runs one send pass over all pending recipients
func (h *CampaignHandler) Send(c *gin.Context) {
	requestID := requestid.Get(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.campaignUsecase.Send(userID, campaignID)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id":  requestID,
			"campaign_id": campaignID,
			"error":       err.Error(),
		}).Error("Campaign send failed")
		respondError(c, err, "Failed to send campaign")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Campaign completed",
		"sent":        result.Sent,
		"failed":      result.Failed,
		"total":       result.Total,
		"attachments": result.Attachments,
		"request_id":  requestID,
	})
}
